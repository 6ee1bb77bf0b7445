package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/client"
	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/server"
	"github.com/MKhiriev/hostile-planets/models"
)

const shutdownTimeout = 5 * time.Second

// Diagnostic player names checked by the launcher.
const (
	checkedDefaultPlayer = config.DefaultPlayerName
	checkedPlayer        = "Henry"
)

// ErrServerNotStarted is returned by LaunchScript when the background server
// stops before it is ready.
var ErrServerNotStarted = errors.New("server did not start")

// ServerOptions select the server configuration and an optional listen_to
// address.
type ServerOptions struct {
	ConfPath string
	Address  string
}

// ClientOptions select the client configuration, an optional connect_to
// address, a model to load and the main loop backend.
type ClientOptions struct {
	ConfPath string
	Address  string
	GLTFPath string
	Headless bool
}

// Harness prints diagnostics to out. The server and launcher log with
// logger, the client with clientLogger; a nil clientLogger makes the client
// log to the file named by its configuration.
type Harness struct {
	out       io.Writer
	buildInfo models.AppBuildInfo

	logger       *logger.Logger
	clientLogger *logger.Logger
}

// New returns a harness that prints to out.
func New(out io.Writer, buildInfo models.AppBuildInfo, logger, clientLogger *logger.Logger) *Harness {
	return &Harness{
		out:          out,
		buildInfo:    buildInfo,
		logger:       logger,
		clientLogger: clientLogger,
	}
}

// ServerScript builds a server, describes it and listens in the foreground
// until ctx is done.
func (h *Harness) ServerScript(ctx context.Context, opts ServerOptions) error {
	s, err := h.newServer(opts)
	if err != nil {
		return err
	}
	defer h.shutdown(s)

	h.println("server contents:")
	h.println(Describe(s))

	return listen(ctx, s, opts.Address)
}

// ClientScript builds a client, connects in the background, describes it
// and runs the main loop.
func (h *Harness) ClientScript(ctx context.Context, opts ClientOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c, err := h.newClient(opts)
	if err != nil {
		return err
	}

	h.background(ctx, "connect", func(ctx context.Context) error {
		return connect(ctx, c, opts.Address)
	})

	h.println("client contents:")
	h.println(Describe(c))

	return c.Run(ctx)
}

// LaunchScript runs a server and a client connected to it in one process.
// Server diagnostics are printed only once the server is ready.
func (h *Harness) LaunchScript(ctx context.Context, serverOpts ServerOptions, clientOpts ClientOptions) error {
	s, err := h.newServer(serverOpts)
	if err != nil {
		return err
	}
	defer h.shutdown(s)

	// the client stops before the server
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listenErr := h.background(ctx, "listen", func(ctx context.Context) error {
		return listen(ctx, s, serverOpts.Address)
	})

	select {
	case <-s.Ready():
	case err = <-listenErr:
		if err == nil {
			return ErrServerNotStarted
		}
		return fmt.Errorf("%w: %w", ErrServerNotStarted, err)
	case <-ctx.Done():
		return nil
	}

	h.println("server contents:")
	h.println(Describe(s))
	h.println("server conf:")
	h.println(s.Conf().Values().String())
	h.println("server name: " + s.Name())
	h.println("server players:")
	h.println(formatPlayers(s.Players()))
	for _, name := range []string{checkedDefaultPlayer, checkedPlayer} {
		h.println(fmt.Sprintf("is %s connected? %t", name, s.IsConnected(name)))
	}

	c, err := h.newClient(clientOpts)
	if err != nil {
		return err
	}

	h.background(ctx, "connect", func(ctx context.Context) error {
		return connect(ctx, c, clientOpts.Address)
	})

	h.println("client contents:")
	h.println(Describe(c))
	h.println("client conf:")
	h.println(c.Conf().Values().String())

	if clientOpts.GLTFPath != "" {
		model, err := c.LoadGLTF(clientOpts.GLTFPath)
		if err != nil {
			return err
		}
		h.println("model: " + model.String())
	}

	return c.Run(ctx)
}

func (h *Harness) newServer(opts ServerOptions) (*server.Server, error) {
	s, err := server.New(opts.ConfPath, h.buildInfo, h.logger)
	if err != nil {
		return nil, err
	}
	h.logger.Debug().Interface("conf", s.Conf()).Msg("server configuration loaded")
	return s, nil
}

func (h *Harness) newClient(opts ClientOptions) (*client.Client, error) {
	conf, err := config.LoadClientConf(opts.ConfPath)
	if err != nil {
		return nil, err
	}
	if opts.Headless {
		conf.Backend = config.BackendHeadless
	}
	log := h.clientLogger
	if log == nil {
		log = logger.NewClientLogger("hp-client", conf.LogFile)
	}
	log.Debug().Interface("conf", conf).Msg("client configuration loaded")

	return client.NewWithConf(conf, log), nil
}

// background runs fn on its own goroutine. Its error is logged unless ctx
// is already done, and delivered on the returned channel.
func (h *Harness) background(ctx context.Context, name string, fn func(context.Context) error) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := fn(ctx)
		if err != nil && ctx.Err() == nil {
			h.logger.Error().Err(err).Str("unit", name).Msg("background unit failed")
		}
		done <- err
	}()
	return done
}

func (h *Harness) shutdown(s *server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		h.logger.Error().Err(err).Msg("server shutdown failed")
	}
}

func (h *Harness) println(s string) {
	_, _ = fmt.Fprintln(h.out, s)
}

func listen(ctx context.Context, s *server.Server, addr string) error {
	if addr != "" {
		return s.ListenTo(ctx, addr)
	}
	return s.Listen(ctx)
}

func connect(ctx context.Context, c *client.Client, addr string) error {
	if addr != "" {
		return c.ConnectTo(ctx, addr)
	}
	return c.Connect(ctx)
}

func formatPlayers(players []models.Player) string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

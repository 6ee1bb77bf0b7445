package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/adapter"
	"github.com/MKhiriev/hostile-planets/internal/assets"
	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/tui"
	"github.com/MKhiriev/hostile-planets/models"
	"github.com/sethvargo/go-retry"
)

const eventBufferSize = 64

// Client is a game client built from a [config.ClientConf].
type Client struct {
	conf *config.ClientConf

	dialer adapter.SessionDialer
	newAPI func(addr string) (adapter.ServerAdapter, error)

	mu      sync.Mutex
	addr    string
	session adapter.Session
	api     adapter.ServerAdapter
	welcome models.Welcome
	player  models.Player
	token   string
	models  []*assets.Model
	runCtx  context.Context

	connected     chan struct{}
	connectedOnce sync.Once
	events        chan models.Event

	logger *logger.Logger
}

// New loads the client configuration from confPath and builds a client.
func New(confPath string, log *logger.Logger) (*Client, error) {
	conf, err := config.LoadClientConf(confPath)
	if err != nil {
		return nil, err
	}
	return NewWithConf(conf, log), nil
}

// NewWithConf builds a client from an already loaded configuration.
func NewWithConf(conf *config.ClientConf, log *logger.Logger) *Client {
	log.Info().Str("name", conf.Name).Str("player", conf.PlayerName()).Msg("creating new client...")

	timeout := conf.RequestTimeout.Std()
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	return &Client{
		conf:   conf,
		dialer: adapter.NewSessionDialer(timeout, log),
		newAPI: func(addr string) (adapter.ServerAdapter, error) {
			return adapter.NewHTTPServerAdapter(addr, timeout, log)
		},
		connected: make(chan struct{}),
		events:    make(chan models.Event, eventBufferSize),
		logger:    log,
	}
}

// Connect connects to the configured server address. See [Client.ConnectTo].
func (c *Client) Connect(ctx context.Context) error {
	return c.ConnectTo(ctx, c.conf.ServerAddress())
}

// ConnectTo dials addr and joins as the configured player, retrying failed
// attempts with exponential backoff until it succeeds, the configured number
// of attempts is used up, or ctx is done. Once joined, the session is served
// in the background until ctx is done; a lost session is reconnected.
func (c *Client) ConnectTo(ctx context.Context, addr string) error {
	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	token := c.token
	c.mu.Unlock()

	api, err := c.newAPI(addr)
	if err != nil {
		return err
	}

	c.logger.Info().Str("address", addr).Str("player", c.Player()).Msg("connecting to server...")

	var (
		session adapter.Session
		welcome models.Welcome
		joined  models.Joined
		lastErr error
	)
	err = retry.Do(ctx, c.backoff(addr, &lastErr), func(ctx context.Context) error {
		session, welcome, joined, lastErr = c.handshake(ctx, addr, token)
		if lastErr == nil {
			return nil
		}
		if permanent(lastErr) {
			return lastErr
		}
		return retry.RetryableError(lastErr)
	})
	if err != nil {
		c.logger.Error().Err(err).Str("address", addr).Msg("connect failed")
		return err
	}

	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		_ = session.Close()
		return ErrAlreadyConnected
	}
	c.addr = addr
	c.session = session
	c.api = api
	c.welcome = welcome
	c.player = joined.Player
	c.token = joined.Token
	c.mu.Unlock()

	c.logger.Info().Str("address", addr).Str("server", welcome.Server).Msg("connected")
	c.connectedOnce.Do(func() { close(c.connected) })
	c.emit(models.Event{Kind: models.EventConnected, Message: welcome.MOTD, Player: joined.Player})

	go c.readLoop(ctx, session, addr)
	go c.heartbeat(ctx, session)

	return nil
}

// backoff doubles the retry interval up to the configured maximum and logs
// every failed attempt with the delay before the next one.
func (c *Client) backoff(addr string, lastErr *error) retry.Backoff {
	interval := c.conf.Retry.Interval.Std()
	if interval <= 0 {
		interval = config.DefaultRetryInterval
	}

	b := retry.NewExponential(interval)
	if maxInterval := c.conf.Retry.MaxInterval.Std(); maxInterval > 0 {
		b = retry.WithCappedDuration(maxInterval, b)
	}
	if n := c.conf.Retry.MaxAttempts; n > 0 {
		b = retry.WithMaxRetries(uint64(n-1), b)
	}

	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		next, stop := b.Next()

		event := c.logger.Warn().Err(*lastErr).Str("address", addr).Int("attempt", attempt)
		if stop {
			event.Msg("connection attempt failed, giving up")
			return 0, true
		}
		event.Dur("retry_in", next).Msg("connection attempt failed")
		return next, false
	})
}

// permanent reports whether retrying cannot help.
func permanent(err error) bool {
	return errors.Is(err, ErrJoinRejected) && !errors.Is(err, errNameInUse)
}

var errNameInUse = errors.New(models.ErrorNameInUse)

func (c *Client) handshake(ctx context.Context, addr, token string) (adapter.Session, models.Welcome, models.Joined, error) {
	hctx, cancel := context.WithTimeout(ctx, c.requestTimeout())
	defer cancel()

	session, err := c.dialer.Dial(hctx, addr)
	if err != nil {
		return nil, models.Welcome{}, models.Joined{}, err
	}
	stop := context.AfterFunc(hctx, func() { _ = session.Close() })

	welcome, joined, err := join(session, c.Player(), token)
	if stopped := stop(); err != nil || !stopped {
		_ = session.Close()
		if hctx.Err() != nil {
			err = fmt.Errorf("handshake with %s: %w", addr, hctx.Err())
		}
		return nil, models.Welcome{}, models.Joined{}, err
	}

	return session, welcome, joined, nil
}

func (c *Client) requestTimeout() time.Duration {
	if d := c.conf.RequestTimeout.Std(); d > 0 {
		return d
	}
	return config.DefaultRequestTimeout
}

func join(session adapter.Session, name, token string) (models.Welcome, models.Joined, error) {
	var (
		welcome models.Welcome
		joined  models.Joined
	)

	env, err := session.Receive()
	if err != nil {
		return welcome, joined, fmt.Errorf("waiting for welcome: %w", err)
	}
	if env.Type != models.MessageWelcome {
		return welcome, joined, fmt.Errorf("%w: %q instead of welcome", ErrUnexpectedReply, env.Type)
	}
	if err = env.Decode(&welcome); err != nil {
		return welcome, joined, err
	}

	req, err := models.NewEnvelope(models.MessageJoin, models.Join{Name: name, Token: token})
	if err != nil {
		return welcome, joined, err
	}
	if err = session.Send(req); err != nil {
		return welcome, joined, err
	}

	env, err = session.Receive()
	if err != nil {
		return welcome, joined, fmt.Errorf("waiting for joined: %w", err)
	}
	switch env.Type {
	case models.MessageJoined:
		err = env.Decode(&joined)
		return welcome, joined, err
	case models.MessageError:
		if env.Error == models.ErrorNameInUse {
			return welcome, joined, fmt.Errorf("%w: %w", ErrJoinRejected, errNameInUse)
		}
		return welcome, joined, fmt.Errorf("%w: %s", ErrJoinRejected, env.Error)
	default:
		return welcome, joined, fmt.Errorf("%w: %q instead of joined", ErrUnexpectedReply, env.Type)
	}
}

func (c *Client) readLoop(ctx context.Context, session adapter.Session, addr string) {
	stop := context.AfterFunc(ctx, func() { _ = session.Close() })
	defer stop()

	for {
		env, err := session.Receive()
		if err != nil {
			c.dropSession(session)
			c.emit(models.Event{Kind: models.EventDisconnected, Err: err})
			c.reconnect(ctx, addr, err)
			return
		}
		c.handle(env)
	}
}

func (c *Client) reconnect(ctx context.Context, addr string, cause error) {
	if ctx.Err() != nil {
		c.logger.Info().Str("address", addr).Msg("session closed")
		return
	}

	var closeErr *adapter.CloseError
	if errors.As(cause, &closeErr) && closeErr.Reason == models.CloseReasonTakenOver {
		c.logger.Warn().Str("address", addr).Msg("session taken over by another client, not reconnecting")
		return
	}

	c.logger.Warn().Err(cause).Str("address", addr).Msg("session lost, reconnecting...")
	if err := c.ConnectTo(ctx, addr); err != nil && ctx.Err() == nil {
		c.logger.Error().Err(err).Str("address", addr).Msg("reconnect failed")
	}
}

func (c *Client) heartbeat(ctx context.Context, session adapter.Session) {
	interval := c.conf.Heartbeat.Interval.Std()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := session.Send(models.Envelope{Type: models.MessagePing}); err != nil {
				c.logger.Debug().Err(err).Msg("heartbeat stopped")
				_ = session.Close()
				return
			}
		}
	}
}

func (c *Client) handle(env models.Envelope) {
	switch env.Type {
	case models.MessagePlayers:
		var players []models.Player
		if err := env.Decode(&players); err != nil {
			c.logger.Warn().Err(err).Msg("bad players message")
			return
		}
		c.emit(models.Event{Kind: models.EventPlayers, Players: players})
	case models.MessageMoved:
		var moved models.Moved
		if err := env.Decode(&moved); err != nil {
			c.logger.Warn().Err(err).Msg("bad moved message")
			return
		}
		c.mu.Lock()
		c.player.Units = replaceUnit(c.player.Units, moved.Unit)
		c.mu.Unlock()
		c.emit(models.Event{Kind: models.EventMoved, Unit: moved.Unit})
	case models.MessagePong:
		var pong models.Pong
		if err := env.Decode(&pong); err == nil {
			c.logger.Debug().Time("server_time", time.UnixMilli(pong.TS)).Msg("pong")
		}
	case models.MessageError:
		c.logger.Warn().Str("error", env.Error).Msg("server error")
		c.emit(models.Event{Kind: models.EventServerError, Message: env.Error})
	default:
		c.logger.Debug().Str("type", string(env.Type)).Msg("ignoring message")
	}
}

func replaceUnit(units []models.Unit, u models.Unit) []models.Unit {
	units = slices.Clone(units)
	for i := range units {
		if units[i].Type == u.Type {
			units[i] = u
			return units
		}
	}
	return append(units, u)
}

func (c *Client) dropSession(session adapter.Session) {
	c.mu.Lock()
	if c.session == session {
		c.session = nil
	}
	c.mu.Unlock()
	_ = session.Close()
}

func (c *Client) emit(ev models.Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Warn().Str("event", ev.Kind.String()).Msg("event buffer full, dropping event")
	}
}

func (c *Client) currentSession() (adapter.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, ErrNotConnected
	}
	return c.session, nil
}

func (c *Client) currentAPI() (adapter.ServerAdapter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.api == nil {
		return nil, ErrNotConnected
	}
	return c.api, nil
}

// Move asks the server to move the player's scout by (dx, dy). The new
// position arrives as a [models.EventMoved] event.
func (c *Client) Move(ctx context.Context, dx, dy int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	session, err := c.currentSession()
	if err != nil {
		return err
	}

	env, err := models.NewEnvelope(models.MessageMove, models.Move{DX: dx, DY: dy})
	if err != nil {
		return err
	}
	return session.Send(env)
}

// Players fetches the player list of the server the client last connected
// to over its REST API.
func (c *Client) Players(ctx context.Context) ([]models.Player, error) {
	api, err := c.currentAPI()
	if err != nil {
		return nil, err
	}
	return api.Players(ctx)
}

// ServerStatus fetches the status summary of the server.
func (c *Client) ServerStatus(ctx context.Context) (models.ServerStatus, error) {
	api, err := c.currentAPI()
	if err != nil {
		return models.ServerStatus{}, err
	}
	return api.Status(ctx)
}

// ServerVersion fetches the build information of the server.
func (c *Client) ServerVersion(ctx context.Context) (models.BuildVersionResponse, error) {
	api, err := c.currentAPI()
	if err != nil {
		return models.BuildVersionResponse{}, err
	}
	return api.Version(ctx)
}

// LoadGLTF loads a glTF model and adds it to the client's model list. While
// [Client.Run] is running, the file is watched and reloaded on change.
func (c *Client) LoadGLTF(path string) (*assets.Model, error) {
	model, err := assets.Load(path)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("model load failed")
		return nil, err
	}
	c.logger.Info().
		Str("model", model.Name).
		Strs("scenes", model.Scenes).
		Int("meshes", model.Meshes).
		Int("vertices", model.Vertices).
		Msg("model loaded")

	c.mu.Lock()
	c.setModel(model)
	runCtx := c.runCtx
	c.mu.Unlock()

	c.emit(models.Event{Kind: models.EventModel, Message: model.String()})
	if runCtx != nil {
		go c.watchModel(runCtx, model.Path)
	}
	return model, nil
}

// setModel must be called with c.mu held.
func (c *Client) setModel(model *assets.Model) {
	for i, m := range c.models {
		if m.Path == model.Path {
			c.models[i] = model
			return
		}
	}
	c.models = append(c.models, model)
}

func (c *Client) watchModel(ctx context.Context, path string) {
	err := assets.Watch(ctx, path, c.logger, func(model *assets.Model) {
		c.mu.Lock()
		c.setModel(model)
		c.mu.Unlock()
		c.emit(models.Event{Kind: models.EventModel, Message: model.String()})
	})
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("model watch failed")
	}
}

// Run runs the main loop selected by the backend setting until the user
// quits or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	loop, err := c.mainLoop()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	c.runCtx = ctx
	watched := make([]string, 0, len(c.models))
	for _, m := range c.models {
		watched = append(watched, m.Path)
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.runCtx = nil
		c.mu.Unlock()
	}()

	for _, path := range watched {
		go c.watchModel(ctx, path)
	}

	c.logger.Info().Str("backend", c.conf.Backend).Msg("client main loop started")
	err = loop.Run(ctx)
	c.logger.Info().Err(err).Msg("client main loop stopped")
	return err
}

func (c *Client) mainLoop() (mainLoop, error) {
	switch c.conf.Backend {
	case config.BackendTerminal, "":
		return tui.New(c, c.logger), nil
	case config.BackendHeadless:
		return newHeadlessLoop(c, c.logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.conf.Backend)
	}
}

// Conf returns a copy of the client configuration.
func (c *Client) Conf() config.ClientConf {
	return *c.conf
}

// Connected is closed once the first join handshake completes.
func (c *Client) Connected() <-chan struct{} {
	return c.connected
}

// Events delivers session events to the main loop. Events are dropped when
// nobody reads them and the buffer is full.
func (c *Client) Events() <-chan models.Event {
	return c.events
}

// Welcome returns the message of the day sent by the server, or "" before
// the first connection.
func (c *Client) Welcome() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.welcome.MOTD
}

// ServerName returns the name the server announced in its welcome.
func (c *Client) ServerName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.welcome.Server
}

// Player returns the name the client joins as.
func (c *Client) Player() string {
	return c.conf.PlayerName()
}

// Scout returns the player's scout as last reported by the server.
func (c *Client) Scout() (models.Unit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player.Scout()
}

// Address returns the address of the current or last server, or the
// configured one before the first connection.
func (c *Client) Address() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.addr != "" {
		return c.addr
	}
	return c.conf.ServerAddress()
}

// IsConnected reports whether the client has a live session.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Models returns the loaded models.
func (c *Client) Models() []*assets.Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.models)
}

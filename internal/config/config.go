// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net"
	"strconv"
	"time"
)

// Default values applied before the file and environment layers.
const (
	DefaultServerName       = "Hostile Planets server"
	DefaultClientName       = "Hostile Planets client"
	DefaultIP               = "127.0.0.1"
	DefaultPort             = 8080
	DefaultDSN              = ":memory:"
	DefaultTokenDuration    = 24 * time.Hour
	DefaultHeartbeatTimeout = 90 * time.Second
	DefaultReapInterval     = 15 * time.Second
	DefaultFlushInterval    = 30 * time.Second
	DefaultRetryInterval    = 10 * time.Second
	DefaultRetryMaxInterval = 60 * time.Second
	DefaultHeartbeat        = 30 * time.Second
	DefaultRequestTimeout   = 5 * time.Second
	DefaultPlayerName       = "default player"

	BackendTerminal = "terminal"
	BackendHeadless = "headless"
)

// ServerConf is the configuration of a game server, loaded from
// serverconf.toml and overridden by HP_SERVER_* environment variables.
//
// Struct tags:
//   - toml: key in the TOML document (pelletier/go-toml).
//   - env: environment variable name, relative to the role prefix (caarlos0/env).
//   - envPrefix: prefix applied to nested env lookups.
type ServerConf struct {
	// Name is the display name reported by the server.
	// Env: HP_SERVER_NAME
	Name string `toml:"name" env:"NAME"`

	// Address is an explicit "host:port" listen address. When set it takes
	// precedence over Server.IP and Server.Port.
	// Env: HP_SERVER_ADDRESS
	Address string `toml:"address" env:"ADDRESS"`

	// Server holds the [server] table: ip, port and maps.
	Server ServerSection `toml:"server"`

	// Storage holds the roster database settings.
	Storage Storage `toml:"storage" envPrefix:"STORAGE_"`

	// GRPC holds the optional health endpoint settings.
	GRPC GRPC `toml:"grpc" envPrefix:"GRPC_"`

	// Session holds join token and heartbeat settings.
	Session Session `toml:"session" envPrefix:"SESSION_"`

	// Workers holds background worker periods.
	Workers Workers `toml:"workers" envPrefix:"WORKERS_"`

	path   string
	values Values
}

// ServerSection is the [server] table.
type ServerSection struct {
	// IP is the host part of the listen address.
	// Env: HP_SERVER_IP
	IP string `toml:"ip" env:"IP"`

	// Port is the port part of the listen address.
	// Env: HP_SERVER_PORT
	Port int `toml:"port" env:"PORT"`

	// Maps lists the playable maps. Not settable from the environment.
	Maps []MapConf `toml:"maps"`
}

// MapConf is one [[server.maps]] entry.
type MapConf struct {
	Name   string `toml:"name" json:"name"`
	Script string `toml:"script" json:"script"`
}

// Storage holds connection settings for the roster database.
type Storage struct {
	// DSN is a sqlite file path, ":memory:", or a postgres:// URL.
	// Env: HP_SERVER_STORAGE_DSN
	DSN string `toml:"dsn" env:"DSN"`
}

// GRPC holds gRPC health endpoint settings. An empty address disables it.
type GRPC struct {
	// Env: HP_SERVER_GRPC_ADDRESS
	Address string `toml:"address" env:"ADDRESS"`
}

// Session holds settings for join tokens and connection liveness.
type Session struct {
	// TokenSignKey is the HMAC key used to sign resume tokens. When empty a
	// random key is generated at startup, so tokens do not survive restarts.
	// Env: HP_SERVER_SESSION_TOKEN_SIGN_KEY
	TokenSignKey string `toml:"token_sign_key" env:"TOKEN_SIGN_KEY"`

	// TokenDuration is how long a resume token stays valid.
	// Env: HP_SERVER_SESSION_TOKEN_DURATION
	TokenDuration Duration `toml:"token_duration" env:"TOKEN_DURATION"`

	// HeartbeatTimeout closes sessions that have been silent for longer.
	// Env: HP_SERVER_SESSION_HEARTBEAT_TIMEOUT
	HeartbeatTimeout Duration `toml:"heartbeat_timeout" env:"HEARTBEAT_TIMEOUT"`
}

// Workers holds background worker periods.
type Workers struct {
	// Env: HP_SERVER_WORKERS_REAP_INTERVAL
	ReapInterval Duration `toml:"reap_interval" env:"REAP_INTERVAL"`

	// Env: HP_SERVER_WORKERS_FLUSH_INTERVAL
	FlushInterval Duration `toml:"flush_interval" env:"FLUSH_INTERVAL"`
}

// ListenAddress returns the configured listen address: Address when set,
// otherwise Server.IP:Server.Port.
func (c ServerConf) ListenAddress() string {
	if c.Address != "" {
		return c.Address
	}
	return net.JoinHostPort(c.Server.IP, strconv.Itoa(c.Server.Port))
}

// Path returns the file the configuration was loaded from.
func (c ServerConf) Path() string {
	return c.path
}

// Values returns a copy of the raw document as it appeared in the file.
func (c ServerConf) Values() Values {
	return c.values.clone()
}

// Maps returns a copy of the configured maps.
func (c ServerConf) Maps() []MapConf {
	return append([]MapConf(nil), c.Server.Maps...)
}

func (c *ServerConf) setSource(path string, values Values) {
	c.path = path
	c.values = values
}

func defaultServerConf() *ServerConf {
	return &ServerConf{
		Name:    DefaultServerName,
		Server:  ServerSection{IP: DefaultIP, Port: DefaultPort},
		Storage: Storage{DSN: DefaultDSN},
		Session: Session{
			TokenDuration:    Duration(DefaultTokenDuration),
			HeartbeatTimeout: Duration(DefaultHeartbeatTimeout),
		},
		Workers: Workers{
			ReapInterval:  Duration(DefaultReapInterval),
			FlushInterval: Duration(DefaultFlushInterval),
		},
	}
}

// ClientConf is the configuration of a game client, loaded from
// clientconf.toml and overridden by HP_CLIENT_* environment variables.
type ClientConf struct {
	// Name is the display name of the client.
	// Env: HP_CLIENT_NAME
	Name string `toml:"name" env:"NAME"`

	// Address is an explicit "host:port" server address. When set it takes
	// precedence over Client.IP and Client.Port.
	// Env: HP_CLIENT_ADDRESS
	Address string `toml:"address" env:"ADDRESS"`

	// Player is the name to join as. Defaults to the first [[client.players]].
	// Env: HP_CLIENT_PLAYER
	Player string `toml:"player" env:"PLAYER"`

	// Backend selects the main loop: "terminal" or "headless".
	// Env: HP_CLIENT_BACKEND
	Backend string `toml:"backend" env:"BACKEND"`

	// LogFile is where the client writes its log.
	// Env: HP_CLIENT_LOG_FILE
	LogFile string `toml:"log_file" env:"LOG_FILE"`

	// Client holds the [client] table: ip, port and players.
	Client ClientSection `toml:"client"`

	// Retry controls the connect retry loop.
	Retry Retry `toml:"retry" envPrefix:"RETRY_"`

	// Heartbeat controls session keep-alive pings.
	Heartbeat Heartbeat `toml:"heartbeat" envPrefix:"HEARTBEAT_"`

	// RequestTimeout bounds HTTP requests to the server API.
	// Env: HP_CLIENT_REQUEST_TIMEOUT
	RequestTimeout Duration `toml:"request_timeout" env:"REQUEST_TIMEOUT"`

	path   string
	values Values
}

// ClientSection is the [client] table.
type ClientSection struct {
	// Env: HP_CLIENT_IP
	IP string `toml:"ip" env:"IP"`

	// Env: HP_CLIENT_PORT
	Port int `toml:"port" env:"PORT"`

	Players []PlayerConf `toml:"players"`
}

// PlayerConf is one [[client.players]] entry.
type PlayerConf struct {
	Name string `toml:"name"`
}

// Retry controls how the client retries failed connection attempts.
type Retry struct {
	// Env: HP_CLIENT_RETRY_INTERVAL
	Interval Duration `toml:"interval" env:"INTERVAL"`

	// Env: HP_CLIENT_RETRY_MAX_INTERVAL
	MaxInterval Duration `toml:"max_interval" env:"MAX_INTERVAL"`

	// MaxAttempts stops retrying after that many failures; 0 retries forever.
	// Env: HP_CLIENT_RETRY_MAX_ATTEMPTS
	MaxAttempts int `toml:"max_attempts" env:"MAX_ATTEMPTS"`
}

// Heartbeat controls session keep-alive pings.
type Heartbeat struct {
	// Env: HP_CLIENT_HEARTBEAT_INTERVAL
	Interval Duration `toml:"interval" env:"INTERVAL"`
}

// ServerAddress returns the address to connect to: Address when set,
// otherwise Client.IP:Client.Port.
func (c ClientConf) ServerAddress() string {
	if c.Address != "" {
		return c.Address
	}
	return net.JoinHostPort(c.Client.IP, strconv.Itoa(c.Client.Port))
}

// PlayerName returns the name the client joins as.
func (c ClientConf) PlayerName() string {
	if c.Player != "" {
		return c.Player
	}
	if len(c.Client.Players) > 0 {
		return c.Client.Players[0].Name
	}
	return DefaultPlayerName
}

// Path returns the file the configuration was loaded from.
func (c ClientConf) Path() string {
	return c.path
}

// Values returns a copy of the raw document as it appeared in the file.
func (c ClientConf) Values() Values {
	return c.values.clone()
}

func (c *ClientConf) setSource(path string, values Values) {
	c.path = path
	c.values = values
}

func defaultClientConf() *ClientConf {
	return &ClientConf{
		Name:    DefaultClientName,
		Backend: BackendTerminal,
		Client:  ClientSection{IP: DefaultIP, Port: DefaultPort},
		Retry: Retry{
			Interval:    Duration(DefaultRetryInterval),
			MaxInterval: Duration(DefaultRetryMaxInterval),
		},
		Heartbeat:      Heartbeat{Interval: Duration(DefaultHeartbeat)},
		RequestTimeout: Duration(DefaultRequestTimeout),
	}
}

// LoadServerConf reads a server configuration file, applies defaults and
// HP_SERVER_* environment overrides, and validates the result.
//
// Errors are always *ConfigError; use errors.Is with ErrConfigNotFound,
// ErrConfigParse or ErrConfigInvalid to branch on the kind.
func LoadServerConf(path string) (*ServerConf, error) {
	return newConfigBuilder[ServerConf](path).
		withDefaults(defaultServerConf()).
		withFile().
		withEnv(serverEnvPrefix).
		build()
}

// LoadClientConf reads a client configuration file, applies defaults and
// HP_CLIENT_* environment overrides, and validates the result.
func LoadClientConf(path string) (*ClientConf, error) {
	return newConfigBuilder[ClientConf](path).
		withDefaults(defaultClientConf()).
		withFile().
		withEnv(clientEnvPrefix).
		build()
}

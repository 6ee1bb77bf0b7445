package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempTOML(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

const serverTOML = `
name = "Crater Outpost"

[server]
ip = "127.0.0.1"
port = 8080

[[server.maps]]
name = "crater"
script = "maps/crater.lua"

[[server.maps]]
name = "dunes"
script = "maps/dunes.lua"

[storage]
dsn = "roster.db"

[session]
token_sign_key = "secret"
token_duration = "1h"
`

const clientTOML = `
[client]
ip = "127.0.0.1"
port = 8080

[[client.players]]
name = "Henry"

[[client.players]]
name = "Ada"

[retry]
interval = "2s"
max_attempts = 3
`

// ── LoadServerConf ────────────────────────────────────────────────────────────

func TestLoadServerConf_Success(t *testing.T) {
	p := writeTempTOML(t, "serverconf.toml", serverTOML)

	cfg, err := LoadServerConf(p)
	require.NoError(t, err)

	assert.Equal(t, "Crater Outpost", cfg.Name)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddress())
	assert.Equal(t, []MapConf{
		{Name: "crater", Script: "maps/crater.lua"},
		{Name: "dunes", Script: "maps/dunes.lua"},
	}, cfg.Maps())
	assert.Equal(t, "roster.db", cfg.Storage.DSN)
	assert.Equal(t, "secret", cfg.Session.TokenSignKey)
	assert.Equal(t, time.Hour, cfg.Session.TokenDuration.Std())
	assert.Equal(t, p, cfg.Path())

	// defaults survive for keys absent from the file
	assert.Equal(t, DefaultHeartbeatTimeout, cfg.Session.HeartbeatTimeout.Std())
	assert.Equal(t, DefaultReapInterval, cfg.Workers.ReapInterval.Std())
}

func TestLoadServerConf_ValuesContainFileKeys(t *testing.T) {
	p := writeTempTOML(t, "serverconf.toml", serverTOML)

	cfg, err := LoadServerConf(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "server", "session", "storage"}, cfg.Values().Keys())

	port, ok := cfg.Values().Lookup("server.port")
	require.True(t, ok)
	assert.EqualValues(t, 8080, port)
}

func TestLoadServerConf_AddressScenario(t *testing.T) {
	p := writeTempTOML(t, "serverconf.toml", `address = "127.0.0.1:9000"`)

	cfg, err := LoadServerConf(p)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Values()["address"])
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddress())
}

func TestLoadServerConf_DefaultName(t *testing.T) {
	p := writeTempTOML(t, "serverconf.toml", "[server]\nport = 7000\n")

	cfg, err := LoadServerConf(p)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerName, cfg.Name)
	assert.Equal(t, "127.0.0.1:7000", cfg.ListenAddress())
}

func TestLoadServerConf_ValuesAreCopies(t *testing.T) {
	p := writeTempTOML(t, "serverconf.toml", serverTOML)

	cfg, err := LoadServerConf(p)
	require.NoError(t, err)

	v := cfg.Values()
	v["name"] = "mutated"
	v["server"].(map[string]any)["port"] = 1

	assert.Equal(t, "Crater Outpost", cfg.Values()["name"])
	port, _ := cfg.Values().Lookup("server.port")
	assert.EqualValues(t, 8080, port)
}

func TestLoadServerConf_NotFound(t *testing.T) {
	cfg, err := LoadServerConf(filepath.Join(t.TempDir(), "missing.toml"))

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, KindNotFound, cfgErr.Kind)
}

func TestLoadServerConf_ParseError(t *testing.T) {
	p := writeTempTOML(t, "serverconf.toml", "[server\nport = ")

	_, err := LoadServerConf(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigParse)
	assert.NotErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadServerConf_WrongType(t *testing.T) {
	p := writeTempTOML(t, "serverconf.toml", "[server]\nport = \"eighty\"\n")

	_, err := LoadServerConf(p)
	assert.ErrorIs(t, err, ErrConfigParse)
}

func TestLoadServerConf_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "port out of range", body: "[server]\nport = 70000\n"},
		{name: "address without port", body: `address = "127.0.0.1"`},
		{name: "map without name", body: "[[server.maps]]\nscript = \"x.lua\"\n"},
		{name: "duplicate map", body: "[[server.maps]]\nname = \"a\"\n[[server.maps]]\nname = \"a\"\n"},
		{name: "bad grpc address", body: "[grpc]\naddress = \"nowhere\"\n"},
		{name: "explicit zero port", body: "[server]\nport = 0\n"},
		{name: "zero heartbeat timeout", body: "[session]\nheartbeat_timeout = \"0s\"\n"},
		{name: "zero flush interval", body: "[workers]\nflush_interval = \"0s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeTempTOML(t, "serverconf.toml", tt.body)

			_, err := LoadServerConf(p)
			assert.ErrorIs(t, err, ErrConfigInvalid)
		})
	}
}

func TestLoadServerConf_ZeroValueIsNotReplacedByDefault(t *testing.T) {
	p := writeTempTOML(t, "serverconf.toml", "[server]\nport = 0\n")

	cfg, err := LoadServerConf(p)
	assert.Nil(t, cfg)
	require.ErrorIs(t, err, ErrConfigInvalid)
	assert.ErrorIs(t, err, errInvalidPort)
	assert.Contains(t, err.Error(), ": 0")
}

func TestLoadClientConf_ZeroRequestTimeout(t *testing.T) {
	p := writeTempTOML(t, "clientconf.toml", "request_timeout = \"0s\"\n"+clientTOML)

	_, err := LoadClientConf(p)
	assert.ErrorIs(t, err, ErrConfigInvalid)
	assert.ErrorIs(t, err, errInvalidDuration)
}

func TestLoadServerConf_EnvOverrides(t *testing.T) {
	p := writeTempTOML(t, "serverconf.toml", serverTOML)
	t.Setenv("HP_SERVER_ADDRESS", "0.0.0.0:7777")
	t.Setenv("HP_SERVER_STORAGE_DSN", ":memory:")
	t.Setenv("HP_SERVER_SESSION_TOKEN_DURATION", "30m")

	cfg, err := LoadServerConf(p)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:7777", cfg.ListenAddress())
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, 30*time.Minute, cfg.Session.TokenDuration.Std())
	// file value untouched by env
	assert.Equal(t, "secret", cfg.Session.TokenSignKey)
	// env overrides do not leak into the raw file view
	_, ok := cfg.Values()["address"]
	assert.False(t, ok)
}

func TestLoadServerConf_BadEnvValue(t *testing.T) {
	p := writeTempTOML(t, "serverconf.toml", serverTOML)
	t.Setenv("HP_SERVER_PORT", "not-a-number")

	_, err := LoadServerConf(p)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

// ── LoadClientConf ────────────────────────────────────────────────────────────

func TestLoadClientConf_Success(t *testing.T) {
	p := writeTempTOML(t, "clientconf.toml", clientTOML)

	cfg, err := LoadClientConf(p)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ServerAddress())
	assert.Equal(t, "Henry", cfg.PlayerName())
	assert.Equal(t, 2*time.Second, cfg.Retry.Interval.Std())
	assert.Equal(t, DefaultRetryMaxInterval, cfg.Retry.MaxInterval.Std())
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, BackendTerminal, cfg.Backend)
	assert.Equal(t, []string{"client", "retry"}, cfg.Values().Keys())
}

func TestLoadClientConf_PlayerFallbacks(t *testing.T) {
	p := writeTempTOML(t, "clientconf.toml", "[client]\nport = 8080\n")

	cfg, err := LoadClientConf(p)
	require.NoError(t, err)
	assert.Equal(t, DefaultPlayerName, cfg.PlayerName())

	t.Setenv("HP_CLIENT_PLAYER", "Zed")
	cfg, err = LoadClientConf(p)
	require.NoError(t, err)
	assert.Equal(t, "Zed", cfg.PlayerName())
}

func TestLoadClientConf_InvalidBackend(t *testing.T) {
	p := writeTempTOML(t, "clientconf.toml", `backend = "vulkan"`)

	_, err := LoadClientConf(p)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestLoadClientConf_NegativeAttempts(t *testing.T) {
	p := writeTempTOML(t, "clientconf.toml", "[retry]\nmax_attempts = -1\n")

	_, err := LoadClientConf(p)
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestLoadClientConf_NotFound(t *testing.T) {
	_, err := LoadClientConf("definitely-does-not-exist.toml")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

// ── ConfigError ───────────────────────────────────────────────────────────────

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Kind: KindParse, Path: "x.toml", Err: assert.AnError}

	assert.Contains(t, err.Error(), "x.toml")
	assert.Contains(t, err.Error(), "parse")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, ErrConfigInvalid)
}

package config

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by [ConfigError.Is]. Use errors.Is to branch on the
// kind of a load failure.
var (
	// ErrConfigNotFound indicates that the configuration file could not be
	// opened (missing file or insufficient permissions).
	ErrConfigNotFound = errors.New("config file not found")
	// ErrConfigParse indicates that the file is not valid TOML or a value has
	// the wrong type.
	ErrConfigParse = errors.New("config parse error")
	// ErrConfigInvalid indicates that the merged configuration failed
	// validation or an environment override could not be parsed.
	ErrConfigInvalid = errors.New("invalid config")
)

// Validation errors wrapped inside a KindInvalid [ConfigError].
var (
	errInvalidAddress  = errors.New("invalid address")
	errInvalidPort     = errors.New("port must be within 1..65535")
	errInvalidMap      = errors.New("invalid map entry")
	errInvalidPlayer   = errors.New("invalid player entry")
	errInvalidDuration = errors.New("duration must be positive")
	errInvalidBackend  = errors.New("unknown backend")
	errInvalidRetry    = errors.New("invalid retry settings")
)

// ErrorKind classifies a [ConfigError].
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindParse
	KindInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindParse:
		return "parse"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ConfigError is returned by [LoadServerConf] and [LoadClientConf].
type ConfigError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error of e's kind.
func (e *ConfigError) Is(target error) bool {
	switch target {
	case ErrConfigNotFound:
		return e.Kind == KindNotFound
	case ErrConfigParse:
		return e.Kind == KindParse
	case ErrConfigInvalid:
		return e.Kind == KindInvalid
	}
	return false
}

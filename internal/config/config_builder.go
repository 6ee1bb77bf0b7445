package config

import (
	"dario.cat/mergo"
)

// sourced is implemented by configuration types that remember the file they
// were loaded from and its raw keys.
type sourced interface {
	setSource(path string, values Values)
	validate() error
}

// configBuilder layers defaults, file and environment values of one
// configuration type. The file is decoded on top of the layers before it, so
// a key it sets explicitly wins even when the value is zero. Layers added
// after the file override only their non-zero fields.
type configBuilder[T any] struct {
	path    string
	configs []*T
	values  Values
	err     error
}

func newConfigBuilder[T any](path string) *configBuilder[T] {
	return &configBuilder[T]{
		path:    path,
		configs: make([]*T, 0, 3),
	}
}

func (b *configBuilder[T]) build() (*T, error) {
	if b.err != nil {
		return nil, b.err
	}

	config, err := b.merged()
	if err != nil {
		return nil, err
	}

	if s, ok := any(config).(sourced); ok {
		s.setSource(b.path, b.values)
		if err := s.validate(); err != nil {
			return nil, &ConfigError{Kind: KindInvalid, Path: b.path, Err: err}
		}
	}

	return config, nil
}

func (b *configBuilder[T]) withDefaults(def *T) *configBuilder[T] {
	b.configs = append(b.configs, def)
	return b
}

func (b *configBuilder[T]) withFile() *configBuilder[T] {
	if b.err != nil {
		return b
	}

	fileCfg, err := b.merged()
	if err != nil {
		b.err = err
		return b
	}

	values, err := parseTOML(b.path, fileCfg)
	if err != nil {
		b.err = err
		return b
	}

	b.values = values
	b.configs = []*T{fileCfg}
	return b
}

// merged folds the layers collected so far into a fresh value.
func (b *configBuilder[T]) merged() (*T, error) {
	config := new(T)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, &ConfigError{Kind: KindInvalid, Path: b.path, Err: err}
		}
	}
	return config, nil
}

func (b *configBuilder[T]) withEnv(prefix string) *configBuilder[T] {
	if b.err != nil {
		return b
	}

	envCfg := new(T)
	if err := parseEnv(envCfg, prefix); err != nil {
		b.err = &ConfigError{Kind: KindInvalid, Path: b.path, Err: err}
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

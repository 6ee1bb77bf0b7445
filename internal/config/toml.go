package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// parseTOML reads the file at path, decodes it into dst and also returns the
// raw document as Values.
func parseTOML(path string, dst any) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Kind: KindNotFound, Path: path, Err: err}
		}
		return nil, &ConfigError{Kind: KindNotFound, Path: path, Err: fmt.Errorf("error reading a toml file: %w", err)}
	}

	var raw map[string]any
	if err = toml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Kind: KindParse, Path: path, Err: describeDecodeError(err)}
	}

	if err = toml.NewDecoder(bytes.NewReader(data)).Decode(dst); err != nil {
		return nil, &ConfigError{Kind: KindParse, Path: path, Err: describeDecodeError(err)}
	}

	return Values(raw), nil
}

// describeDecodeError adds the row and column to go-toml syntax errors.
func describeDecodeError(err error) error {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Errorf("line %d column %d: %w", row, col, err)
	}
	return err
}

// String renders the values as a TOML document.
func (v Values) String() string {
	b, err := toml.Marshal(map[string]any(v))
	if err != nil {
		return fmt.Sprint(map[string]any(v))
	}
	return strings.TrimRight(string(b), "\n")
}

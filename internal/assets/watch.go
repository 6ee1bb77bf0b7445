package assets

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the model at path whenever the file is written or
// replaced and passes the result to onChange. Documents that fail to parse
// are logged and skipped. Watch blocks until ctx is done.
//
// The parent directory is watched so that editors which save by renaming a
// temporary file are still seen.
func Watch(ctx context.Context, path string, log *logger.Logger, onChange func(*Model)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err = watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	log.Debug().Str("path", abs).Msg("watching model")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			model, err := Load(abs)
			if err != nil {
				log.Warn().Err(err).Str("path", abs).Msg("model reload failed")
				continue
			}
			log.Info().Str("model", model.Name).Int("vertices", model.Vertices).Msg("model reloaded")
			onChange(model)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("file watcher error")
		}
	}
}

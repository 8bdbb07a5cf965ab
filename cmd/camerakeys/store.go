package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/camerakeys/internal/config"
	"github.com/dshills/camerakeys/internal/config/loader"
	"github.com/dshills/camerakeys/internal/config/profile"
	"github.com/dshills/camerakeys/internal/config/watcher"
	"github.com/dshills/camerakeys/internal/logging"
)

// settingsStore is a loaded settings store plus whatever keeps its backend
// open.
type settingsStore struct {
	*config.Store
	db      *profile.DB
	watcher *watcher.Watcher
}

// openStore loads the settings from the profile database when one is
// configured, otherwise from the settings file.
func openStore(ctx context.Context, opts *options, logger *logging.Logger) (*settingsStore, error) {
	var (
		backend config.Backend
		s       settingsStore
	)
	if opts.ProfileDB != "" {
		db, err := profile.Open(ctx, opts.ProfileDB)
		if err != nil {
			return nil, err
		}
		s.db = db
		backend = db.Profile(opts.Profile)
	} else {
		backend = loader.NewTOMLLoader(opts.ConfigPath)
	}

	s.Store = config.NewStore(
		config.WithBackend(backend),
		config.WithAutoSave(true),
		config.WithStoreLogger(logger),
	)
	if err := s.Load(); err != nil {
		s.Close()
		return nil, err
	}
	return &s, nil
}

// watch reloads the settings file whenever it changes on disk.
func (s *settingsStore) watch(path string, logger *logging.Logger) error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	w, err := watcher.New(watcher.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("watch settings: %w", err)
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch settings: %w", err)
	}
	w.OnChange(func(ev watcher.Event) {
		logger.Info("settings file %s: %s", ev.Op, ev.Path)
		if err := s.Load(); err != nil {
			logger.Error("reload settings: %v", err)
		}
	})
	s.watcher = w
	return nil
}

func (s *settingsStore) Close() {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

package config

import (
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rileyhilliard/healthboard/internal/errors"
	"github.com/rileyhilliard/healthboard/internal/logger"
	"github.com/spf13/viper"
)

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	v      *viper.Viper
	path   string
	log    logger.Logger
	closed atomic.Bool
}

// Watch starts watching path. onChange receives every version of the file
// that parses and validates; invalid edits are logged and skipped so the
// previous settings stay in effect.
func Watch(path string, log logger.Logger, onChange func(*Config)) (*Watcher, error) {
	if log == nil {
		log = logger.Noop()
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file for watching",
			"Check the file exists and is valid YAML")
	}

	w := &Watcher{v: v, path: path, log: log}
	v.OnConfigChange(func(e fsnotify.Event) {
		w.handle(e, onChange)
	})
	v.WatchConfig()
	return w, nil
}

func (w *Watcher) handle(e fsnotify.Event, onChange func(*Config)) {
	if w.closed.Load() {
		return
	}
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}

	cfg, err := parseConfig(w.v, w.path)
	if err == nil {
		err = Validate(cfg)
	}
	if err != nil {
		w.log.Warn("ignoring config change in %s: %v", e.Name, err)
		return
	}

	w.log.Info("reloaded config from %s", e.Name)
	onChange(cfg)
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops delivering changes. viper offers no way to stop its
// underlying fsnotify watcher, so events after Close are dropped.
func (w *Watcher) Close() {
	w.closed.Store(true)
}

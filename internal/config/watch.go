package config

import (
	"github.com/dshills/keymask/internal/config/watcher"
)

// ReloadFunc receives the result of reloading a definition file. On error
// cfg is nil and the previous configuration should be kept.
type ReloadFunc func(cfg *Config, err error)

// Watch reloads the file at path, environment overrides included, each
// time it is written or replaced. The returned watcher is already running;
// stop it with Stop.
func Watch(path string, fn ReloadFunc, opts ...watcher.Option) (*watcher.Watcher, error) {
	w := watcher.New(opts...)
	w.OnChange(func(watcher.Event) {
		cfg, err := Load(path)
		if err == nil {
			err = cfg.ApplyEnv()
		}
		if err != nil {
			fn(nil, err)
			return
		}
		fn(cfg, nil)
	})

	if err := w.Watch(path); err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

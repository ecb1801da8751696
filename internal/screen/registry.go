package screen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"swinglab/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// fileConfig maps the thresholds file.
type fileConfig struct {
	Screen Thresholds `mapstructure:"screen" yaml:"screen"`
}

// RegistrySnapshot is the public thresholds snapshot.
type RegistrySnapshot struct {
	Version    int64
	LoadedAt   time.Time
	Thresholds Thresholds
}

// ChangeListener fires after the registry reloads.
type ChangeListener func(RegistrySnapshot)

// Registry holds the gate thresholds and hot-reloads them when the
// backing file changes. A registry without a path serves defaults.
type Registry struct {
	path string
	v    *viper.Viper

	mu        sync.RWMutex
	snapshot  RegistrySnapshot
	listeners []ChangeListener
}

// NewRegistry reads the thresholds file and watches it for updates.
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{path: strings.TrimSpace(path)}
	if r.path == "" {
		r.snapshot = RegistrySnapshot{Version: 1, LoadedAt: time.Now(), Thresholds: DefaultThresholds()}
		return r, nil
	}
	v := viper.New()
	v.SetConfigFile(r.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read screen thresholds failed: %w", err)
	}
	r.v = v
	if err := r.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.reload(); err != nil {
			logger.Errorf("screen thresholds reload failed: %v", err)
			return
		}
		r.notifyListeners()
	})
	v.WatchConfig()
	return r, nil
}

// Snapshot returns the current thresholds.
func (r *Registry) Snapshot() RegistrySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Thresholds returns the current criteria set.
func (r *Registry) Thresholds() Thresholds {
	return r.Snapshot().Thresholds
}

// OnChange registers a reload listener.
func (r *Registry) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Registry) reload() error {
	th, err := readThresholdsFile(r.path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.snapshot = RegistrySnapshot{
		Version:    r.snapshot.Version + 1,
		LoadedAt:   time.Now(),
		Thresholds: th.normalize(),
	}
	r.mu.Unlock()
	logger.Infof("screen thresholds loaded from %s", filepath.Base(r.path))
	return nil
}

func (r *Registry) notifyListeners() {
	r.mu.RLock()
	snap := r.snapshot
	listeners := append([]ChangeListener(nil), r.listeners...)
	r.mu.RUnlock()
	for _, fn := range listeners {
		go func(cb ChangeListener) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Errorf("screen threshold listener panic: %v", rec)
				}
			}()
			cb(snap)
		}(fn)
	}
}

func readThresholdsFile(path string) (Thresholds, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("read screen thresholds failed: %w", err)
	}
	var cfg fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Thresholds{}, fmt.Errorf("parse screen thresholds failed: %w", err)
	}
	return cfg.Screen, nil
}

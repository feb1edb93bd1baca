package main

import (
	"context"
	"sync/atomic"

	"github.com/kbukum/voxpersona/component"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/settings"
)

// settingsWatcher follows external edits of the settings file.
type settingsWatcher struct {
	store *settings.Store
	log   *logger.Logger
	ok    atomic.Bool
}

func newSettingsWatcher(st *settings.Store, log *logger.Logger) *settingsWatcher {
	return &settingsWatcher{store: st, log: log.WithComponent("settings")}
}

func (w *settingsWatcher) Name() string { return "settings" }

func (w *settingsWatcher) Start(context.Context) error {
	err := w.store.Watch(func(s settings.Settings) {
		w.log.Info("Settings reloaded", logger.Fields("model", s.Model, "api_base", s.APIBase))
	})
	if err != nil {
		return err
	}
	w.ok.Store(true)
	return nil
}

func (w *settingsWatcher) Stop(context.Context) error {
	w.ok.Store(false)
	return nil
}

func (w *settingsWatcher) Health(context.Context) component.Health {
	h := component.Health{Name: w.Name(), Status: component.StatusHealthy}
	if !w.ok.Load() {
		h.Status, h.Message = component.StatusDegraded, "not watching "+w.store.Path()
	}
	return h
}

func (w *settingsWatcher) Describe() component.Description {
	return component.Description{Name: "Settings", Type: "file", Details: w.store.Path()}
}

// backendCheck reports an external service in the health endpoint. An
// unreachable backend degrades the service without failing it: the API
// still serves stored data.
type backendCheck struct {
	name      string
	available func(ctx context.Context) bool
}

func newBackendCheck(name string, available func(ctx context.Context) bool) *backendCheck {
	return &backendCheck{name: name, available: available}
}

func (b *backendCheck) Name() string                { return b.name }
func (b *backendCheck) Start(context.Context) error { return nil }
func (b *backendCheck) Stop(context.Context) error  { return nil }

func (b *backendCheck) Health(ctx context.Context) component.Health {
	if b.available(ctx) {
		return component.Health{Name: b.name, Status: component.StatusHealthy}
	}
	return component.Health{Name: b.name, Status: component.StatusDegraded, Message: "unreachable"}
}

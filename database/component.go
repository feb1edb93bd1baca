package database

import (
	"context"
	"fmt"

	"github.com/kbukum/voxpersona/component"
	"github.com/kbukum/voxpersona/logger"
)

// MigrateFunc brings the schema up to date after the connection opens.
type MigrateFunc func(ctx context.Context, db *DB) error

// Component wraps DB and implements component.Component.
type Component struct {
	db      *DB
	cfg     Config
	log     *logger.Logger
	migrate MigrateFunc
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a database component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Component{cfg: cfg, log: log}
}

// WithMigrations runs fn on Start, after connecting.
func (c *Component) WithMigrations(fn MigrateFunc) *Component {
	c.migrate = fn
	return c
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB { return c.db }

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start connects and applies migrations.
func (c *Component) Start(ctx context.Context) error {
	db, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	if c.migrate != nil {
		if err := c.migrate(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("database migrate: %w", err)
		}
	}
	c.db = db
	return nil
}

// Stop closes the connection pool.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health pings the database.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.db == nil:
		h.Status, h.Message = component.StatusUnhealthy, "database not initialized"
	default:
		if err := c.db.PingContext(ctx); err != nil {
			h.Status, h.Message = component.StatusUnhealthy, fmt.Sprintf("ping failed: %v", err)
		}
	}
	return h
}

// Describe reports the driver and pool size.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("pool=%d/%d", c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.Driver == DriverSQLite {
		details = c.cfg.DSN + " " + details
	}
	return component.Description{Name: "Database", Type: c.cfg.Driver, Details: details}
}

// Package database wraps GORM with connection retry, pooling, transaction
// helpers and a component lifecycle.
//
// Two drivers are supported: "sqlite" (the default, a single local file) and
// "postgres". SQLite connections always run with foreign keys enabled.
//
//	db, err := database.New(ctx, database.Config{Driver: "sqlite", DSN: "data/voxpersona.db"}, log)
//	err = db.WithTransaction(ctx, func(tx *gorm.DB) error { ... })
//
// Schema changes are versioned SQL files applied by the migration
// sub-package.
package database

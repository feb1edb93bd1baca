package store

import (
	"context"
	"embed"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/kbukum/voxpersona/database"
	"github.com/kbukum/voxpersona/database/migration"
	"github.com/kbukum/voxpersona/logger"
)

//go:embed migrations
var migrationsFS embed.FS

// OriginalLanguage marks an untranslated transcription.
const OriginalLanguage = "Original"

// Store is the persistence layer. It is safe for concurrent use.
type Store struct {
	db  *database.DB
	log *logger.Logger

	// beforeClientDelete runs inside the delete transaction after the
	// client's children are removed.
	beforeClientDelete func(tx *gorm.DB, clientID uint) error
}

// New creates a Store on an open database.
func New(db *database.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log.WithComponent("store")}
}

// Migrate applies the embedded migrations for db's driver.
func Migrate(ctx context.Context, db *database.DB) error {
	driverFunc, err := migration.DriverFor(db.Driver())
	if err != nil {
		return err
	}
	return migration.Up(db.WithContext(ctx), migrationsFS, "migrations/"+db.Driver(), driverFunc)
}

// SchemaVersion reports the applied migration version.
func SchemaVersion(ctx context.Context, db *database.DB) (uint, error) {
	driverFunc, err := migration.DriverFor(db.Driver())
	if err != nil {
		return 0, err
	}
	v, dirty, err := migration.Version(db.WithContext(ctx), migrationsFS, "migrations/"+db.Driver(), driverFunc)
	if err != nil {
		return 0, err
	}
	if dirty {
		return v, fmt.Errorf("schema version %d is dirty", v)
	}
	return v, nil
}

func (s *Store) session(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

package store

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/voxpersona/database"
	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/validation"
)

type clientInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=320"`
}

func normalizeClient(name, email string) (clientInput, error) {
	in := clientInput{Name: strings.TrimSpace(name), Email: strings.ToLower(strings.TrimSpace(email))}
	return in, validation.Struct(in)
}

// AddClient inserts a client. When the email is already registered the
// existing client's name is updated instead and that client is returned.
func (s *Store) AddClient(ctx context.Context, name, email string) (*Client, error) {
	in, err := normalizeClient(name, email)
	if err != nil {
		return nil, err
	}
	var c Client
	err = s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		row := Client{Name: in.Name, Email: in.Email}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("email = ?", in.Email).First(&c).Error
	})
	if err != nil {
		return nil, database.FromDatabase(err, "client", "")
	}
	s.log.WithContext(ctx).Info("Client saved", logger.Fields(logger.FieldClientID, c.ID))
	return &c, nil
}

// GetClient returns a client by ID.
func (s *Store) GetClient(ctx context.Context, id uint) (*Client, error) {
	var c Client
	if err := s.session(ctx).First(&c, id).Error; err != nil {
		return nil, database.FromDatabase(err, "client", idString(id))
	}
	return &c, nil
}

// FindClientByEmail returns the client registered with email.
func (s *Store) FindClientByEmail(ctx context.Context, email string) (*Client, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var c Client
	if err := s.session(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, database.FromDatabase(err, "client", email)
	}
	return &c, nil
}

// ListClients returns all clients ordered by name.
func (s *Store) ListClients(ctx context.Context) ([]Client, error) {
	var cs []Client
	if err := s.session(ctx).Order("name").Order("id").Find(&cs).Error; err != nil {
		return nil, database.FromDatabase(err, "client", "")
	}
	return cs, nil
}

// UpdateClient changes a client's name and email.
func (s *Store) UpdateClient(ctx context.Context, id uint, name, email string) (*Client, error) {
	in, err := normalizeClient(name, email)
	if err != nil {
		return nil, err
	}
	var c Client
	err = s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		c.Name, c.Email = in.Name, in.Email
		return tx.Model(&c).Updates(map[string]any{"name": in.Name, "email": in.Email}).Error
	})
	if err != nil {
		return nil, database.FromDatabase(err, "client", idString(id))
	}
	return &c, nil
}

// DeleteClient removes a client with all its transcriptions and personas.
// Either everything is removed or nothing is.
func (s *Store) DeleteClient(ctx context.Context, id uint) error {
	var removed int64
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var c Client
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		owned := tx.Model(&Transcription{}).Select("id").Where("client_id = ?", id)
		if err := tx.Where("transcription_id IN (?)", owned).Delete(&Persona{}).Error; err != nil {
			return err
		}
		res := tx.Where("client_id = ?", id).Delete(&Transcription{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		if s.beforeClientDelete != nil {
			if err := s.beforeClientDelete(tx, id); err != nil {
				return err
			}
		}
		return tx.Delete(&c).Error
	})
	if err != nil {
		return database.FromDatabase(err, "client", idString(id))
	}
	s.log.WithContext(ctx).Info("Client deleted", logger.Fields(logger.FieldClientID, id, "transcriptions", removed))
	return nil
}

// requireClient fails with NOT_FOUND inside tx when the client is gone.
func requireClient(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&Client{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound("client", idString(id))
	}
	return nil
}

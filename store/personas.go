package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/voxpersona/database"
	"github.com/kbukum/voxpersona/errors"
)

func validatePersona(name, prompt string) error {
	if strings.TrimSpace(name) == "" {
		return errors.InvalidInput("name", "is required")
	}
	if strings.TrimSpace(prompt) == "" {
		return errors.InvalidInput("system_prompt", "is required")
	}
	return nil
}

func requireTranscription(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&Transcription{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound("transcription", idString(id))
	}
	return nil
}

// AddPersona stores the persona of a transcription. A transcription that
// already has one yields CONFLICT; use UpdatePersona to replace it.
func (s *Store) AddPersona(ctx context.Context, transcriptionID uint, name, prompt string) (*Persona, error) {
	if err := validatePersona(name, prompt); err != nil {
		return nil, err
	}
	p := Persona{TranscriptionID: transcriptionID, Name: name, SystemPrompt: prompt}
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := requireTranscription(tx, transcriptionID); err != nil {
			return err
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return nil, database.FromDatabase(err, "persona", "")
	}
	return &p, nil
}

// GetPersona returns the persona of a transcription.
func (s *Store) GetPersona(ctx context.Context, transcriptionID uint) (*Persona, error) {
	var p Persona
	if err := s.session(ctx).Where("transcription_id = ?", transcriptionID).First(&p).Error; err != nil {
		return nil, database.FromDatabase(err, "persona", idString(transcriptionID))
	}
	return &p, nil
}

// UpdatePersona replaces the persona of a transcription, creating it when
// absent.
func (s *Store) UpdatePersona(ctx context.Context, transcriptionID uint, name, prompt string) (*Persona, error) {
	if err := validatePersona(name, prompt); err != nil {
		return nil, err
	}
	var p Persona
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := requireTranscription(tx, transcriptionID); err != nil {
			return err
		}
		row := Persona{TranscriptionID: transcriptionID, Name: name, SystemPrompt: prompt}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "transcription_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":          name,
				"system_prompt": prompt,
				"updated_at":    time.Now(),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("transcription_id = ?", transcriptionID).First(&p).Error
	})
	if err != nil {
		return nil, database.FromDatabase(err, "persona", "")
	}
	return &p, nil
}

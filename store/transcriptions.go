package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/kbukum/voxpersona/database"
	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/logger"
)

// AddTranscription inserts t for an existing client and sets t.ID. An empty
// or "Original" target language is stored as NULL.
func (s *Store) AddTranscription(ctx context.Context, t *Transcription) error {
	if strings.TrimSpace(t.Filename) == "" {
		return errors.InvalidInput("filename", "is required")
	}
	t.TargetLanguage = languageColumn(t.TargetLanguage)
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := requireClient(tx, t.ClientID); err != nil {
			return err
		}
		return tx.Create(t).Error
	})
	if err != nil {
		if database.IsForeignKeyError(err) {
			return errors.NotFound("client", idString(t.ClientID))
		}
		return database.FromDatabase(err, "transcription", "")
	}
	s.log.WithContext(ctx).Info("Transcription saved", logger.Fields(
		logger.FieldClientID, t.ClientID,
		logger.FieldTranscriptionID, t.ID,
	))
	return nil
}

// GetTranscription returns a transcription by ID.
func (s *Store) GetTranscription(ctx context.Context, id uint) (*Transcription, error) {
	var t Transcription
	if err := s.session(ctx).First(&t, id).Error; err != nil {
		return nil, database.FromDatabase(err, "transcription", idString(id))
	}
	return &t, nil
}

// ListTranscriptions returns a client's transcriptions, newest first.
func (s *Store) ListTranscriptions(ctx context.Context, clientID uint) ([]Transcription, error) {
	var ts []Transcription
	err := s.session(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").Order("id DESC").
		Find(&ts).Error
	if err != nil {
		return nil, database.FromDatabase(err, "transcription", "")
	}
	return ts, nil
}

// ListTranscriptionsByEmail returns the transcriptions of the client with
// email, newest first.
func (s *Store) ListTranscriptionsByEmail(ctx context.Context, email string) ([]Transcription, error) {
	var ts []Transcription
	err := s.session(ctx).
		Joins("JOIN clients ON clients.id = transcriptions.client_id").
		Where("clients.email = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("transcriptions.created_at DESC").Order("transcriptions.id DESC").
		Find(&ts).Error
	if err != nil {
		return nil, database.FromDatabase(err, "transcription", "")
	}
	return ts, nil
}

// DeleteTranscription removes a transcription and its persona.
func (s *Store) DeleteTranscription(ctx context.Context, id uint) error {
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("transcription_id = ?", id).Delete(&Persona{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Transcription{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return database.FromDatabase(err, "transcription", idString(id))
	}
	return nil
}

// UpdateTranscriptionLanguage records the target language of a
// transcription. "Original" or "" clears it.
func (s *Store) UpdateTranscriptionLanguage(ctx context.Context, id uint, language string) error {
	res := s.session(ctx).Model(&Transcription{}).Where("id = ?", id).
		Update("target_language", languageColumn(&language))
	if res.Error != nil {
		return database.FromDatabase(res.Error, "transcription", idString(id))
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("transcription", idString(id))
	}
	return nil
}

// SetTranslation replaces the translated text and target language together.
// "Original" or "" clears both.
func (s *Store) SetTranslation(ctx context.Context, id uint, language, text string) (*Transcription, error) {
	lang := languageColumn(&language)
	var translated *string
	if lang != nil {
		translated = &text
	}
	var t Transcription
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		t.TargetLanguage, t.TranslatedText = lang, translated
		return tx.Model(&t).Updates(map[string]any{
			"target_language": lang,
			"translated_text": translated,
		}).Error
	})
	if err != nil {
		return nil, database.FromDatabase(err, "transcription", idString(id))
	}
	return &t, nil
}

func languageColumn(lang *string) *string {
	if lang == nil {
		return nil
	}
	v := strings.TrimSpace(*lang)
	if v == "" || strings.EqualFold(v, OriginalLanguage) {
		return nil
	}
	return &v
}

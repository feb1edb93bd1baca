package store

import "time"

// Client is a person or organisation that transcriptions belong to.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (Client) TableName() string { return "clients" }

// Transcription is the result of one successful pipeline run.
type Transcription struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ClientID          uint      `gorm:"not null;index" json:"client_id"`
	Filename          string    `gorm:"not null" json:"filename"`
	OriginalText      string    `gorm:"not null" json:"original_text"`
	TranslatedText    *string   `json:"translated_text"`
	TargetLanguage    *string   `json:"target_language"`
	IncludeTimestamps bool      `gorm:"not null" json:"include_timestamps"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Transcription) TableName() string { return "transcriptions" }

// Text returns the translated text when present, else the original.
func (t Transcription) Text() string {
	if t.TranslatedText != nil {
		return *t.TranslatedText
	}
	return t.OriginalText
}

// Language returns the target language, or "Original" when untranslated.
func (t Transcription) Language() string {
	if t.TargetLanguage != nil && *t.TargetLanguage != "" {
		return *t.TargetLanguage
	}
	return OriginalLanguage
}

// Persona is the generated persona of a transcription (at most one each).
type Persona struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TranscriptionID uint      `gorm:"uniqueIndex;not null" json:"transcription_id"`
	Name            string    `gorm:"not null" json:"name"`
	SystemPrompt    string    `gorm:"not null" json:"system_prompt"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Persona) TableName() string { return "personas" }

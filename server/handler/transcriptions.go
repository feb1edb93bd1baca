package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/llm"
	"github.com/kbukum/voxpersona/server"
	"github.com/kbukum/voxpersona/store"
	"github.com/kbukum/voxpersona/translation"
	"github.com/kbukum/voxpersona/validation"
)

// transcriptionView adds the effective text and language to a stored
// transcription.
type transcriptionView struct {
	ID                uint      `json:"id"`
	ClientID          uint      `json:"client_id"`
	Filename          string    `json:"filename"`
	OriginalText      string    `json:"original_text"`
	TranslatedText    *string   `json:"translated_text"`
	Language          string    `json:"language"`
	Text              string    `json:"text"`
	IncludeTimestamps bool      `json:"include_timestamps"`
	CreatedAt         time.Time `json:"created_at"`
}

func newTranscriptionView(t store.Transcription) transcriptionView {
	return transcriptionView{
		ID:                t.ID,
		ClientID:          t.ClientID,
		Filename:          t.Filename,
		OriginalText:      t.OriginalText,
		TranslatedText:    t.TranslatedText,
		Language:          t.Language(),
		Text:              t.Text(),
		IncludeTimestamps: t.IncludeTimestamps,
		CreatedAt:         t.CreatedAt,
	}
}

func newTranscriptionViews(ts []store.Transcription) []transcriptionView {
	views := make([]transcriptionView, len(ts))
	for i := range ts {
		views[i] = newTranscriptionView(ts[i])
	}
	return views
}

const maxLanguageLen = 16

func init() {
	if err := validation.RegisterRule("langcode", isLanguageToken); err != nil {
		panic(err)
	}
}

// isLanguageToken accepts ASCII letters and hyphens, e.g. "fr", "zh-CN" or
// "Original". Whether the language is supported is decided by the translator.
func isLanguageToken(s string) bool {
	if s == "" || s[0] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '-' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// metadataRequest relabels a transcription without translating it again.
type metadataRequest struct {
	TargetLanguage string `json:"target_language" validate:"required,max=16,langcode"`
}

type languageRequest struct {
	Language string `json:"language" validate:"required,max=16,langcode"`
}

type chatRequest struct {
	Message string        `json:"message" validate:"required"`
	History []llm.Message `json:"history" validate:"dive"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (h *Handler) getTranscription(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.svc.Store().GetTranscription(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondOK(c, newTranscriptionView(*t))
}

// searchTranscriptions lists the transcriptions of the client with ?email=.
func (h *Handler) searchTranscriptions(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		fail(c, errors.InvalidInput("email", "query parameter is required"))
		return
	}
	ts, err := h.svc.Store().ListTranscriptionsByEmail(c.Request.Context(), email)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondList(c, newTranscriptionViews(ts))
}

func (h *Handler) updateMetadata(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req metadataRequest
	if !bind(c, &req) {
		return
	}
	lang := req.TargetLanguage
	if lang != store.OriginalLanguage {
		if !translation.Supported(lang) {
			fail(c, errors.UnsupportedLanguage(lang))
			return
		}
		lang = translation.Canonical(lang)
	}
	ctx := c.Request.Context()
	if err := h.svc.Store().UpdateTranscriptionLanguage(ctx, id, lang); err != nil {
		fail(c, err)
		return
	}
	t, err := h.svc.Store().GetTranscription(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondOK(c, newTranscriptionView(*t))
}

func (h *Handler) deleteTranscription(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Store().DeleteTranscription(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	server.RespondNoContent(c)
}

func (h *Handler) changeLanguage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req languageRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.svc.ChangeLanguage(c.Request.Context(), id, req.Language)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondOK(c, newTranscriptionView(*t))
}

func (h *Handler) getPersona(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.svc.Store().GetPersona(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondOK(c, p)
}

func (h *Handler) regeneratePersona(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.svc.RegeneratePersona(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondOK(c, p)
}

func (h *Handler) chat(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req chatRequest
	if !bind(c, &req) {
		return
	}
	if err := validation.New().Required("message", req.Message).Validate(); err != nil {
		fail(c, err)
		return
	}
	reply, err := h.svc.Chat(c.Request.Context(), id, req.Message, req.History)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondOK(c, chatResponse{Reply: reply})
}

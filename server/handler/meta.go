package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/voxpersona/server"
	"github.com/kbukum/voxpersona/settings"
	"github.com/kbukum/voxpersona/store"
	"github.com/kbukum/voxpersona/translation"
)

// languages lists the translation targets, "Original" first.
func (h *Handler) languages(c *gin.Context) {
	langs := append([]translation.Language{{Code: store.OriginalLanguage, Name: store.OriginalLanguage}},
		translation.Languages()...)
	server.RespondList(c, langs)
}

func (h *Handler) models(c *gin.Context) {
	server.RespondList(c, h.svc.Models(c.Request.Context()))
}

func (h *Handler) getSettings(c *gin.Context) {
	server.RespondOK(c, h.settings.Current())
}

// putSettings applies the fields present in the body over the current
// settings.
func (h *Handler) putSettings(c *gin.Context) {
	next := h.settings.Current()
	if !bind(c, &next) {
		return
	}
	saved, err := h.settings.Update(next)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondOK(c, saved)
}

func (h *Handler) resetSettings(c *gin.Context) {
	saved, err := h.settings.Reset()
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondOK(c, saved)
}

var _ SettingsStore = (*settings.Store)(nil)

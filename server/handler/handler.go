// Package handler binds the voxpersona REST API to the pipeline service.
package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/pipeline"
	"github.com/kbukum/voxpersona/server"
	"github.com/kbukum/voxpersona/server/endpoint"
	"github.com/kbukum/voxpersona/settings"
	"github.com/kbukum/voxpersona/validation"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

// SettingsStore reads and replaces the persisted generation settings.
type SettingsStore interface {
	Current() settings.Settings
	Update(next settings.Settings) (settings.Settings, error)
	Reset() (settings.Settings, error)
}

// Options configure a Handler.
type Options struct {
	Service  *pipeline.Service
	Settings SettingsStore
	Health   endpoint.HealthChecker
	// UploadDir receives uploaded files until the pipeline takes them over.
	UploadDir string
	// MaxUploadBytes bounds a single uploaded file. Zero means unbounded.
	MaxUploadBytes int64
	ServiceName    string
	Version        string
	Log            *logger.Logger
}

// Handler serves the REST API.
type Handler struct {
	svc      *pipeline.Service
	settings SettingsStore
	health   endpoint.HealthChecker
	opts     Options
	log      *logger.Logger
}

// New creates a Handler.
func New(opts Options) *Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		svc:      opts.Service,
		settings: opts.Settings,
		health:   opts.Health,
		opts:     opts,
		log:      log.WithComponent("api"),
	}
}

// Register mounts every route under BasePath.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group(BasePath)

	api.GET("/clients", h.listClients)
	api.POST("/clients", h.createClient)
	api.GET("/clients/:id", h.getClient)
	api.PUT("/clients/:id", h.updateClient)
	api.DELETE("/clients/:id", h.deleteClient)
	api.GET("/clients/:id/transcriptions", h.listTranscriptions)
	api.POST("/clients/:id/transcriptions", h.uploadTranscription)
	api.GET("/clients/:id/export", h.exportTranscriptions)

	api.GET("/transcriptions", h.searchTranscriptions)
	api.GET("/transcriptions/:id", h.getTranscription)
	api.PATCH("/transcriptions/:id", h.updateMetadata)
	api.DELETE("/transcriptions/:id", h.deleteTranscription)
	api.PATCH("/transcriptions/:id/language", h.changeLanguage)
	api.GET("/transcriptions/:id/persona", h.getPersona)
	api.POST("/transcriptions/:id/persona/regenerate", h.regeneratePersona)
	api.POST("/transcriptions/:id/chat", h.chat)

	api.GET("/languages", h.languages)
	api.GET("/models", h.models)
	api.GET("/settings", h.getSettings)
	api.PUT("/settings", h.putSettings)
	api.POST("/settings/reset", h.resetSettings)

	api.GET("/health", endpoint.Health(h.opts.ServiceName, h.opts.Version, h.health))
}

// fail writes err as an error envelope. Pipeline failures carry the failing
// stage in the details.
func fail(c *gin.Context, err error) {
	var se *pipeline.StageError
	if stderrors.As(err, &se) {
		if appErr, ok := errors.AsAppError(se.Err); ok {
			withStage := *appErr
			withStage.Details = make(map[string]any, len(appErr.Details)+1)
			for k, v := range appErr.Details {
				withStage.Details[k] = v
			}
			withStage.Details["stage"] = string(se.Stage)
			err = &withStage
		}
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		err = errors.TooLarge(formatBytes(tooLarge.Limit))
	}
	server.RespondWithError(c, err)
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := validation.ParseID("id", c.Param("id"))
	if err != nil {
		fail(c, err)
		return 0, false
	}
	return id, true
}

// bind decodes a JSON body into dst and validates it.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, errors.InvalidInput("body", "malformed JSON body"))
		return false
	}
	if err := validation.Struct(dst); err != nil {
		fail(c, err)
		return false
	}
	return true
}

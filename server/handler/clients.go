package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/server"
	"github.com/kbukum/voxpersona/store"
	"github.com/kbukum/voxpersona/validation"
)

type clientRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
}

// listClients answers with every client, or with the one matching ?email=.
func (h *Handler) listClients(c *gin.Context) {
	if email := strings.TrimSpace(c.Query("email")); email != "" {
		client, err := h.svc.Store().FindClientByEmail(c.Request.Context(), email)
		switch {
		case errors.HasCode(err, errors.ErrCodeNotFound):
			server.RespondList(c, []store.Client{})
		case err != nil:
			fail(c, err)
		default:
			server.RespondList(c, []store.Client{*client})
		}
		return
	}
	clients, err := h.svc.Store().ListClients(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondList(c, clients)
}

func (h *Handler) createClient(c *gin.Context) {
	var req clientRequest
	if !bind(c, &req) {
		return
	}
	client, err := h.svc.Store().AddClient(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondCreated(c, client)
}

func (h *Handler) getClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	client, err := h.svc.Store().GetClient(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondOK(c, client)
}

func (h *Handler) updateClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req clientRequest
	if !bind(c, &req) {
		return
	}
	client, err := h.svc.Store().UpdateClient(c.Request.Context(), id, req.Name, req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondOK(c, client)
}

func (h *Handler) deleteClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Store().DeleteClient(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	server.RespondNoContent(c)
}

func (h *Handler) listTranscriptions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.svc.Store().GetClient(ctx, id); err != nil {
		fail(c, err)
		return
	}
	ts, err := h.svc.Store().ListTranscriptions(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondList(c, newTranscriptionViews(ts))
}

// exportTranscriptions answers with a plain-text document. ?ids=1,2 limits
// the export to those transcriptions.
func (h *Handler) exportTranscriptions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var ids []uint
	if raw := strings.TrimSpace(c.Query("ids")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			tid, err := validation.ParseID("ids", part)
			if err != nil {
				fail(c, err)
				return
			}
			ids = append(ids, tid)
		}
	}
	doc, err := h.svc.Export(c.Request.Context(), id, ids...)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="client-%d-transcriptions.txt"`, id))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}

package handler

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/media"
	"github.com/kbukum/voxpersona/pipeline"
	"github.com/kbukum/voxpersona/server"
	"github.com/kbukum/voxpersona/validation"
)

// uploadTranscription accepts a multipart upload (file, timestamps,
// language) and runs the pipeline on it. The response is the run result.
func (h *Handler) uploadTranscription(c *gin.Context) {
	clientID, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	header, err := c.FormFile("file")
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) {
			fail(c, errors.InvalidInput("file", "file is required"))
			return
		}
		fail(c, tooLargeOr(err, errors.InvalidInput("file", "malformed multipart body")))
		return
	}
	name := filepath.Base(header.Filename)
	if !media.IsSupported(name) {
		fail(c, errors.InvalidInput("file", fmt.Sprintf("unsupported file type %q; accepted: %s",
			filepath.Ext(name), strings.Join(media.UploadExtensions(), ", "))))
		return
	}
	if limit := h.opts.MaxUploadBytes; limit > 0 && header.Size > limit {
		fail(c, errors.TooLarge(formatBytes(limit)))
		return
	}
	flag := strings.ToLower(strings.TrimSpace(c.PostForm("timestamps")))
	language := strings.TrimSpace(c.PostForm("language"))
	if err := validation.New().
		OneOf("timestamps", flag, timestampFlags).
		MaxLength("language", language, maxLanguageLen).
		Custom(language == "" || isLanguageToken(language), "language", "must be a language code such as fr or zh-CN").
		Validate(); err != nil {
		fail(c, err)
		return
	}
	timestamps := flag == "true" || flag == "1" || flag == "on"
	if _, err := h.svc.Store().GetClient(ctx, clientID); err != nil {
		fail(c, err)
		return
	}

	path, err := h.saveUpload(header)
	if err != nil {
		fail(c, errors.Internal(err))
		return
	}

	log := h.log.WithContext(ctx)
	res, err := h.svc.Transcribe(ctx, pipeline.Input{
		AssetPath:         path,
		Filename:          name,
		ClientID:          clientID,
		IncludeTimestamps: timestamps,
		TargetLanguage:    language,
		OwnsAsset:         true,
	}, func(stage pipeline.Stage, value float64, label string) {
		log.Debug("Pipeline progress", logger.Fields(
			logger.FieldStage, stage,
			"progress", value,
			"label", label,
		))
	})
	if err != nil {
		fail(c, err)
		return
	}
	server.RespondCreated(c, res)
}

// saveUpload copies the uploaded file into the upload directory, keeping its
// extension so the extractor can recognise the container.
func (h *Handler) saveUpload(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(h.opts.UploadDir, "upload-*"+strings.ToLower(filepath.Ext(header.Filename)))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return dst.Name(), nil
}

var timestampFlags = []string{"true", "false", "1", "0", "on", "off"}

func tooLargeOr(err error, fallback *errors.AppError) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return err
	}
	return fallback
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<30 && n%(1<<30) == 0:
		return fmt.Sprintf("%dGB", n>>30)
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

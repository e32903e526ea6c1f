package gallery

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/slideshow/errors"
	"github.com/kbukum/slideshow/logger"
	"github.com/kbukum/slideshow/storage"
)

// ListResponse is the body of a successful listing.
type ListResponse struct {
	Success bool     `json:"success"`
	Images  []string `json:"images"`
}

// Handler serves the listing endpoint and the images themselves.
type Handler struct {
	lister        ImageLister
	store         storage.Storage
	filter        *Filter
	defaultPrefix string
	allowed       []string
	cacheControl  string
	log           *logger.Logger
}

// NewHandler creates the HTTP handler. lister is usually a Cache in front
// of a Lister; store serves /objects.
func NewHandler(lister ImageLister, store storage.Storage, cfg Config, log *logger.Logger) (*Handler, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filter, err := NewFilter(cfg.Extensions, cfg.Include)
	if err != nil {
		return nil, err
	}
	def, _ := NormalizePrefix(cfg.Prefix)
	allowed := make([]string, 0, len(cfg.AllowedPrefixes))
	for _, p := range cfg.AllowedPrefixes {
		n, _ := NormalizePrefix(p)
		allowed = append(allowed, n)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		lister:        lister,
		store:         store,
		filter:        filter,
		defaultPrefix: def,
		allowed:       allowed,
		cacheControl:  fmt.Sprintf("public, max-age=%d", int(cfg.ObjectMaxAge.Seconds())),
		log:           log.WithComponent("gallery-http"),
	}, nil
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/list", h.List)
	r.GET("/objects/*key", h.Object)
}

// List handles GET /list?prefix=. A missing prefix lists the default folder.
func (h *Handler) List(c *gin.Context) {
	raw, ok := c.GetQuery("prefix")
	if !ok {
		raw = h.defaultPrefix
	}
	prefix, err := h.resolvePrefix(raw)
	if err != nil {
		h.fail(c, err)
		return
	}

	names, err := h.lister.List(c.Request.Context(), prefix)
	if err != nil {
		h.fail(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, ListResponse{Success: true, Images: names})
}

// Object handles GET /objects/*key and streams one image from storage.
func (h *Handler) Object(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	dir, name := path.Split(key)
	if _, err := h.resolvePrefix(dir); err != nil {
		h.fail(c, err)
		return
	}
	if !h.filter.Match(name) {
		h.fail(c, apperrors.InvalidInput("key", fmt.Sprintf("%q is not a served image type", name)))
		return
	}

	rc, err := h.store.Download(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.fail(c, apperrors.NotFound("image", key))
			return
		}
		h.fail(c, apperrors.StorageError("object", err))
		return
	}
	defer func() { _ = rc.Close() }()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", h.cacheControl)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn("image stream interrupted", logger.MergeWithError(logger.Fields(logger.FieldImage, key), err))
	}
}

func (h *Handler) resolvePrefix(raw string) (string, error) {
	prefix, err := NormalizePrefix(raw)
	if err != nil {
		return "", apperrors.InvalidPrefix(raw, err.Error())
	}
	if !prefixAllowed(prefix, h.allowed) {
		return "", apperrors.InvalidPrefix(raw, "folder is not served")
	}
	return prefix, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	status := appErr.HTTPStatus
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", logger.MergeWithError(logger.Fields("path", c.Request.URL.Path), err))
	}
	c.AbortWithStatusJSON(status, appErr.ToResponse())
}

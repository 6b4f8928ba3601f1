// Package server is the loopback HTTP service that lets repeated CLI
// invocations share one long-lived store.
package server

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/axiomhq/webcompress"
	"github.com/axiomhq/webcompress/logger"
	"github.com/axiomhq/webcompress/page"
	"github.com/axiomhq/webcompress/store"
)

// maxAssetSize bounds request bodies accepted by PutAsset.
const maxAssetSize = 16 << 20

type Handler struct {
	store  *store.Store
	client *http.Client
	log    logger.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

func NewHandler(st *store.Store, client *http.Client, l logger.Logger) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	return &Handler{store: st, client: client, log: l, stop: make(chan struct{})}
}

// Stopped is closed once a stop request has been served.
func (h *Handler) Stopped() <-chan struct{} { return h.stop }

func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidKind),
		errors.Is(err, webcompress.ErrEmptyInput),
		errors.Is(err, webcompress.ErrSingletonAlphabet),
		errors.Is(err, webcompress.ErrAmbiguousFraming):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		h.log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

type urlQuery struct {
	URL string `form:"url" binding:"required"`
}

func bindURL(c *gin.Context) (string, bool) {
	var q urlQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return q.URL, true
}

func (h *Handler) Test(c *gin.Context) {
	c.String(http.StatusOK, "server is running")
}

// Add fetches a page and saves its markup, styles and image links.
func (h *Handler) Add(c *gin.Context) {
	u, ok := bindURL(c)
	if !ok {
		return
	}
	doc, err := page.Fetch(c.Request.Context(), h.client, u)
	if err != nil {
		h.log.Errorf("add %s: %v", u, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	assets := map[store.Kind][]byte{
		store.KindHTML:   doc,
		store.KindCSS:    page.ExtractStyles(doc),
		store.KindImages: page.ExtractImages(doc),
	}
	if err := h.store.PutPage(u, assets); err != nil {
		h.fail(c, err)
		return
	}
	sizes := gin.H{}
	for kind, text := range assets {
		sizes[string(kind)] = len(text)
	}
	c.JSON(http.StatusCreated, gin.H{"url": u, "assets": sizes})
}

func (h *Handler) Remove(c *gin.Context) {
	u, ok := bindURL(c)
	if !ok {
		return
	}
	if err := h.store.Remove(u); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": u})
}

func (h *Handler) List(c *gin.Context) {
	urls, err := h.store.URLs()
	if err != nil {
		h.fail(c, err)
		return
	}
	if urls == nil {
		urls = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

// Index renders the saved URLs as an HTML page linking to View.
func (h *Handler) Index(c *gin.Context) {
	urls, err := h.store.URLs()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page.BuildIndex(urls, "/view"))
}

// View decodes the three assets of a page and assembles the viewer page.
func (h *Handler) View(c *gin.Context) {
	u, ok := bindURL(c)
	if !ok {
		return
	}
	var assets [3][]byte
	for i, kind := range store.Kinds {
		text, err := h.store.Get(u, kind)
		if err != nil {
			h.fail(c, err)
			return
		}
		assets[i] = text
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page.BuildView(assets[0], assets[1], assets[2]))
}

func (h *Handler) PutAsset(c *gin.Context) {
	u, ok := bindURL(c)
	if !ok {
		return
	}
	kind, err := store.ParseKind(c.Param("kind"))
	if err != nil {
		h.fail(c, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAssetSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.Put(u, kind, body); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetAsset(c *gin.Context) {
	u, ok := bindURL(c)
	if !ok {
		return
	}
	kind, err := store.ParseKind(c.Param("kind"))
	if err != nil {
		h.fail(c, err)
		return
	}
	text, err := h.store.Get(u, kind)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", text)
}

func (h *Handler) Stop(c *gin.Context) {
	h.stopOnce.Do(func() { close(h.stop) })
	c.JSON(http.StatusOK, gin.H{"stopping": true})
}

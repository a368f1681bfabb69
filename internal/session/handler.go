package session

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.get)                      // GET /session
	rg.POST("/lookup/:media_id", h.lookup) // POST /session/lookup/:media_id
	rg.POST("/links", h.requestLink)
	rg.POST("/links/:id/confirm", h.confirmLink)
	rg.POST("/links/:id/cancel", h.cancelLink)
	rg.DELETE("/confirmation", h.dismiss)
}

func (h *Handler) get(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Snapshot())
}

// lookup always answers 200 with the resulting state: failures are
// absorbed into the error phase, not surfaced as transport errors.
func (h *Handler) lookup(c *gin.Context) {
	id := parseInt(c.Param("media_id"), 0)
	if id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_id must be a positive integer"})
		return
	}
	st := h.Store.Lookup(c.Request.Context(), id)
	c.JSON(http.StatusOK, st)
}

type linkReq struct {
	URL string `json:"url"`
}

func (h *Handler) requestLink(c *gin.Context) {
	var req linkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	conf, err := h.Store.RequestLink(req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url required"})
		return
	}
	c.JSON(http.StatusOK, conf)
}

func (h *Handler) confirmLink(c *gin.Context) {
	url, err := h.Store.ConfirmLink(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "confirmation is no longer pending"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) cancelLink(c *gin.Context) {
	if err := h.Store.CancelLink(c.Param("id")); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "confirmation is no longer pending"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cancelled"})
}

func (h *Handler) dismiss(c *gin.Context) {
	h.Store.DismissConfirmation()
	c.JSON(http.StatusOK, gin.H{"message": "dismissed"})
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

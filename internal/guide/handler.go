package guide

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders/:media_id", h.lookup) // GET /orders/:media_id
	rg.GET("/series", h.series)           // GET /series
}

func (h *Handler) lookup(c *gin.Context) {
	id := parseMediaID(c.Param("media_id"))
	if id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_id must be a positive integer"})
		return
	}

	res, err := h.Service.Lookup(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "watch order data unavailable"})
		return
	}
	c.JSON(http.StatusOK, res)
}

type orderSummary struct {
	Name  string `json:"name"`
	Steps int    `json:"steps"`
}

type seriesSummary struct {
	Title     string         `json:"title"`
	AltTitles []string       `json:"alt_titles,omitempty"`
	Orders    []orderSummary `json:"orders"`
}

func (h *Handler) series(c *gin.Context) {
	all, err := h.Service.Cache.GetOrFetch(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "watch order data unavailable"})
		return
	}

	items := make([]seriesSummary, 0, len(all))
	for _, s := range all {
		sum := seriesSummary{Title: s.Title, AltTitles: s.AltTitles}
		for _, o := range s.Orders {
			sum.Orders = append(sum.Orders, orderSummary{Name: o.Name, Steps: len(o.Steps)})
		}
		items = append(items, sum)
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func parseMediaID(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

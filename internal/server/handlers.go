package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/nah-machine/internal/catalog"
	"github.com/rcliao/nah-machine/internal/machine"
	"github.com/rcliao/nah-machine/internal/model"
)

// CatalogHandler serves read-only catalog queries.
type CatalogHandler struct {
	Catalog *catalog.Catalog
}

type messageResponse struct {
	Message string `json:"message"`
}

type messagesResponse struct {
	Messages []string `json:"messages"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type statsResponse struct {
	Stats catalog.Stats `json:"stats"`
}

func (h *CatalogHandler) Random(c *gin.Context) {
	text, err := h.Catalog.PickRandom()
	if err != nil {
		RespondError(c, http.StatusServiceUnavailable, "empty_catalog", err)
		return
	}
	RespondOK(c, messageResponse{Message: text})
}

func (h *CatalogHandler) Multiple(c *gin.Context) {
	count := 5
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_count", errors.New("count must be an integer"))
			return
		}
		count = n
	}
	RespondOK(c, messagesResponse{Messages: h.Catalog.PickMultiple(count)})
}

func (h *CatalogHandler) ByCategory(c *gin.Context) {
	res, err := h.Catalog.PickCategorized(c.Param("category"))
	if err != nil {
		RespondError(c, http.StatusServiceUnavailable, "empty_catalog", err)
		return
	}
	RespondOK(c, res)
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	RespondOK(c, categoriesResponse{Categories: h.Catalog.ListCategories()})
}

func (h *CatalogHandler) Stats(c *gin.Context) {
	RespondOK(c, statsResponse{Stats: h.Catalog.Stats()})
}

// StateHandler exposes the store and the reason flows.
type StateHandler struct {
	Machine *machine.Machine
}

type textRequest struct {
	Text string `json:"text"`
}

type toggleResponse struct {
	Active bool        `json:"active"`
	State  model.State `json:"state"`
}

type favoritesResponse struct {
	Favorites   []string `json:"favorites"`
	CanGenerate bool     `json:"canGenerate"`
}

func (h *StateHandler) Get(c *gin.Context) {
	RespondOK(c, h.Machine.Store().Snapshot())
}

func (h *StateHandler) Refresh(c *gin.Context) {
	RespondOK(c, h.Machine.Refresh(c.Request.Context()))
}

func (h *StateHandler) Generate(c *gin.Context) {
	RespondOK(c, h.Machine.Generate(c.Request.Context()))
}

func (h *StateHandler) ToggleLike(c *gin.Context) {
	st, active := h.Machine.ToggleLike()
	RespondOK(c, toggleResponse{Active: active, State: st})
}

func (h *StateHandler) ToggleSave(c *gin.Context) {
	st, active := h.Machine.ToggleSave()
	RespondOK(c, toggleResponse{Active: active, State: st})
}

func (h *StateHandler) Favorites(c *gin.Context) {
	RespondOK(c, favoritesResponse{
		Favorites:   h.Machine.Store().FavoriteTexts(),
		CanGenerate: h.Machine.CanGenerate(),
	})
}

// Mutate returns a handler applying op to the text named in the request.
// POST reads {"text": ...} from the body; DELETE reads ?text=.
func (h *StateHandler) Mutate(op func(text string) model.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		text, err := readText(c)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_text", err)
			return
		}
		RespondOK(c, op(text))
	}
}

func (h *StateHandler) ClearRecent(c *gin.Context) {
	RespondOK(c, h.Machine.Store().ClearRecent())
}

func readText(c *gin.Context) (string, error) {
	var text string
	if c.Request.Method == http.MethodDelete {
		text = c.Query("text")
	} else {
		var req textRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", errors.New("body must be JSON like {\"text\": \"...\"}")
		}
		text = req.Text
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("text is required")
	}
	return text, nil
}

// HealthHandler reports liveness.
type HealthHandler struct{}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	RespondOK(c, gin.H{"ok": true, "time": time.Now().Format(time.RFC3339Nano)})
}

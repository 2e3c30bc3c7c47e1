package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/repository/flatfile"
	"github.com/mamadbah2/warehouse/internal/service/commands"
	"github.com/mamadbah2/warehouse/internal/service/inventory"
	"github.com/mamadbah2/warehouse/internal/store"
)

// Inventory is the inventory service surface exposed over HTTP.
type Inventory interface {
	CreateOrRestock(in models.ItemInput) (store.Result, error)
	Sell(id, quantity int) (store.Sale, error)
	Delete(id int, confirmed bool) (string, error)
	Get(id int) (models.Item, error)
	Find(query string) []models.Item
	Save() error
	Backup() (string, error)
}

// Reporter is the reporting surface exposed over HTTP.
type Reporter interface {
	Totals() models.Totals
	PriceExtremes() (models.PriceExtremes, bool)
	CategoryHealth(required []models.Category) []models.Category
	LowStock(threshold int) []models.Item
}

// Commander dispatches text commands.
type Commander interface {
	HandleText(text string) (models.Command, string, error)
}

// Settings holds the reporting defaults applied when a request omits them.
type Settings struct {
	LowStockThreshold  int
	RequiredCategories []models.Category
}

// InventoryHandler adapts inventory operations to JSON endpoints.
type InventoryHandler struct {
	inventory Inventory
	reporting Reporter
	commands  Commander
	settings  Settings
	logger    *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(inv Inventory, rep Reporter, cmds Commander, settings Settings, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{inventory: inv, reporting: rep, commands: cmds, settings: settings, logger: logger}
}

type sellRequest struct {
	Quantity int `json:"quantity"`
}

type sellResponse struct {
	Total     float64 `json:"total"`
	Remaining int     `json:"remaining"`
}

type upsertResponse struct {
	Item      models.Item `json:"item"`
	Restocked bool        `json:"restocked"`
}

// ListItems returns every item, or those matching the q query parameter.
func (h *InventoryHandler) ListItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.inventory.Find(c.Query("q"))})
}

// GetItem returns a single item.
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	item, err := h.inventory.Get(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpsertItem creates a new item or restocks an existing one.
func (h *InventoryHandler) UpsertItem(c *gin.Context) {
	var req models.ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid item payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.inventory.CreateOrRestock(req)
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusCreated
	if res.Restocked {
		status = http.StatusOK
	}
	c.JSON(status, upsertResponse{Item: res.Item, Restocked: res.Restocked})
}

// SellItem processes an order against an item.
func (h *InventoryHandler) SellItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sell payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sale, err := h.inventory.Sell(id, req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sellResponse{Total: sale.Total, Remaining: sale.Item.Quantity})
}

// DeleteItem removes an item; the request must carry confirm=yes.
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	name, err := h.inventory.Delete(id, c.Query("confirm") == "yes")
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name, "id": id})
}

// Totals reports inventory value and unit count.
func (h *InventoryHandler) Totals(c *gin.Context) {
	c.JSON(http.StatusOK, h.reporting.Totals())
}

// Extremes reports the most and least expensive items.
func (h *InventoryHandler) Extremes(c *gin.Context) {
	extremes, ok := h.reporting.PriceExtremes()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "no data available"})
		return
	}
	c.JSON(http.StatusOK, extremes)
}

// Categories reports required categories with no stock.
func (h *InventoryHandler) Categories(c *gin.Context) {
	missing := h.reporting.CategoryHealth(h.settings.RequiredCategories)
	c.JSON(http.StatusOK, gin.H{"healthy": len(missing) == 0, "missing": missing})
}

// LowStock lists items under the threshold query parameter, or the configured default.
func (h *InventoryHandler) LowStock(c *gin.Context) {
	threshold := h.settings.LowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a non-negative integer"})
			return
		}
		threshold = v
	}
	c.JSON(http.StatusOK, gin.H{"threshold": threshold, "items": h.reporting.LowStock(threshold)})
}

// Backup copies the inventory file.
func (h *InventoryHandler) Backup(c *gin.Context) {
	path, err := h.inventory.Backup()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": path})
}

// Save persists the inventory file.
func (h *InventoryHandler) Save(c *gin.Context) {
	if err := h.inventory.Save(); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Command dispatches a text command such as "/sell 1 3".
func (h *InventoryHandler) Command(c *gin.Context) {
	var req models.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid command payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cmd, reply, err := h.commands.HandleText(req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CommandReply{Command: cmd.Type, Reply: reply})
}

func (h *InventoryHandler) pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return 0, false
	}
	return id, true
}

func (h *InventoryHandler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation),
		errors.Is(err, inventory.ErrNotConfirmed),
		errors.Is(err, commands.ErrInvalidArguments),
		errors.Is(err, commands.ErrUnsupportedCommand):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, flatfile.ErrNoSource):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

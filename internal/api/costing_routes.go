package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"costengine/internal/core"
	"costengine/internal/core/postgres"
	"costengine/internal/middleware"
	"costengine/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// costingValidate is shared across the costing handlers below the way the
// teacher's handlers share a single *sql.DB — one instance, reused per
// request, since validator.New() pre-compiles its struct-tag cache.
var costingValidate = validator.New()

// CostingHandler exposes the costing engine's core operations (C1-C8) over
// HTTP, wired against the postgres-backed capability implementations.
type CostingHandler struct {
	inventory   *core.InventoryService
	alerts      *core.AlertService
	recipeCost  *core.RecipeCostService
	cachedCost  *postgres.CachedRecipeCostService
	sales       *core.SaleService
}

// NewCostingHandler constructs every core service from a shared *sql.DB and
// an optional Redis client (nil disables the recipe-cost cache).
func NewCostingHandler(db *sql.DB, cache *redis.Client) *CostingHandler {
	batches := postgres.NewBatchStore(db)
	movements := postgres.NewMovementLog(db)
	catalog := postgres.NewCatalogReader(db)
	recipes := postgres.NewRecipeStore(db)
	salesLog := postgres.NewSaleLog(db)

	inventory := core.NewInventoryService(batches, movements, catalog)
	alerts := core.NewAlertService(batches, catalog)
	recipeCost := core.NewRecipeCostService(recipes, batches, catalog)
	sales := core.NewSaleService(salesLog)

	h := &CostingHandler{
		inventory:  inventory,
		alerts:     alerts,
		recipeCost: recipeCost,
		sales:      sales,
	}
	if cache != nil {
		h.cachedCost = postgres.NewCachedRecipeCostService(recipeCost, cache)
	}
	return h
}

// RegisterCostingRoutes wires the costing engine's HTTP surface under a
// protected router group, matching the teacher's per-domain route grouping
// style in SetupRoutes.
func RegisterCostingRoutes(protected *gin.RouterGroup, h *CostingHandler) {
	batches := protected.Group("/inventory/batches")
	{
		batches.POST("", h.AddBatch)
		batches.GET("", h.ListBatches)
		batches.GET("/:id", h.FindBatch)
		batches.POST("/deduct", h.Deduct)
	}

	protected.POST("/inventory/sweep-expirations", h.SweepExpirations)
	protected.GET("/inventory/loss-report", h.GetLossReport)
	protected.GET("/inventory/alerts", h.GetAlerts)

	protected.GET("/recipes/:id/cost", h.CalculateRecipeCost)

	protected.POST("/sales", h.RecordSale)
	protected.GET("/menu/analysis", h.AnalyzeMenu)
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	errMsg := err.Error()

	if ce, ok := err.(*core.Error); ok {
		switch ce.Kind {
		case core.KindValidation:
			status = http.StatusBadRequest
		case core.KindNotFound:
			status = http.StatusNotFound
		case core.KindConflict:
			status = http.StatusConflict
		case core.KindInsufficientStock, core.KindNoInventory:
			status = http.StatusUnprocessableEntity
		case core.KindArithmetic:
			status = http.StatusInternalServerError
		default:
			status = http.StatusInternalServerError
		}
	}

	c.JSON(status, models.APIResponse{
		Success: false,
		Message: "request failed",
		Error:   &errMsg,
	})
}

func tenantFromContext(c *gin.Context) (uuid.UUID, bool) {
	return middleware.GetTenantFromContext(c)
}

type addBatchRequest struct {
	Ingredient string     `json:"ingredient_id" binding:"required" validate:"required,uuid"`
	PriceCents int64      `json:"price_per_unit_cents" binding:"required" validate:"gt=0"`
	Quantity   float64    `json:"quantity" binding:"required" validate:"gt=0"`
	Supplier   *string    `json:"supplier"`
	Invoice    *string    `json:"invoice_number"`
	ReceivedAt *time.Time `json:"received_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// AddBatch handles the external interface table's `add_batch` operation.
func (h *CostingHandler) AddBatch(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "missing tenant scope"})
		return
	}
	userID, _, _, _ := middleware.GetUserFromContext(c)

	var req addBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid request body", Error: strPtr(err.Error())})
		return
	}
	if err := costingValidate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "validation failed", Error: strPtr(err.Error())})
		return
	}

	ingredientID, err := uuid.Parse(req.Ingredient)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid ingredient_id"})
		return
	}
	quantity, err := core.NewQuantityFromFloat(req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	id, err := h.inventory.AddBatch(c.Request.Context(), core.AddBatchInput{
		Tenant:     tenant,
		User:       userID,
		Ingredient: ingredientID,
		PriceMinor: req.PriceCents,
		Quantity:   quantity,
		Supplier:   req.Supplier,
		Invoice:    req.Invoice,
		ReceivedAt: receivedAt,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{Success: true, Message: "batch recorded", Data: gin.H{"id": id}})
}

// FindBatch handles `find_batch`.
func (h *CostingHandler) FindBatch(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "missing tenant scope"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid batch id"})
		return
	}

	batch, err := h.inventory.FindBatch(c.Request.Context(), tenant, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if batch == nil {
		c.JSON(http.StatusNotFound, models.APIResponse{Success: false, Message: "batch not found"})
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "ok", Data: batch})
}

// ListBatches handles `list_batches`.
func (h *CostingHandler) ListBatches(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "missing tenant scope"})
		return
	}
	list, err := h.inventory.ListBatches(c.Request.Context(), tenant)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "ok", Data: list})
}

type deductRequest struct {
	Ingredient string  `json:"ingredient_id" binding:"required" validate:"required,uuid"`
	Quantity   float64 `json:"quantity" binding:"required" validate:"gt=0"`
	Kind       string  `json:"kind"`
	Reference  *string `json:"reference_id"`
	Reason     *string `json:"reason"`
}

// Deduct handles `deduct`: the FIFO deduction engine.
func (h *CostingHandler) Deduct(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "missing tenant scope"})
		return
	}

	var req deductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid request body", Error: strPtr(err.Error())})
		return
	}
	if err := costingValidate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "validation failed", Error: strPtr(err.Error())})
		return
	}

	ingredientID, err := uuid.Parse(req.Ingredient)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid ingredient_id"})
		return
	}
	quantity, err := core.NewQuantityFromFloat(req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	kind := core.MovementKind(req.Kind)
	lines, err := h.inventory.Deduct(c.Request.Context(), core.DeductInput{
		Tenant:     tenant,
		Ingredient: ingredientID,
		Quantity:   quantity,
		Kind:       kind,
		Reference:  req.Reference,
		ReasonText: req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "deducted", Data: lines})
}

// SweepExpirations handles the operator-triggered sweep (spec §4.4); the
// dedicated cmd/sweeper binary calls the same InventoryService method on a
// schedule, this endpoint exists for an on-demand manual trigger.
func (h *CostingHandler) SweepExpirations(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "missing tenant scope"})
		return
	}
	count, err := h.inventory.SweepExpirations(c.Request.Context(), tenant, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "swept", Data: gin.H{"processed": count}})
}

// GetLossReport handles the supplemented loss-report surface.
func (h *CostingHandler) GetLossReport(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "missing tenant scope"})
		return
	}
	until := time.Now().UTC()
	since := until.AddDate(0, 0, -7)
	if v := c.Query("since_days"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			since = until.AddDate(0, 0, -days)
		}
	}

	report, err := h.inventory.GetLossReport(c.Request.Context(), tenant, since, until)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "ok", Data: report})
}

// GetAlerts handles `get_alerts`.
func (h *CostingHandler) GetAlerts(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "missing tenant scope"})
		return
	}
	report, err := h.alerts.GetAlerts(c.Request.Context(), tenant, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "ok", Data: report})
}

// CalculateRecipeCost handles `calculate_recipe_cost`, preferring the Redis
// cache when one is configured. The cache stores only the totals, so a cache
// hit returns an empty IngredientsBreakdown; only a live calculation (no
// cache configured, or a cache miss) includes the per-ingredient lines.
func (h *CostingHandler) CalculateRecipeCost(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "missing tenant scope"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid recipe id"})
		return
	}

	var cost *core.RecipeCost
	if h.cachedCost != nil {
		cost, err = h.cachedCost.CalculateRecipeCost(c.Request.Context(), tenant, recipeID)
	} else {
		cost, err = h.recipeCost.CalculateRecipeCost(c.Request.Context(), tenant, recipeID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "ok", Data: cost})
}

type recordSaleRequest struct {
	Dish          string  `json:"dish_id" binding:"required" validate:"required,uuid"`
	Quantity      int     `json:"quantity" binding:"required" validate:"gt=0"`
	SellingCents  int64   `json:"selling_price_cents" binding:"required" validate:"gt=0"`
	RecipeCostCents int64 `json:"recipe_cost_cents" validate:"gte=0"`
}

// RecordSale handles `record_sale`.
func (h *CostingHandler) RecordSale(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "missing tenant scope"})
		return
	}
	userID, _, _, _ := middleware.GetUserFromContext(c)

	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid request body", Error: strPtr(err.Error())})
		return
	}
	if err := costingValidate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "validation failed", Error: strPtr(err.Error())})
		return
	}

	dishID, err := uuid.Parse(req.Dish)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: "invalid dish_id"})
		return
	}

	sellingPrice, err := core.NewMoney(req.SellingCents)
	if err != nil {
		respondError(c, err)
		return
	}
	recipeCost, err := core.NewMoney(req.RecipeCostCents)
	if err != nil {
		respondError(c, err)
		return
	}

	err = h.sales.RecordSale(c.Request.Context(), tenant, dishID, userID, req.Quantity, sellingPrice, recipeCost, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.APIResponse{Success: true, Message: "sale recorded"})
}

// AnalyzeMenu handles `analyze_menu`.
func (h *CostingHandler) AnalyzeMenu(c *gin.Context) {
	tenant, ok := tenantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: "missing tenant scope"})
		return
	}
	language := c.DefaultQuery("lang", "en")
	windowDays := 30
	if v := c.Query("window_days"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			windowDays = days
		}
	}
	matrix, err := h.sales.AnalyzeMenu(c.Request.Context(), tenant, language, windowDays, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "ok", Data: matrix})
}

func strPtr(s string) *string { return &s }

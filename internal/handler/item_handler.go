package handler

import (
	"net/http"

	"rentkar/internal/middleware"
	"rentkar/internal/service"
	"rentkar/pkg/pagination"
	"rentkar/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ItemHandler struct {
	itemService service.ItemService
}

func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	{
		items.GET("", h.ListItems)
		items.GET("/my", middleware.RequireAuth(), h.ListOwnItems)
		items.GET("/:id", h.GetItemByID)
		items.POST("", middleware.RequireAuth(), h.CreateItem)
		items.PUT("/:id", middleware.RequireAuth(), h.UpdateItem)
		items.DELETE("/:id", middleware.RequireAuth(), h.DeleteItem)
	}
}

// ListItems returns the public item listing with optional filters
// @Summary      Browse items
// @Tags         items
// @Produce      json
// @Param        status    query  string  false  "Item status filter (default AVAILABLE)"
// @Param        category  query  string  false  "Category filter"
// @Param        search    query  string  false  "Search in title and description"
// @Param        page      query  int     false  "Page number"
// @Param        limit     query  int     false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /api/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)
	items, total, err := h.itemService.ListItems(c.Request.Context(), service.ItemListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     params.Page,
		Limit:    params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   items,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// ListOwnItems returns the caller's listed items
// @Summary      My items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/items/my [get]
func (h *ItemHandler) ListOwnItems(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	params := pagination.Parse(c)

	items, total, err := h.itemService.ListOwnItems(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   items,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetItemByID returns a single item
// @Summary      Get item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.ItemSummary}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetItemByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid item id"))
		return
	}

	item, err := h.itemService.GetItemByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateItem lists a new item owned by the caller
// @Summary      Create item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateItemDTO  true  "Item payload"
// @Success      201      {object}  response.Response{data=service.ItemSummary}
// @Failure      400      {object}  response.Response
// @Router       /api/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var dto service.CreateItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), dto, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithMessage(http.StatusCreated, "Item created successfully", item))
}

// UpdateItem updates fields of an owned item
// @Summary      Update item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Item ID"
// @Param        payload  body      service.UpdateItemDTO  true  "Fields to update"
// @Success      200      {object}  response.Response{data=service.ItemSummary}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid item id"))
		return
	}

	var dto service.UpdateItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), id, dto, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Item updated successfully", item))
}

// DeleteItem removes an owned item
// @Summary      Delete item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid item id"))
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Item deleted successfully", nil))
}

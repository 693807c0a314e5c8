package handler

import (
	"net/http"

	"rentkar/internal/middleware"
	"rentkar/internal/service"
	"rentkar/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BorrowHandler struct {
	borrowService service.BorrowService
}

func NewBorrowHandler(borrowService service.BorrowService) *BorrowHandler {
	return &BorrowHandler{borrowService: borrowService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup.
// Every request route requires authentication.
func (h *BorrowHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests", middleware.RequireAuth())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("/sent", h.GetSentRequests)
		requests.GET("/received", h.GetReceivedRequests)
		requests.GET("/statistics", h.GetStatistics)
		requests.GET("/:id", h.GetRequestByID)
		requests.POST("/:id/approve", h.ApproveRequest)
		requests.POST("/:id/reject", h.RejectRequest)
		requests.POST("/:id/return", h.MarkReturned)
		requests.POST("/:id/confirm", h.ConfirmReturn)
		requests.DELETE("/:id", h.CancelRequest)
	}
}

// responseMessageBody is the optional body for approve/reject.
type responseMessageBody struct {
	ResponseMessage string `json:"response_message"`
}

// CreateRequest opens a borrow request against an item
// @Summary      Create borrow request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId   query     string                           true  "Item ID"
// @Param        payload  body      service.CreateBorrowRequestDTO   true  "Request payload"
// @Success      201      {object}  response.Response{data=service.BorrowRequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/requests [post]
func (h *BorrowHandler) CreateRequest(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	itemID, err := uuid.Parse(c.Query("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid or missing itemId"))
		return
	}

	var dto service.CreateBorrowRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.borrowService.CreateRequest(c.Request.Context(), itemID, dto, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithMessage(http.StatusCreated, "Borrow request created successfully", request))
}

// GetSentRequests lists the caller's requests as borrower
// @Summary      Sent requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Status filter"
// @Success      200  {object}  response.Response{data=[]service.BorrowRequestResponse}
// @Router       /api/requests/sent [get]
func (h *BorrowHandler) GetSentRequests(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	requests, err := h.borrowService.GetSentRequests(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// GetReceivedRequests lists the caller's requests as lender
// @Summary      Received requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Status filter"
// @Success      200  {object}  response.Response{data=[]service.BorrowRequestResponse}
// @Router       /api/requests/received [get]
func (h *BorrowHandler) GetReceivedRequests(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	requests, err := h.borrowService.GetReceivedRequests(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// GetStatistics aggregates the caller's request history
// @Summary      Request statistics
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.RequestStatistics}
// @Router       /api/requests/statistics [get]
func (h *BorrowHandler) GetStatistics(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	stats, err := h.borrowService.GetStatistics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetRequestByID returns one request, visible to its borrower or lender only
// @Summary      Get request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.BorrowRequestResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id} [get]
func (h *BorrowHandler) GetRequestByID(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	request, err := h.borrowService.GetRequestByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ApproveRequest approves a pending request (lender only)
// @Summary      Approve request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true   "Request ID"
// @Param        payload  body      responseMessageBody  false  "Optional response message"
// @Success      200      {object}  response.Response{data=service.BorrowRequestResponse}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/approve [post]
func (h *BorrowHandler) ApproveRequest(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	var body responseMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		// Empty body is fine — the response message is optional.
		body.ResponseMessage = ""
	}

	request, err := h.borrowService.ApproveRequest(c.Request.Context(), id, body.ResponseMessage, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Request approved successfully", request))
}

// RejectRequest rejects a pending request (lender only)
// @Summary      Reject request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true   "Request ID"
// @Param        payload  body      responseMessageBody  false  "Optional response message"
// @Success      200      {object}  response.Response{data=service.BorrowRequestResponse}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/reject [post]
func (h *BorrowHandler) RejectRequest(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	var body responseMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		body.ResponseMessage = ""
	}

	request, err := h.borrowService.RejectRequest(c.Request.Context(), id, body.ResponseMessage, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Request rejected successfully", request))
}

// MarkReturned records that the lender received the item back
// @Summary      Mark item returned
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.BorrowRequestResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/requests/{id}/return [post]
func (h *BorrowHandler) MarkReturned(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	request, err := h.borrowService.MarkReturned(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Item marked as returned successfully", request))
}

// ConfirmReturn completes the loan (borrower only)
// @Summary      Confirm return
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.BorrowRequestResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/requests/{id}/confirm [post]
func (h *BorrowHandler) ConfirmReturn(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	request, err := h.borrowService.ConfirmReturn(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Return confirmed successfully", request))
}

// CancelRequest deletes a pending request (borrower only)
// @Summary      Cancel request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/requests/{id} [delete]
func (h *BorrowHandler) CancelRequest(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	if err := h.borrowService.CancelRequest(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(http.StatusOK, "Request canceled successfully", nil))
}

package handler

import (
	cashierapp "github.com/billing/backend/internal/application/cashier"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CashierHandler handles cash session endpoints
type CashierHandler struct {
	BaseHandler
	sessionService *cashierapp.SessionService
}

// NewCashierHandler creates a new CashierHandler
func NewCashierHandler(sessionService *cashierapp.SessionService) *CashierHandler {
	return &CashierHandler{sessionService: sessionService}
}

// RegisterRoutes registers cash session routes
func (h *CashierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/cash-sessions")
	{
		sessions.POST("", h.Open)
		sessions.GET("", h.List)
		sessions.GET("/:id", h.Get)
		sessions.GET("/:id/expected", h.GetExpected)
		sessions.POST("/:id/close", h.Close)
		sessions.POST("/:id/movements", h.RecordMovement)
		sessions.GET("/:id/movements", h.ListMovements)
	}
}

// Open opens a cash session for the acting user
func (h *CashierHandler) Open(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid or missing user ID")
		return
	}

	var input cashierapp.OpenSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.sessionService.Open(c.Request.Context(), tenantID, userID, input.OpeningBalance)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// Get returns a single cash session
func (h *CashierHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// List returns cash sessions matching the query filters
func (h *CashierHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter cashierapp.SessionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sessions, err := h.sessionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sessions)
}

// GetExpected returns the live expected balance of an open session
func (h *CashierHandler) GetExpected(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	expected, err := h.sessionService.GetExpected(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expected)
}

// Close closes a session, reconciling counted cash against the expectation
func (h *CashierHandler) Close(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var input cashierapp.CloseSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.sessionService.Close(c.Request.Context(), tenantID, sessionID, input.ActualBalance)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// RecordMovement records a manual cash movement on an open session
func (h *CashierHandler) RecordMovement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var input cashierapp.MovementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.sessionService.RecordMovement(c.Request.Context(), tenantID, sessionID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// ListMovements returns the movements of a session in creation order
func (h *CashierHandler) ListMovements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	movements, err := h.sessionService.ListMovements(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

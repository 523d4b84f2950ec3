package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/dto"
	"github.com/SwapHands/item_trading_app/internal/middleware"
)

// userHandler serves the authenticated user's own account.
type userHandler struct {
	userService portssvc.UserSvc
}

func newUserHandler(us portssvc.UserSvc) *userHandler {
	return &userHandler{userService: us}
}

func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvc) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.me)
		users.PUT("/me/status", h.setOwnStatus)
	}
}

func (h *userHandler) me(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// setOwnStatus lets a user go on vacation, return from it, or ask to be
// unfrozen. Every other status is an admin decision.
func (h *userHandler) setOwnStatus(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	status := domain.UserStatus(req.Status)
	switch status {
	case domain.StatusVacation, domain.StatusNormal, domain.StatusRequestUnfreeze:
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Status change not allowed"})
		return
	}

	if err := h.userService.SetStatus(c.Request.Context(), userID, status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

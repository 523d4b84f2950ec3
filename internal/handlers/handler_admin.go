package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SwapHands/item_trading_app/internal/core/domain"
	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/dto"
	"github.com/SwapHands/item_trading_app/internal/middleware"
)

// adminHandler groups the moderation surface: alerts, item approval, user
// status changes, the policy settings and the audit history.
type adminHandler struct {
	userService    portssvc.UserSvc
	itemService    portssvc.ItemSvc
	alertService   portssvc.AlertSvc
	commandService portssvc.CommandSvc
	configService  portssvc.ConfigSvc
}

func registerAdminRoutes(rg *gin.RouterGroup, users portssvc.UserSvc, items portssvc.ItemSvc, alerts portssvc.AlertSvc, commands portssvc.CommandSvc, cfg portssvc.ConfigSvc) {
	h := &adminHandler{
		userService:    users,
		itemService:    items,
		alertService:   alerts,
		commandService: commands,
		configService:  cfg,
	}

	admin := rg.Group("/admin", h.requireAdmin)
	{
		admin.GET("/alerts/freeze-suggestions", h.freezeSuggestions)
		admin.GET("/alerts/unfreeze-requests", h.unfreezeRequests)
		admin.GET("/alerts/item-requests", h.itemRequests)

		admin.POST("/items/:id/approve", h.approveItem)
		admin.POST("/items/:id/disapprove", h.disapproveItem)

		admin.GET("/users", h.listUsers)
		admin.PUT("/users/:id/status", h.setUserStatus)

		admin.GET("/config", h.getConfig)
		admin.PUT("/config/:key", h.editConfig)

		admin.GET("/history", h.history)
		admin.GET("/history/undoable", h.undoable)
		admin.POST("/history/:id/undo", h.undo)
	}
}

// requireAdmin aborts any request whose authenticated user is not an admin.
func (h *adminHandler) requireAdmin(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	isAdmin, err := h.userService.IsAdmin(c.Request.Context(), userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !isAdmin {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Admin route denied", slog.Int("user_id", userID))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}
	c.Next()
}

func (h *adminHandler) freezeSuggestions(c *gin.Context) {
	ids, err := h.alertService.FreezeSuggestions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userIDs": ids})
}

func (h *adminHandler) unfreezeRequests(c *gin.Context) {
	ids, err := h.alertService.UnfreezeRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userIDs": ids})
}

func (h *adminHandler) itemRequests(c *gin.Context) {
	items, err := h.alertService.AddItemRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

// approveItem goes through the command service so the approval lands in the
// audit history and can be undone.
func (h *adminHandler) approveItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	record, err := h.commandService.Do(c.Request.Context(), domain.ActionApproveItem, map[string]string{
		"itemID": strconv.Itoa(itemID),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"historyID": record.HistoryID})
}

func (h *adminHandler) disapproveItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if err := h.itemService.DisapproveItem(c.Request.Context(), itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *adminHandler) listUsers(c *gin.Context) {
	users, err := h.userService.AllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	c.JSON(http.StatusOK, out)
}

func (h *adminHandler) setUserStatus(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.userService.SetStatus(c.Request.Context(), userID, domain.UserStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *adminHandler) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.configService.All())
}

func (h *adminHandler) editConfig(c *gin.Context) {
	var req dto.EditConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.configService.Edit(c.Request.Context(), c.Param("key"), req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.configService.All())
}

func (h *adminHandler) history(c *gin.Context) {
	records, err := h.commandService.AllHistory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *adminHandler) undoable(c *gin.Context) {
	records, err := h.commandService.UndoPermissions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *adminHandler) undo(c *gin.Context) {
	historyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid history ID"})
		return
	}

	if err := h.commandService.Undo(c.Request.Context(), historyID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

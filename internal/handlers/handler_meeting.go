package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/dto"
	"github.com/SwapHands/item_trading_app/internal/middleware"
)

// meetingHandler exposes the meeting negotiation endpoints.
type meetingHandler struct {
	meetingService portssvc.MeetingSvc
}

func newMeetingHandler(ms portssvc.MeetingSvc) *meetingHandler {
	return &meetingHandler{meetingService: ms}
}

func registerMeetingRoutes(rg *gin.RouterGroup, meetingService portssvc.MeetingSvc) {
	h := newMeetingHandler(meetingService)

	meetings := rg.Group("/meetings")
	{
		meetings.PUT("/:id", h.edit)
		meetings.POST("/:id/agree", h.agree)
		meetings.POST("/:id/confirm", h.confirm)
		meetings.GET("/edit-turn", h.editTurn)
		meetings.GET("/confirmations", h.confirmations)
	}
}

func (h *meetingHandler) edit(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	meetingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meeting ID"})
		return
	}

	var req dto.EditMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	firstMeeting, err := h.meetingService.EditMeeting(c.Request.Context(), meetingID, userID, req.Time, req.Location)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"firstMeeting": firstMeeting})
}

func (h *meetingHandler) agree(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	meetingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meeting ID"})
		return
	}

	if err := h.meetingService.AgreeToMeeting(c.Request.Context(), meetingID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *meetingHandler) confirm(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	meetingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meeting ID"})
		return
	}

	if err := h.meetingService.MarkConducted(c.Request.Context(), meetingID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *meetingHandler) editTurn(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ids, err := h.meetingService.UsersEditTurn(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetingIDs": ids})
}

func (h *meetingHandler) confirmations(c *gin.Context) {
	pending, err := h.meetingService.ConfirmPermissions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

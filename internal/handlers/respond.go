package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SwapHands/item_trading_app/internal/apperrors"
	"github.com/SwapHands/item_trading_app/internal/core/domain"
	"github.com/SwapHands/item_trading_app/internal/dto"
)

// respondError maps service errors onto HTTP statuses. Validation-level
// policy errors surface with their message; everything unexpected collapses
// to a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func toUserResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		UserID:   u.UserID,
		Name:     u.Name,
		Status:   string(u.Status),
		Credit:   u.Credit,
		HomeCity: u.HomeCity,
	}
}

func toItemResponse(i *domain.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ItemID:      i.ItemID,
		Name:        i.Name,
		Description: i.Description,
		OwnerID:     i.OwnerID,
		HolderID:    i.HolderID,
		Price:       i.Price,
		ForSale:     i.ForSale,
		Reserved:    i.Reserved,
	}
}

func toItemResponses(items []*domain.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID: t.TransactionID,
		TradeIDs:      t.TradeIDs,
		MeetingIDs:    t.MeetingIDs,
		Permanent:     t.Permanent(),
		OneWay:        t.OneWay(),
	}
}

func toMeetingResponse(m *domain.Meeting) dto.MeetingResponse {
	return dto.MeetingResponse{
		MeetingID:     m.MeetingID,
		Time:          m.Time(),
		Location:      m.Location(),
		Agreed:        m.Agreed,
		Complete:      m.IsComplete(),
		SecondMeeting: m.SecondMeeting,
		LastEditorID:  m.LastEditor(),
	}
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SwapHands/item_trading_app/internal/core/ports/services"
	"github.com/SwapHands/item_trading_app/internal/dto"
	"github.com/SwapHands/item_trading_app/internal/middleware"
)

const defaultAnalyticsLimit = 3

// analyticsHandler serves trading statistics: frequent partners are scoped to
// the caller, the most-traded ranking is marketplace-wide.
type analyticsHandler struct {
	txnService portssvc.TransactionSvc
}

func newAnalyticsHandler(ts portssvc.TransactionSvc) *analyticsHandler {
	return &analyticsHandler{txnService: ts}
}

func registerAnalyticsRoutes(rg *gin.RouterGroup, txnService portssvc.TransactionSvc) {
	h := newAnalyticsHandler(txnService)

	analytics := rg.Group("/analytics")
	{
		analytics.GET("/frequent-partners", h.frequentPartners)
		analytics.GET("/most-traded-items", h.mostTradedItems)
	}
}

func limitParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.DefaultQuery("n", strconv.Itoa(defaultAnalyticsLimit)))
	if err != nil || n < 0 {
		return defaultAnalyticsLimit
	}
	return n
}

func (h *analyticsHandler) frequentPartners(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ids, freqs, err := h.txnService.FrequentPartners(c.Request.Context(), userID, limitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FrequencyListResponse{IDs: ids, Frequencies: freqs})
}

func (h *analyticsHandler) mostTradedItems(c *gin.Context) {
	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ids, freqs, err := h.txnService.MostTradedItems(c.Request.Context(), limitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FrequencyListResponse{IDs: ids, Frequencies: freqs})
}

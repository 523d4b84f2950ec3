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

// transactionHandler drives transactions through their lifecycle.
type transactionHandler struct {
	txnService     portssvc.TransactionSvc
	userService    portssvc.UserSvc
	commandService portssvc.CommandSvc
}

func newTransactionHandler(ts portssvc.TransactionSvc, us portssvc.UserSvc, cs portssvc.CommandSvc) *transactionHandler {
	return &transactionHandler{txnService: ts, userService: us, commandService: cs}
}

func registerTransactionRoutes(rg *gin.RouterGroup, txnService portssvc.TransactionSvc, userService portssvc.UserSvc, commandService portssvc.CommandSvc) {
	h := newTransactionHandler(txnService, userService, commandService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.initiate)
		txns.GET("/:id/agreed", h.checkAgree)
		txns.POST("/:id/meetings/:meetingID/perform", h.performMeeting)
		txns.DELETE("/:id", h.cancel)
	}
}

// initiate runs the whole trade setup through the command service, so the
// transaction can be undone while no meeting has happened.
func (h *transactionHandler) initiate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.InitiateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if req.BorrowerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Transactions can only be initiated by the borrowing side"})
		return
	}

	canBorrow, err := h.userService.CanBorrow(c.Request.Context(), req.BorrowerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canBorrow {
		c.JSON(http.StatusForbidden, gin.H{"error": "Borrowing is currently not allowed for this account"})
		return
	}
	canLend, err := h.userService.CanLend(c.Request.Context(), req.LenderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canLend {
		c.JSON(http.StatusForbidden, gin.H{"error": "The other party cannot lend right now"})
		return
	}

	record, err := h.commandService.Do(c.Request.Context(), domain.ActionInitiateTransaction, req.ToArgs())
	if err != nil {
		logger.Warn("Transaction initiation rejected", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	txnID, err := record.Int("transactionID")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transactionID": txnID, "historyID": record.HistoryID})
}

func (h *transactionHandler) checkAgree(c *gin.Context) {
	txnID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	agreed, err := h.txnService.CheckAgree(c.Request.Context(), txnID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agreed": agreed})
}

func (h *transactionHandler) performMeeting(c *gin.Context) {
	txnID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}
	meetingID, err := strconv.Atoi(c.Param("meetingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meeting ID"})
		return
	}

	if err := h.txnService.PerformMeeting(c.Request.Context(), txnID, meetingID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// cancel is admin only: it tears the transaction down and penalizes both
// parties. A transaction whose meetings are all agreed is past the point of
// cancellation.
func (h *transactionHandler) cancel(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	isAdmin, err := h.userService.IsAdmin(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	txnID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	agreed, err := h.txnService.CheckAgree(c.Request.Context(), txnID)
	if err != nil {
		respondError(c, err)
		return
	}
	if agreed {
		c.JSON(http.StatusConflict, gin.H{"error": "Transaction meetings have been agreed to and can no longer be cancelled"})
		return
	}

	if err := h.txnService.DeleteTransaction(c.Request.Context(), txnID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

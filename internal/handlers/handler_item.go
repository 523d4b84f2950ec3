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

// itemHandler handles the item catalogue and wishlists.
type itemHandler struct {
	itemService    portssvc.ItemSvc
	commandService portssvc.CommandSvc
}

func newItemHandler(is portssvc.ItemSvc, cs portssvc.CommandSvc) *itemHandler {
	return &itemHandler{itemService: is, commandService: cs}
}

func registerItemRoutes(rg *gin.RouterGroup, itemService portssvc.ItemSvc, commandService portssvc.CommandSvc) {
	h := newItemHandler(itemService, commandService)

	items := rg.Group("/items")
	{
		items.GET("", h.browse)
		items.GET("/recommended", h.recommended)
		items.GET("/mine", h.myItems)
		items.POST("", h.addItem)
	}

	wishlist := rg.Group("/wishlist")
	{
		wishlist.GET("", h.wishlist)
		wishlist.POST("/:itemID", h.addToWishlist)
		wishlist.DELETE("/:itemID", h.removeFromWishlist)
	}
}

func (h *itemHandler) browse(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	items, err := h.itemService.Browsable(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

func (h *itemHandler) recommended(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	items, err := h.itemService.Recommended(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

func (h *itemHandler) myItems(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	items, err := h.itemService.MyItems(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

func (h *itemHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	item, err := h.itemService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		logger.Error("Failed to add item", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemResponse(item))
}

func (h *itemHandler) wishlist(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	items, err := h.itemService.Wishlist(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponses(items))
}

// addToWishlist goes through the command service so admins can audit and undo
// it.
func (h *itemHandler) addToWishlist(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	itemID, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	record, err := h.commandService.Do(c.Request.Context(), domain.ActionAddToWishlist, map[string]string{
		"userID": strconv.Itoa(userID),
		"itemID": strconv.Itoa(itemID),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"historyID": record.HistoryID})
}

func (h *itemHandler) removeFromWishlist(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	itemID, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if err := h.itemService.RemoveFromWishlist(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

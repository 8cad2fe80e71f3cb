package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-service/database"
	"storefront-service/middleware"
	"storefront-service/models"
)

type CartController struct {
	Repo   *database.CartRepository
	Logger *zap.Logger
}

func NewCartController(repo *database.CartRepository, logger *zap.Logger) *CartController {
	return &CartController{Repo: repo, Logger: logger}
}

// GetCart returns the current cart for the authenticated user
func (cc *CartController) GetCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cart, err := cc.Repo.GetCart(c.Request.Context(), user.ID)
	if err != nil {
		cc.Logger.Error("Failed to get cart", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get cart"})
		return
	}

	if cart == nil {
		cart = &models.Cart{UserID: user.ID, Items: []models.CartItem{}}
	}

	c.JSON(http.StatusOK, cart)
}

// AddItem adds or updates an item in the cart
func (cc *CartController) AddItem(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	cart, err := cc.Repo.GetCart(ctx, user.ID)
	if err != nil {
		cc.Logger.Error("Failed to load cart", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}
	if cart == nil {
		cart = &models.Cart{UserID: user.ID, Items: []models.CartItem{}}
	}

	found := false
	for i, existing := range cart.Items {
		if existing.ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, item)
	}

	if err := cc.Repo.SaveCart(ctx, cart); err != nil {
		cc.Logger.Error("Failed to save cart", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveItem removes a specific item from the cart
func (cc *CartController) RemoveItem(c *gin.Context) {
	user := middleware.CurrentUser(c)
	productID := c.Param("product_id")
	ctx := c.Request.Context()

	cart, err := cc.Repo.GetCart(ctx, user.ID)
	if err != nil || cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	}

	newItems := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != productID {
			newItems = append(newItems, item)
		}
	}
	cart.Items = newItems

	if err := cc.Repo.SaveCart(ctx, cart); err != nil {
		cc.Logger.Error("Failed to update cart", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart removes the whole cart, typically after a completed checkout
func (cc *CartController) ClearCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := cc.Repo.DeleteCart(c.Request.Context(), user.ID); err != nil {
		cc.Logger.Error("Failed to clear cart", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/repository"
)

type OrdersController struct {
	Repo   repository.CatalogRepository
	Logger *zap.Logger
}

func NewOrdersController(repo repository.CatalogRepository, logger *zap.Logger) *OrdersController {
	return &OrdersController{Repo: repo, Logger: logger}
}

// ListOrders returns the caller's order history, newest first.
func (oc *OrdersController) ListOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orders, err := oc.Repo.OrdersByClerkID(c.Request.Context(), user.ID)
	if err != nil {
		oc.Logger.Error("Failed to fetch orders", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not load orders"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

package controllers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/services"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

type OrderController struct {
	Store store.Store
}

func NewOrderController(st store.Store) *OrderController {
	return &OrderController{Store: st}
}

func (oc *OrderController) loadOrders(c *gin.Context) ([]models.Order, error) {
	snap, err := oc.Store.Get(c.Request.Context(), services.OrdersCollection)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(snap))
	for key := range snap {
		var order models.Order
		if err := snap.Decode(key, &order); err != nil {
			utils.ErrorLogger.Printf("Skipping malformed order %s: %v", key, err)
			continue
		}
		orders = append(orders, order)
	}
	// newest first for the dashboards
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate > orders[j].OrderDate
	})
	return orders, nil
}

// GetAllOrders -> admin list of every order.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.loadOrders(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetMyOrders -> the signed-in user's orders.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	uid := userID(c)
	orders, err := oc.loadOrders(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mine := make([]models.Order, 0)
	for _, order := range orders {
		if order.UserID == uid {
			mine = append(mine, order)
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Your orders", mine)
}

// GetOrderByID -> detail of one order.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id := c.Param("order_id")

	snap, err := oc.Store.Get(c.Request.Context(), services.OrdersCollection)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var order models.Order
	if err := snap.Decode(id, &order); err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order %s not found", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> kitchen/admin workflow. Only status and assignedTo
// ever change on a placed order; items and amounts stay as written at
// checkout.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("order_id")

	var body struct {
		Status     string `json:"status" binding:"required,oneof=Placed Preparing Delivered Cancelled"`
		AssignedTo string `json:"assigned_to"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	fields := map[string]interface{}{"status": body.Status}
	if body.AssignedTo != "" {
		fields["assignedTo"] = body.AssignedTo
	}

	path := fmt.Sprintf("%s/%s", services.OrdersCollection, id)
	if err := oc.Store.Update(c.Request.Context(), path, fields); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", nil)
}

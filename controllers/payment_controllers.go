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

type PaymentController struct {
	Store store.Store
}

func NewPaymentController(st store.Store) *PaymentController {
	return &PaymentController{Store: st}
}

// GetAllPayments -> admin list of every payment record.
func (pc *PaymentController) GetAllPayments(c *gin.Context) {
	snap, err := pc.Store.Get(c.Request.Context(), services.PaymentsCollection)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	payments := make([]models.Payment, 0, len(snap))
	for key := range snap {
		var payment models.Payment
		if err := snap.Decode(key, &payment); err != nil {
			utils.ErrorLogger.Printf("Skipping malformed payment %s: %v", key, err)
			continue
		}
		payments = append(payments, payment)
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].Timestamp > payments[j].Timestamp
	})

	utils.RespondJSON(c, http.StatusOK, "List of payments", payments)
}

// GetPayment -> one payment by transaction id.
func (pc *PaymentController) GetPayment(c *gin.Context) {
	id := c.Param("transaction_id")

	snap, err := pc.Store.Get(c.Request.Context(), services.PaymentsCollection)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var payment models.Payment
	if err := snap.Decode(id, &payment); err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("payment %s not found", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}

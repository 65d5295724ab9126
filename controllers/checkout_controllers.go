package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spicehut/food-order-app/cart"
	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/services"
	"github.com/spicehut/food-order-app/utils"
)

type CheckoutController struct {
	Carts    *cart.Manager
	Checkout *services.CheckoutService
	Promos   *services.PromoService
}

func NewCheckoutController(carts *cart.Manager, checkout *services.CheckoutService, promos *services.PromoService) *CheckoutController {
	return &CheckoutController{Carts: carts, Checkout: checkout, Promos: promos}
}

// PlaceOrder -> run one checkout attempt for the session's cart. Runs
// behind optional auth: without a token this is a guest checkout.
func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		utils.RespondError(c, http.StatusBadRequest, errSessionRequired)
		return
	}

	var body struct {
		Name          string `json:"name" binding:"required"`
		Email         string `json:"email" binding:"required,email"`
		Phone         string `json:"phone" binding:"required"`
		Address       string `json:"address" binding:"required"`
		PaymentMethod string `json:"payment_method" binding:"required"`
		NewAddress    bool   `json:"new_address"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userCart := cc.Carts.Cart(session)

	// A promo is re-validated at the moment it counts, so a code that
	// expired between cart and checkout can't discount the order.
	var promo *services.AppliedPromo
	if applied := cc.Promos.Applied(session); applied != nil {
		fresh, err := cc.Promos.Apply(c.Request.Context(), applied.Promo.Code, userCart.Subtotal())
		if err != nil {
			cc.Promos.Remove(session)
			utils.RespondError(c, http.StatusUnprocessableEntity, err)
			return
		}
		promo = fresh
	}

	result, err := cc.Checkout.PlaceOrder(c.Request.Context(), userCart, services.CheckoutRequest{
		UserID: userID(c),
		Contact: models.Contact{
			Name:    body.Name,
			Email:   body.Email,
			Phone:   body.Phone,
			Address: body.Address,
		},
		PaymentMethod: body.PaymentMethod,
		NewAddress:    body.NewAddress,
		Promo:         promo,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, services.ErrCheckoutBusy):
			utils.RespondError(c, http.StatusConflict, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to place order, please try again"))
		}
		return
	}

	cc.Promos.Remove(session)
	utils.RespondJSON(c, http.StatusCreated, "Order placed successfully", result)
}

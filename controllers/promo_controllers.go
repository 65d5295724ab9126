package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spicehut/food-order-app/cart"
	"github.com/spicehut/food-order-app/services"
	"github.com/spicehut/food-order-app/utils"
)

type PromoController struct {
	Carts  *cart.Manager
	Promos *services.PromoService
}

func NewPromoController(carts *cart.Manager, promos *services.PromoService) *PromoController {
	return &PromoController{Carts: carts, Promos: promos}
}

// ApplyPromo -> validate a code against the offers collection and attach
// it to the session. Applying a second code replaces the first.
func (pc *PromoController) ApplyPromo(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		utils.RespondError(c, http.StatusBadRequest, errSessionRequired)
		return
	}

	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("please enter a promo code"))
		return
	}

	subtotal := pc.Carts.Cart(session).Subtotal()
	applied, err := pc.Promos.ApplyForSession(c.Request.Context(), session, body.Code, subtotal)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCode), errors.Is(err, services.ErrExpiredCode):
			utils.RespondError(c, http.StatusUnprocessableEntity, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	message := fmt.Sprintf("Promo code applied! You saved %s", utils.DisplayAmount(applied.DiscountAmount))
	utils.RespondJSON(c, http.StatusOK, message, applied)
}

// RemovePromo -> drop the session's promo; no store interaction, the
// discount just resets to zero.
func (pc *PromoController) RemovePromo(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		utils.RespondError(c, http.StatusBadRequest, errSessionRequired)
		return
	}

	pc.Promos.Remove(session)
	utils.RespondJSON(c, http.StatusOK, "Promo code removed", nil)
}

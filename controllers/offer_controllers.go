package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/services"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

type OfferController struct {
	Store store.Store
}

func NewOfferController(st store.Store) *OfferController {
	return &OfferController{Store: st}
}

type offerRequest struct {
	Code            string  `json:"code" binding:"required"`
	Description     string  `json:"description"`
	DiscountPercent float64 `json:"discount" binding:"required,gte=0,lte=100"`
	ExpiryDate      string  `json:"expiryDate" binding:"required"`
	Status          string  `json:"status" binding:"required,oneof=Active Inactive Expired"`
}

// GetAllOffers -> every promo record, with its store key.
func (oc *OfferController) GetAllOffers(c *gin.Context) {
	snap, err := oc.Store.Get(c.Request.Context(), services.OffersCollection)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type keyedOffer struct {
		ID string `json:"id"`
		models.PromoCode
	}
	offers := make([]keyedOffer, 0, len(snap))
	for key := range snap {
		var promo models.PromoCode
		if err := snap.Decode(key, &promo); err != nil {
			utils.ErrorLogger.Printf("Skipping malformed offer %s: %v", key, err)
			continue
		}
		offers = append(offers, keyedOffer{ID: key, PromoCode: promo})
	}

	utils.RespondJSON(c, http.StatusOK, "List of offers", offers)
}

// CreateOffer -> admin adds a promo record.
func (oc *OfferController) CreateOffer(c *gin.Context) {
	var body offerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	promo := models.PromoCode{
		Code:            body.Code,
		Description:     body.Description,
		DiscountPercent: body.DiscountPercent,
		ExpiryDate:      body.ExpiryDate,
		Status:          body.Status,
	}
	key, err := oc.Store.Push(c.Request.Context(), services.OffersCollection, promo)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Offer created", gin.H{"id": key})
}

// UpdateOffer -> admin patches a promo record.
func (oc *OfferController) UpdateOffer(c *gin.Context) {
	id := c.Param("offer_id")

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	path := fmt.Sprintf("%s/%s", services.OffersCollection, id)
	if err := oc.Store.Update(c.Request.Context(), path, fields); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Offer updated", nil)
}

// DeleteOffer -> admin removes a promo record.
func (oc *OfferController) DeleteOffer(c *gin.Context) {
	id := c.Param("offer_id")

	path := fmt.Sprintf("%s/%s", services.OffersCollection, id)
	if err := oc.Store.Delete(c.Request.Context(), path); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Offer deleted", nil)
}

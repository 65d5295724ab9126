package Controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/spicehut/food-order-app/controllers"
	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/services"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

func setupOfferRouter(st store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	offerCtrl := controllers.NewOfferController(st)
	router.GET("/admin/offers", offerCtrl.GetAllOffers)
	router.POST("/admin/offers", offerCtrl.CreateOffer)
	router.PATCH("/admin/offers/:offer_id", offerCtrl.UpdateOffer)
	router.DELETE("/admin/offers/:offer_id", offerCtrl.DeleteOffer)
	return router
}

func TestOfferCRUD(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	router := setupOfferRouter(st)

	payload := map[string]interface{}{
		"code":        "SAVE10",
		"description": "10% off everything",
		"discount":    10,
		"expiryDate":  "2099-12-31",
		"status":      "Active",
	}
	w := doJSON(router, "POST", "/admin/offers", "", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	offerID, ok := createResp["data"].(map[string]interface{})["id"].(string)
	assert.True(t, ok, "create must return the new offer id")

	w = doJSON(router, "GET", "/admin/offers", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var listResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	offers := listResp["data"].([]interface{})
	assert.Len(t, offers, 1)

	// patch only the status, the rest of the record stays
	w = doJSON(router, "PATCH", "/admin/offers/"+offerID, "", map[string]interface{}{
		"status": "Inactive",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	snap, err := st.Get(context.Background(), services.OffersCollection)
	assert.NoError(t, err)
	var promo models.PromoCode
	assert.NoError(t, snap.Decode(offerID, &promo))
	assert.Equal(t, models.PromoStatusInactive, promo.Status)
	assert.Equal(t, "SAVE10", promo.Code)
	assert.Equal(t, 10.0, promo.DiscountPercent)

	w = doJSON(router, "DELETE", "/admin/offers/"+offerID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	snap, err = st.Get(context.Background(), services.OffersCollection)
	assert.NoError(t, err)
	assert.Empty(t, snap)
}

func TestCreateOfferValidation(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	router := setupOfferRouter(st)

	// discount over 100
	w := doJSON(router, "POST", "/admin/offers", "", map[string]interface{}{
		"code": "BIG", "discount": 150, "expiryDate": "2099-12-31", "status": "Active",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// status outside the enum
	w = doJSON(router, "POST", "/admin/offers", "", map[string]interface{}{
		"code": "ODD", "discount": 10, "expiryDate": "2099-12-31", "status": "Paused",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

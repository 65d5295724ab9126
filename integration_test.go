package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/spicehut/food-order-app/cart"
	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/realtime"
	"github.com/spicehut/food-order-app/router"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main storefront flow:
// 1. Admin logs in, publishes a menu item and an offer
// 2. A guest fills a cart and applies the promo
// 3. Guest checks out -> order + payment recorded, cart emptied
// 4. Admin sees the order and the payment
func TestEndToEndIntegration(t *testing.T) {
	db := setupIntegrationDB()
	st := store.NewGormStore(db)
	hub := realtime.NewHub()
	defer hub.BindStore(st)()

	r := router.SetupRouter(router.Deps{
		DB:    db,
		Store: st,
		Carts: cart.NewManager(cart.NewMemoryStorage()),
		Hub:   hub,
	})

	token := loginTest(t, r)

	productID := createMenuTest(t, r, token)
	createOfferTest(t, r, token)

	addToCartTest(t, r, productID)
	applyPromoTest(t, r)

	orderID := checkoutTest(t, r)

	verifyAdminViewsTest(t, r, token, orderID)
}

func setupIntegrationDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Document{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		UID:      uuid.NewString(),
		Name:     "Test Admin",
		Email:    "admin@example.com",
		Password: string(hashedPassword),
		Role:     "admin",
	})
	return db
}

func request(r *gin.Engine, method, url string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v (body %s)", err, w.Body.String())
	}
	data, _ := resp["data"].(map[string]interface{})
	return data
}

func loginTest(t *testing.T, r *gin.Engine) string {
	w := request(r, http.MethodPost, "/login", map[string]string{
		"email":    "admin@example.com",
		"password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	token, _ := decodeData(t, w)["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func createMenuTest(t *testing.T, r *gin.Engine, token string) string {
	w := request(r, http.MethodPost, "/admin/menus", map[string]interface{}{
		"name":        "Feast Box",
		"category":    "Mains",
		"price":       400,
		"description": "A full celebration spread",
	}, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusCreated, w.Code)

	product := decodeData(t, w)
	id, _ := product["id"].(string)
	assert.NotEmpty(t, id)

	// the public menu shows it straight away
	w = request(r, http.MethodGet, "/menus", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	return id
}

func createOfferTest(t *testing.T, r *gin.Engine, token string) {
	w := request(r, http.MethodPost, "/admin/offers", map[string]interface{}{
		"code":       "WELCOME10",
		"discount":   10,
		"expiryDate": "2099-12-31",
		"status":     "Active",
	}, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func addToCartTest(t *testing.T, r *gin.Engine, productID string) {
	w := request(r, http.MethodPost, "/cart/items", map[string]interface{}{
		"product_id": productID,
	}, map[string]string{"X-Session-ID": "device-42"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func applyPromoTest(t *testing.T, r *gin.Engine) {
	w := request(r, http.MethodPost, "/cart/promo", map[string]interface{}{
		"code": "welcome10",
	}, map[string]string{"X-Session-ID": "device-42"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func checkoutTest(t *testing.T, r *gin.Engine) string {
	w := request(r, http.MethodPost, "/checkout", map[string]interface{}{
		"name":           "Walk In",
		"email":          "walkin@example.com",
		"phone":          "9876543210",
		"address":        "12 MG Road, Bengaluru",
		"payment_method": "UPI",
	}, map[string]string{"X-Session-ID": "device-42"})
	assert.Equal(t, http.StatusCreated, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "succeeded", data["state"])

	amounts, _ := data["amounts"].(map[string]interface{})
	assert.Equal(t, 400.0, amounts["subtotal"])
	assert.Equal(t, 40.0, amounts["discount"])
	assert.Equal(t, 378.0, amounts["total"])

	orderID, _ := data["order_id"].(string)
	assert.NotEmpty(t, orderID)

	// cart is empty now
	w = request(r, http.MethodGet, "/cart", nil, map[string]string{"X-Session-ID": "device-42"})
	assert.Equal(t, http.StatusOK, w.Code)
	items, _ := decodeData(t, w)["items"].([]interface{})
	assert.Empty(t, items)

	return orderID
}

func verifyAdminViewsTest(t *testing.T, r *gin.Engine, token, orderID string) {
	auth := map[string]string{"Authorization": "Bearer " + token}

	w := request(r, http.MethodGet, "/admin/orders/"+orderID, nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	order := decodeData(t, w)
	assert.Equal(t, models.GuestUserID, order["userId"])
	assert.Equal(t, 378.0, order["totalAmount"])

	w = request(r, http.MethodGet, "/admin/payments", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	payments, _ := resp["data"].([]interface{})
	assert.Len(t, payments, 1)
	payment := payments[0].(map[string]interface{})
	assert.Equal(t, orderID, payment["orderId"])
	assert.Equal(t, "Success", payment["status"])
}

package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spicehut/food-order-app/cart"
	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/services"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

// ProductsCollection is where the menu lives in the document store.
const ProductsCollection = "products"

type CartController struct {
	Carts  *cart.Manager
	Store  store.Store
	Promos *services.PromoService
}

func NewCartController(carts *cart.Manager, st store.Store, promos *services.PromoService) *CartController {
	return &CartController{Carts: carts, Store: st, Promos: promos}
}

// GetCart -> current line items plus the full amount breakdown, including
// the session's applied promo if any.
func (cc *CartController) GetCart(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		utils.RespondError(c, http.StatusBadRequest, errSessionRequired)
		return
	}

	userCart := cc.Carts.Cart(session)
	items := userCart.Items()

	var discountPercent float64
	applied := cc.Promos.Applied(session)
	if applied != nil {
		discountPercent = applied.Promo.DiscountPercent
	}
	amounts := cart.Price(items, discountPercent)

	utils.RespondJSON(c, http.StatusOK, "Cart", gin.H{
		"items":   items,
		"amounts": amounts,
		"promo":   applied,
	})
}

// AddItem -> put one unit of a product in the cart. The response message
// tells "added" apart from "increased quantity" so the UI can toast the
// right thing.
func (cc *CartController) AddItem(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		utils.RespondError(c, http.StatusBadRequest, errSessionRequired)
		return
	}

	var body struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	snap, err := cc.Store.Get(c.Request.Context(), ProductsCollection)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	var product models.Product
	if err := snap.Decode(body.ProductID, &product); err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("product %s not found", body.ProductID))
		return
	}
	product.ID = body.ProductID

	userCart := cc.Carts.Cart(session)
	result := userCart.Add(product)

	message := fmt.Sprintf("%s added to cart", product.Name)
	if result == cart.IncreasedQuantity {
		message = fmt.Sprintf("Increased quantity of %s", product.Name)
	}
	utils.RespondJSON(c, http.StatusOK, message, gin.H{
		"items": userCart.Items(),
	})
}

// UpdateItem -> set a line's quantity; below 1 removes the line.
func (cc *CartController) UpdateItem(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		utils.RespondError(c, http.StatusBadRequest, errSessionRequired)
		return
	}

	var body struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userCart := cc.Carts.Cart(session)
	userCart.UpdateQuantity(c.Param("product_id"), *body.Quantity)

	utils.RespondJSON(c, http.StatusOK, "Cart updated", gin.H{
		"items": userCart.Items(),
	})
}

// RemoveItem -> delete a line; removing an absent line is still a 200.
func (cc *CartController) RemoveItem(c *gin.Context) {
	session := sessionID(c)
	if session == "" {
		utils.RespondError(c, http.StatusBadRequest, errSessionRequired)
		return
	}

	userCart := cc.Carts.Cart(session)
	userCart.Remove(c.Param("product_id"))

	utils.RespondJSON(c, http.StatusOK, "Item removed from cart", gin.H{
		"items": userCart.Items(),
	})
}

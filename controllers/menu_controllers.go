package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

type MenuController struct {
	Store store.Store
}

func NewMenuController(st store.Store) *MenuController {
	return &MenuController{Store: st}
}

// GetAllProducts -> the menu, optionally filtered by category.
func (mc *MenuController) GetAllProducts(c *gin.Context) {
	snap, err := mc.Store.Get(c.Request.Context(), ProductsCollection)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	category := c.Query("category")
	products := make([]models.Product, 0, len(snap))
	for key := range snap {
		var p models.Product
		if err := snap.Decode(key, &p); err != nil {
			utils.ErrorLogger.Printf("Skipping malformed product %s: %v", key, err)
			continue
		}
		p.ID = key
		if category != "" && p.Category != category {
			continue
		}
		products = append(products, p)
	}

	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// GetProduct -> one menu entry.
func (mc *MenuController) GetProduct(c *gin.Context) {
	id := c.Param("product_id")

	snap, err := mc.Store.Get(c.Request.Context(), ProductsCollection)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var p models.Product
	if err := snap.Decode(id, &p); err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("product %s not found", id))
		return
	}
	p.ID = id

	utils.RespondJSON(c, http.StatusOK, "Product detail", p)
}

// CreateProduct -> admin adds a menu entry.
func (mc *MenuController) CreateProduct(c *gin.Context) {
	var body struct {
		Name        string  `json:"name" binding:"required"`
		Category    string  `json:"category" binding:"required"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		Description string  `json:"description"`
		ImageURL    string  `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	key := store.NewKey()
	product := models.Product{
		ID:          key,
		Name:        body.Name,
		Category:    body.Category,
		Price:       body.Price,
		Description: body.Description,
		ImageURL:    body.ImageURL,
	}
	if err := mc.Store.Set(c.Request.Context(), ProductsCollection+"/"+key, product); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// UpdateProduct -> admin patches fields of a menu entry.
func (mc *MenuController) UpdateProduct(c *gin.Context) {
	id := c.Param("product_id")

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	delete(fields, "id")

	if err := mc.Store.Update(c.Request.Context(), ProductsCollection+"/"+id, fields); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product updated", nil)
}

// DeleteProduct -> admin removes a menu entry.
func (mc *MenuController) DeleteProduct(c *gin.Context) {
	id := c.Param("product_id")

	if err := mc.Store.Delete(c.Request.Context(), ProductsCollection+"/"+id); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product deleted", nil)
}

package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

type UserController struct {
	DB    *gorm.DB
	Store store.Store
}

func NewUserController(db *gorm.DB, st store.Store) *UserController {
	return &UserController{DB: db, Store: st}
}

// Register a new account. Customers self-register; staff roles are
// assigned by an admin afterwards.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Phone    string `json:"phone"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		UID:      uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Phone:    req.Phone,
		Role:     "customer",
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s", user.Email)
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"uid": user.UID,
	})
}

// Login -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.UID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"role":  strings.ToLower(user.Role),
	})
}

// GetProfile -> the signed-in user's account.
func (uc *UserController) GetProfile(c *gin.Context) {
	uid := userID(c)

	var user models.User
	if err := uc.DB.Where("uid = ?", uid).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile", user)
}

// GetAddresses -> the user's saved delivery addresses, for the checkout
// address picker.
func (uc *UserController) GetAddresses(c *gin.Context) {
	uid := userID(c)

	path := fmt.Sprintf("users/%s/addresses", uid)
	snap, err := uc.Store.Get(c.Request.Context(), path)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type savedAddress struct {
		ID      string `json:"id"`
		Address string `json:"address"`
	}
	addresses := make([]savedAddress, 0, len(snap))
	for key, raw := range snap {
		var addr string
		if err := json.Unmarshal(raw, &addr); err != nil {
			continue
		}
		addresses = append(addresses, savedAddress{ID: key, Address: addr})
	}

	utils.RespondJSON(c, http.StatusOK, "Saved addresses", addresses)
}

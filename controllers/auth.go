package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=6"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"`
	Role        string `json:"role" binding:"omitempty,oneof=customer salon_owner"`
	Gender      string `json:"gender" binding:"omitempty,oneof=male female"`
	Language    string `json:"language" binding:"omitempty,oneof=ar en"`
	Preferences string `json:"preferences"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	store        storage.Storage
	secret       string
	ttl          time.Duration
	secureCookie bool
	log          *zap.Logger
}

func NewAuthController(store storage.Storage, secret string, ttl time.Duration, secureCookie bool, log *zap.Logger) *AuthController {
	return &AuthController{store: store, secret: secret, ttl: ttl, secureCookie: secureCookie, log: log}
}

// controllers/auth.go
func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}

	user := models.User{
		Username:    strings.TrimSpace(input.Username),
		Password:    hash,
		Name:        input.Name,
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		PhoneNumber: input.PhoneNumber,
		Role:        input.Role,
		Gender:      input.Gender,
		Language:    input.Language,
		Preferences: input.Preferences,
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if user.Language == "" {
		user.Language = "ar"
	}

	if err := ac.store.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			utils.RespondWithError(c, http.StatusBadRequest, utils.MsgUserExists)
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}

	token, ok := ac.startSession(c, &user)
	if !ok {
		return
	}
	ac.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", user.Role))

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput)
		return
	}

	ctx := c.Request.Context()
	user, err := ac.store.GetUserByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, utils.MsgInvalidCredentials)
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		}
		return
	}
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, utils.MsgInvalidCredentials)
		return
	}

	now := time.Now()
	if err := ac.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		ac.log.Warn("update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	token, ok := ac.startSession(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (ac *AuthController) Logout(c *gin.Context) {
	utils.ClearSessionCookie(c, ac.secureCookie)
	c.JSON(http.StatusOK, gin.H{"message": utils.MsgLoggedOut})
}

func (ac *AuthController) Me(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) startSession(c *gin.Context, user *models.User) (string, bool) {
	token, err := utils.GenerateToken(ac.secret, user.ID, user.Role, ac.ttl)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return "", false
	}
	utils.SetSessionCookie(c, token, ac.ttl, ac.secureCookie)
	return token, true
}

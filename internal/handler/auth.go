package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"site-diary/internal/logger"
	"site-diary/internal/model"
	"site-diary/internal/service"
)

type AuthHandler struct {
	auth     *service.AuthService
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthHandler(auth *service.AuthService, secret []byte, ttlDays int) *AuthHandler {
	if ttlDays <= 0 {
		ttlDays = 7
	}
	return &AuthHandler{auth: auth, secret: secret, tokenTTL: time.Duration(ttlDays) * 24 * time.Hour}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("register.ok", "uid", u.ID, "email", u.Email)
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login.failed", "email", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	logger.Info("login.ok", "uid", u.ID, "name", u.Name)

	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  u.ID.String(),
		"name": u.Name,
		"exp":  time.Now().Add(h.tokenTTL).Unix(),
	}).SignedString(h.secret)

	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: *u})
}

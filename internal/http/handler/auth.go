package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"giftstore/internal/auth"
	"giftstore/internal/config"
	basichttp "giftstore/internal/http"
	mw "giftstore/internal/http/middleware"
	"giftstore/internal/model"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		basichttp.Fail(c, http.StatusUnprocessableEntity, "invalid payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	var u model.User
	if err := h.db.Where("username = ? AND deleted_at IS NULL", req.Username).First(&u).Error; err != nil {
		basichttp.Fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		basichttp.Fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	now := time.Now()
	ip := c.ClientIP()
	h.db.Model(&u).Updates(map[string]any{"last_login_at": &now, "last_ip": &ip})

	token, err := auth.Sign(h.cfg.JWTSecret, u.ID, u.IsSuperadmin, h.cfg.JWTTTL)
	if err != nil {
		basichttp.Fail(c, http.StatusInternalServerError, "failed to sign token")
		return
	}
	if h.cfg.CookieName != "" {
		c.SetCookie(h.cfg.CookieName, token, int(h.cfg.JWTTTL), "/", "", true, true)
	}

	basichttp.OK(c, "", gin.H{"user": u, "access_token": token})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	uid, ok := c.Get(mw.CtxUserID)
	if !ok {
		basichttp.Fail(c, http.StatusUnauthorized, "missing user")
		return
	}
	var u model.User
	if err := h.db.First(&u, "id = ? AND deleted_at IS NULL", uid).Error; err != nil {
		basichttp.Fail(c, http.StatusNotFound, "user not found")
		return
	}
	basichttp.OK(c, "", u)
}

package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"giftstore/internal/config"
	"giftstore/internal/db"
	basichttp "giftstore/internal/http"
	"giftstore/internal/http/handler"
	mw "giftstore/internal/http/middleware"
	"giftstore/internal/model"
	"giftstore/internal/service"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	database, err := db.Open(cfg)
	if err != nil {
		zap.L().Fatal("failed to open database", zap.Error(err))
	}

	if err := db.AutoMigrate(database); err != nil {
		zap.L().Fatal("failed to run automigrate", zap.Error(err))
	}

	// Auto-create admin user if configured and no users exist
	if cfg.AdminInitUser != "" && cfg.AdminInitPass != "" {
		var userCount int64
		database.Model(&model.User{}).Count(&userCount)
		if userCount == 0 {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminInitPass), bcrypt.DefaultCost)
			if err != nil {
				zap.L().Fatal("failed to hash admin password", zap.Error(err))
			}

			adminUser := &model.User{
				Username:     cfg.AdminInitUser,
				PasswordHash: string(hashedPassword),
				IsSuperadmin: true,
				Status:       0,
			}

			if err := database.Create(adminUser).Error; err != nil {
				zap.L().Fatal("failed to create admin user", zap.Error(err))
			}

			zap.L().Info("Admin user created successfully", zap.String("username", cfg.AdminInitUser))
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger())
	r.Use(mw.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(mw.CORS())
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Next()
	})

	// The storefront expects 405 on wrong-method calls to the issuance
	// endpoint rather than gin's default 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		basichttp.Fail(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	issuer := service.NewIssuer(database)
	mailer := service.NewSMTPMailer(cfg)

	authH := handler.NewAuthHandler(database, cfg)
	giftH := handler.NewGiftCardHandler(database, cfg, issuer, mailer)

	api := r.Group("/api")

	api.POST("/login", authH.Login)
	api.POST("/gift-cards/send", giftH.Send)

	authed := api.Group("")
	authed.Use(mw.RequireAuth(cfg.JWTSecret))
	authed.GET("/profile", authH.Profile)
	authed.POST("/gift-cards/generate", mw.RequirePerm(database, "MANAGE_GIFT_CARDS"), giftH.Generate)
	authed.GET("/gift-cards", mw.RequirePerm(database, "MANAGE_GIFT_CARDS"), giftH.List)
	authed.GET("/gift-cards/by-code/:code", mw.RequirePerm(database, "MANAGE_GIFT_CARDS"), giftH.GetByCode)

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	if err := http.ListenAndServe(addr, r); err != nil {
		zap.L().Fatal("server error", zap.Error(err))
	}
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"giftstore/internal/config"
	basichttp "giftstore/internal/http"
	"giftstore/internal/model"
	"giftstore/internal/service"
)

type GiftCardHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	issuer *service.Issuer
	mailer service.Mailer
}

func NewGiftCardHandler(db *gorm.DB, cfg *config.Config, issuer *service.Issuer, mailer service.Mailer) *GiftCardHandler {
	return &GiftCardHandler{db: db, cfg: cfg, issuer: issuer, mailer: mailer}
}

// GenerateGiftCardsRequest carries an issuance request. Quantity is a
// pointer so an absent field defaults to 1 while an explicit 0 is rejected
// by validation.
type GenerateGiftCardsRequest struct {
	Value     int     `json:"value"`
	Quantity  *int    `json:"quantity"`
	Note      *string `json:"note"`
	CreatedBy string  `json:"createdBy"`
}

func (h *GiftCardHandler) Generate(c *gin.Context) {
	var req GenerateGiftCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Error("malformed gift card generation request", zap.Error(err))
		basichttp.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cards, err := h.issuer.Issue(req.Value, quantity, req.Note, req.CreatedBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidValue),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrMissingIssuer):
			basichttp.Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPersistence):
			zap.L().Error("gift card batch insert failed", zap.Error(err))
			basichttp.Fail(c, http.StatusInternalServerError, "Failed to create gift cards")
		default:
			zap.L().Error("gift card generation failed", zap.Error(err))
			basichttp.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	basichttp.OK(c, fmt.Sprintf("Successfully generated %d gift card(s)", quantity), cards)
}

type SendGiftCardRequest struct {
	RecipientEmail string  `json:"recipientEmail"`
	Code           string  `json:"code"`
	Amount         int     `json:"amount"`
	BuyerEmail     *string `json:"buyerEmail"`
	Message        *string `json:"message"`
}

// Send renders the gift card notification mail and hands it to the delivery
// provider. Pure formatting plus one provider call; no store access.
func (h *GiftCardHandler) Send(c *gin.Context) {
	var req SendGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Error("malformed gift card email request", zap.Error(err))
		basichttp.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.RecipientEmail == "" || req.Code == "" || req.Amount == 0 {
		basichttp.Fail(c, http.StatusBadRequest, "Missing required fields: recipientEmail, code, amount")
		return
	}

	message := ""
	if req.Message != nil {
		message = *req.Message
	}

	subject := service.GiftCardEmailSubject(req.Amount)
	body := service.GiftCardEmailHTML(req.Code, req.Amount, message)
	if err := h.mailer.Send(req.RecipientEmail, subject, body); err != nil {
		basichttp.Fail(c, http.StatusInternalServerError, "An error occurred while sending the gift card email")
		return
	}

	basichttp.OK(c, "Gift card email sent successfully", nil)
}

// List returns gift cards for the admin back office, newest first.
func (h *GiftCardHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "page_size", 20)
	if size > 100 {
		size = 100
	}

	var total int64
	var items []model.GiftCard
	q := h.db.Model(&model.GiftCard{})

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if value := c.Query("value"); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			q = q.Where("value = ?", v)
		}
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		q = q.Where("created_by = ?", createdBy)
	}

	q.Count(&total)
	if err := q.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&items).Error; err != nil {
		basichttp.Fail(c, http.StatusInternalServerError, "query failed")
		return
	}

	basichttp.OK(c, "", gin.H{
		"total":     total,
		"items":     items,
		"page":      page,
		"page_size": size,
	})
}

func (h *GiftCardHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	var card model.GiftCard
	if err := h.db.First(&card, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			basichttp.Fail(c, http.StatusNotFound, "Gift card not found")
			return
		}
		basichttp.Fail(c, http.StatusInternalServerError, "query failed")
		return
	}
	basichttp.OK(c, "", card)
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

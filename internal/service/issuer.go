package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"giftstore/internal/model"
)

// ValidGiftCardValues is the fixed set of denominations a card can carry.
var ValidGiftCardValues = []int{10, 20, 25, 30, 50, 75, 100, 150}

// MaxBatchSize caps how many cards one issuance request may create.
const MaxBatchSize = 100

var (
	ErrInvalidValue    = fmt.Errorf("Invalid value. Must be one of: %s", joinInts(ValidGiftCardValues))
	ErrInvalidQuantity = fmt.Errorf("Invalid quantity. Must be between 1 and %d", MaxBatchSize)
	ErrMissingIssuer   = errors.New("Creator ID is required")
	ErrStoreLookup     = errors.New("failed to check gift card code uniqueness")
	ErrPersistence     = errors.New("failed to create gift cards")
)

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

func isValidValue(value int) bool {
	for _, v := range ValidGiftCardValues {
		if v == value {
			return true
		}
	}
	return false
}

// Issuer creates gift card batches. It holds no mutable state of its own;
// concurrent batches are arbitrated by the unique index on gift_cards.code.
type Issuer struct {
	db *gorm.DB

	// nextCode is swappable so tests can force collisions without a live
	// random source.
	nextCode func() (string, error)
}

func NewIssuer(db *gorm.DB) *Issuer {
	s := &Issuer{db: db}
	s.nextCode = func() (string, error) {
		return NextUniqueCode(func(code string) (bool, error) {
			return CodeExists(s.db, code)
		})
	}
	return s
}

// Issue validates the request, generates quantity unique codes one at a time
// and persists the whole batch in a single multi-row insert. The insert is
// the atomicity boundary: on any failure zero cards are committed.
//
// Validation is evaluated in order; the first failure wins.
func (s *Issuer) Issue(value, quantity int, note *string, createdBy string) ([]model.GiftCard, error) {
	if !isValidValue(value) {
		return nil, ErrInvalidValue
	}
	if quantity <= 0 || quantity > MaxBatchSize {
		return nil, ErrInvalidQuantity
	}
	if strings.TrimSpace(createdBy) == "" {
		return nil, ErrMissingIssuer
	}

	cards := make([]model.GiftCard, 0, quantity)
	for i := 0; i < quantity; i++ {
		code, err := s.nextCode()
		if err != nil {
			if errors.Is(err, ErrCodeSpaceExhausted) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrStoreLookup, err)
		}
		cards = append(cards, model.GiftCard{
			Code:      code,
			Value:     value,
			Status:    model.GiftCardStatusInactive,
			CreatedBy: createdBy,
			Note:      note,
		})
	}

	// GORM wraps the multi-row insert in a transaction, so a failure here,
	// including a code collision lost to a concurrent batch, commits nothing.
	if err := s.db.Create(&cards).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return cards, nil
}

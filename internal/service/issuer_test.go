package service

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"giftstore/internal/model"
)

func setupIssuerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal("Failed to connect to test database:", err)
	}
	if sqlDB, err2 := db.DB(); err2 == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&model.GiftCard{}); err != nil {
		t.Fatal("Failed to migrate test database:", err)
	}
	return db
}

func cardCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&model.GiftCard{}).Count(&count).Error; err != nil {
		t.Fatal("Failed to count gift cards:", err)
	}
	return count
}

func TestIssueCreatesBatch(t *testing.T) {
	db := setupIssuerDB(t)
	issuer := NewIssuer(db)

	note := "holiday promo"
	cards, err := issuer.Issue(50, 3, &note, "admin1")
	if err != nil {
		t.Fatal("Issue should not return an error:", err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}

	seen := make(map[string]struct{})
	for _, card := range cards {
		if !codeFormat.MatchString(card.Code) {
			t.Errorf("code %q does not match expected format", card.Code)
		}
		if _, dup := seen[card.Code]; dup {
			t.Errorf("duplicate code %q within batch", card.Code)
		}
		seen[card.Code] = struct{}{}
		if card.Value != 50 {
			t.Errorf("expected value 50, got %d", card.Value)
		}
		if card.Status != model.GiftCardStatusInactive {
			t.Errorf("expected status inactive, got %q", card.Status)
		}
		if card.CreatedBy != "admin1" {
			t.Errorf("expected created_by admin1, got %q", card.CreatedBy)
		}
		if card.Note == nil || *card.Note != note {
			t.Error("note should be carried onto every card")
		}
	}

	if got := cardCount(t, db); got != 3 {
		t.Errorf("expected 3 persisted cards, got %d", got)
	}
}

func TestIssueQuantityBounds(t *testing.T) {
	db := setupIssuerDB(t)
	issuer := NewIssuer(db)

	if _, err := issuer.Issue(10, 0, nil, "admin1"); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("quantity 0: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := issuer.Issue(10, 101, nil, "admin1"); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("quantity 101: expected ErrInvalidQuantity, got %v", err)
	}
	if got := cardCount(t, db); got != 0 {
		t.Fatalf("invalid quantity must not write, found %d cards", got)
	}

	if _, err := issuer.Issue(10, 1, nil, "admin1"); err != nil {
		t.Errorf("quantity 1 should succeed: %v", err)
	}
	if _, err := issuer.Issue(10, 100, nil, "admin1"); err != nil {
		t.Errorf("quantity 100 should succeed: %v", err)
	}
	if got := cardCount(t, db); got != 101 {
		t.Errorf("expected 101 persisted cards, got %d", got)
	}
}

func TestIssueRejectsInvalidValue(t *testing.T) {
	db := setupIssuerDB(t)
	issuer := NewIssuer(db)

	for _, value := range []int{0, -10, 15, 40, 1000} {
		if _, err := issuer.Issue(value, 1, nil, "admin1"); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("value %d: expected ErrInvalidValue, got %v", value, err)
		}
	}
	if got := cardCount(t, db); got != 0 {
		t.Errorf("invalid value must not write, found %d cards", got)
	}
}

func TestIssueAcceptsEveryDenomination(t *testing.T) {
	db := setupIssuerDB(t)
	issuer := NewIssuer(db)

	for _, value := range ValidGiftCardValues {
		cards, err := issuer.Issue(value, 1, nil, "admin1")
		if err != nil {
			t.Errorf("value %d should be accepted: %v", value, err)
			continue
		}
		if cards[0].Value != value {
			t.Errorf("expected value %d, got %d", value, cards[0].Value)
		}
	}
}

func TestIssueRequiresCreator(t *testing.T) {
	db := setupIssuerDB(t)
	issuer := NewIssuer(db)

	for _, createdBy := range []string{"", "   "} {
		if _, err := issuer.Issue(50, 1, nil, createdBy); !errors.Is(err, ErrMissingIssuer) {
			t.Errorf("createdBy %q: expected ErrMissingIssuer, got %v", createdBy, err)
		}
	}
	if got := cardCount(t, db); got != 0 {
		t.Errorf("missing creator must not write, found %d cards", got)
	}
}

func TestIssueValidationOrder(t *testing.T) {
	db := setupIssuerDB(t)
	issuer := NewIssuer(db)

	// Everything is wrong; value must be reported first, then quantity.
	if _, err := issuer.Issue(7, 0, nil, ""); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue first, got %v", err)
	}
	if _, err := issuer.Issue(50, 0, nil, ""); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity before ErrMissingIssuer, got %v", err)
	}
}

func TestIssueSkipsTakenCodes(t *testing.T) {
	db := setupIssuerDB(t)

	// Pre-seed a card, then force the issuer to offer its code first.
	taken := "GC-AAAA-BBBB-CCCC"
	if err := db.Create(&model.GiftCard{
		Code: taken, Value: 10, Status: model.GiftCardStatusActive, CreatedBy: "seed",
	}).Error; err != nil {
		t.Fatal("failed to seed card:", err)
	}

	issuer := NewIssuer(db)
	candidates := []string{taken, "GC-DDDD-EEEE-FFFF"}
	i := 0
	// Scripted generator probing the real CodeExists: the first candidate
	// is taken, the second is free.
	issuer.nextCode = func() (string, error) {
		for {
			code := candidates[i]
			i++
			exists, err := CodeExists(db, code)
			if err != nil {
				return "", err
			}
			if !exists {
				return code, nil
			}
		}
	}

	cards, err := issuer.Issue(25, 1, nil, "admin1")
	if err != nil {
		t.Fatal("Issue should not return an error:", err)
	}
	if cards[0].Code != "GC-DDDD-EEEE-FFFF" {
		t.Errorf("expected the second candidate, got %q", cards[0].Code)
	}
}

func TestIssueSurfacesLookupFailure(t *testing.T) {
	db := setupIssuerDB(t)
	issuer := NewIssuer(db)
	issuer.nextCode = func() (string, error) {
		return "", errors.New("store unavailable")
	}

	if _, err := issuer.Issue(50, 2, nil, "admin1"); !errors.Is(err, ErrStoreLookup) {
		t.Errorf("expected ErrStoreLookup, got %v", err)
	}
	if got := cardCount(t, db); got != 0 {
		t.Errorf("lookup failure must not write, found %d cards", got)
	}
}

func TestIssueBulkInsertIsAtomic(t *testing.T) {
	db := setupIssuerDB(t)
	issuer := NewIssuer(db)

	// Hand out the same code twice: the second row violates the unique
	// index mid-insert and the whole batch must roll back.
	i := 0
	issuer.nextCode = func() (string, error) {
		i++
		if i == 2 {
			return "GC-AAAA-AAAA-0001", nil
		}
		return fmt.Sprintf("GC-AAAA-AAAA-%04d", i), nil
	}

	_, err := issuer.Issue(50, 3, nil, "admin1")
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if got := cardCount(t, db); got != 0 {
		t.Errorf("failed bulk insert must commit nothing, found %d cards", got)
	}
}

func TestIssuePassesThroughExhaustion(t *testing.T) {
	db := setupIssuerDB(t)
	issuer := NewIssuer(db)
	issuer.nextCode = func() (string, error) {
		return "", ErrCodeSpaceExhausted
	}

	if _, err := issuer.Issue(50, 1, nil, "admin1"); !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Errorf("expected ErrCodeSpaceExhausted, got %v", err)
	}
}

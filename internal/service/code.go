package service

import (
	"crypto/rand"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"giftstore/internal/model"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// maxCodeAttempts bounds the uniqueness loop. At 36^12 possible codes a
// collision streak this long means the store is lying, not that we are
// unlucky.
const maxCodeAttempts = 64

// ErrCodeSpaceExhausted is returned when no unused code was found within
// maxCodeAttempts candidates.
var ErrCodeSpaceExhausted = errors.New("could not find an unused gift card code")

// GenerateGiftCardCode produces one candidate code of the form
// GC-XXXX-XXXX-XXXX, each X drawn uniformly from 0-9A-Z. Stateless; every
// call is an independent draw.
func GenerateGiftCardCode() string {
	chars := make([]byte, 12)
	for i := range chars {
		chars[i] = codeAlphabet[randAlphabetIndex()]
	}
	return fmt.Sprintf("GC-%s-%s-%s", chars[0:4], chars[4:8], chars[8:12])
}

func randAlphabetIndex() int {
	// Rejection sampling keeps the draw uniform over 36 symbols.
	var b [1]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			panic("failed to read random bytes: " + err.Error())
		}
		if int(b[0]) < 252 { // largest multiple of 36 below 256
			return int(b[0]) % 36
		}
	}
}

// NextUniqueCode generates candidates until the exists predicate reports one
// as free. Predicate failures propagate unchanged; the caller decides how to
// surface them. The check is advisory only: the unique index on
// gift_cards.code remains the final arbiter at insert time.
func NextUniqueCode(exists func(code string) (bool, error)) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := GenerateGiftCardCode()
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// CodeExists reports whether a gift card with the given code is already
// persisted. Status is deliberately ignored: a code is never reused, even
// after the card it belongs to is redeemed or expired.
func CodeExists(db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.Model(&model.GiftCard{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

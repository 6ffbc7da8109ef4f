package service

import (
	"errors"
	"regexp"
	"testing"
)

var codeFormat = regexp.MustCompile(`^GC-[0-9A-Z]{4}-[0-9A-Z]{4}-[0-9A-Z]{4}$`)

func TestGenerateGiftCardCodeFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := GenerateGiftCardCode()
		if !codeFormat.MatchString(code) {
			t.Fatalf("code %q does not match expected format", code)
		}
	}
}

func TestGenerateGiftCardCodeDistinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		code := GenerateGiftCardCode()
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code %q in 1000 draws", code)
		}
		seen[code] = struct{}{}
	}
}

func TestNextUniqueCodeFirstFree(t *testing.T) {
	calls := 0
	code, err := NextUniqueCode(func(string) (bool, error) {
		calls++
		return false, nil
	})
	if err != nil {
		t.Fatal("should not return an error:", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 lookup, got %d", calls)
	}
	if !codeFormat.MatchString(code) {
		t.Errorf("code %q does not match expected format", code)
	}
}

func TestNextUniqueCodeRetriesUntilFree(t *testing.T) {
	// First three candidates are reported taken, the fourth is free.
	calls := 0
	code, err := NextUniqueCode(func(string) (bool, error) {
		calls++
		return calls <= 3, nil
	})
	if err != nil {
		t.Fatal("should not return an error:", err)
	}
	if calls != 4 {
		t.Errorf("expected 4 lookups, got %d", calls)
	}
	if !codeFormat.MatchString(code) {
		t.Errorf("code %q does not match expected format", code)
	}
}

func TestNextUniqueCodePropagatesLookupError(t *testing.T) {
	boom := errors.New("store unavailable")
	_, err := NextUniqueCode(func(string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected lookup error to propagate, got %v", err)
	}
}

func TestNextUniqueCodeExhaustion(t *testing.T) {
	calls := 0
	_, err := NextUniqueCode(func(string) (bool, error) {
		calls++
		return true, nil
	})
	if !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Errorf("expected ErrCodeSpaceExhausted, got %v", err)
	}
	if calls != maxCodeAttempts {
		t.Errorf("expected %d attempts, got %d", maxCodeAttempts, calls)
	}
}

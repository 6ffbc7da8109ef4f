package service

import (
	"strings"
	"testing"

	"giftstore/internal/config"
)

func TestGiftCardEmailSubject(t *testing.T) {
	subject := GiftCardEmailSubject(75)
	if subject != "Your $75 Gift Card from Syrian Hands Store" {
		t.Errorf("unexpected subject: %q", subject)
	}
}

func TestGiftCardEmailHTML(t *testing.T) {
	body := GiftCardEmailHTML("GC-AB12-CD34-EF56", 50, "")
	if !strings.Contains(body, "GC-AB12-CD34-EF56") {
		t.Error("body should contain the code")
	}
	if !strings.Contains(body, "$50") {
		t.Error("body should contain the amount")
	}
	if strings.Contains(body, "font-style: italic") {
		t.Error("body should not contain a personal message block when none was given")
	}
}

func TestGiftCardEmailHTMLEscapesMessage(t *testing.T) {
	body := GiftCardEmailHTML("GC-AB12-CD34-EF56", 50, `<script>alert("hi")</script>`)
	if strings.Contains(body, "<script>") {
		t.Error("buyer-provided message must be escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("escaped message should still be present")
	}
}

func TestSMTPMailerUnconfiguredLogsOnly(t *testing.T) {
	mailer := NewSMTPMailer(&config.Config{})
	if err := mailer.Send("buyer@example.com", "subject", "<p>body</p>"); err != nil {
		t.Error("unconfigured mailer should simulate success:", err)
	}
}

package service

import (
	"fmt"
	"html/template"
	"net/smtp"

	"go.uber.org/zap"

	"giftstore/internal/config"
)

// Mailer delivers one HTML email to a single recipient.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through the SMTP relay configured in the
// environment. With no SMTP_HOST set it degrades to logging the payload and
// reporting success, so non-production environments can exercise the flow.
type SMTPMailer struct {
	cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.cfg.SMTPHost == "" {
		zap.L().Info("smtp not configured, logging mail instead of sending",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" && m.cfg.SMTPPassword != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", m.cfg.SMTPSender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			htmlBody,
	)
	if err := smtp.SendMail(addr, auth, m.cfg.SMTPSender, []string{to}, msg); err != nil {
		zap.L().Error("smtp send failed", zap.String("to", to), zap.Error(err))
		return err
	}
	zap.L().Info("email sent", zap.String("to", to), zap.String("via", addr))
	return nil
}

// GiftCardEmailSubject builds the subject line for a gift card notification.
func GiftCardEmailSubject(amount int) string {
	return fmt.Sprintf("Your $%d Gift Card from Syrian Hands Store", amount)
}

// GiftCardEmailHTML renders the notification mail body for an issued gift
// card. The optional personal message is buyer-provided and gets escaped.
func GiftCardEmailHTML(code string, amount int, message string) string {
	personal := ""
	if message != "" {
		personal = fmt.Sprintf(`<p style="font-style: italic; margin-top: 20px;">%s</p>`,
			template.HTMLEscapeString(message))
	}
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
      <div style="text-align: center; margin-bottom: 20px;">
        <h1 style="color: #122567; margin-top: 20px;">Your Gift Card is Ready!</h1>
      </div>

      <div style="background-color: #f9f9f9; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
        <h2 style="color: #122567; margin-top: 0;">Gift Card Details</h2>
        <p style="font-size: 18px; margin-bottom: 10px;">Amount: <strong>$%d</strong></p>
        <div style="background-color: #122567; color: white; padding: 15px; text-align: center; font-size: 24px; letter-spacing: 2px; border-radius: 6px; margin: 15px 0;">
          %s
        </div>
        <p style="color: #666;">Use this code during checkout to apply your gift card balance.</p>
        %s
      </div>

      <div style="margin-top: 30px; color: #666; font-size: 14px; text-align: center;">
        <p>Thank you for your purchase!</p>
        <p>If you have any questions, please contact our customer support.</p>
      </div>
    </div>
  `, amount, code, personal)
}

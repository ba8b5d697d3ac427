package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/username/tradefolio/src/config"
	"github.com/username/tradefolio/src/logger"
	"github.com/username/tradefolio/src/models"
)

// NewEmailService picks the mail backend from configuration. Unknown
// providers fall back to the mock sender so local development never
// needs credentials.
func NewEmailService(cfg *config.AppConfig) EmailService {
	switch strings.ToLower(cfg.EmailServiceProvider) {
	case "mailgun":
		return newMailgunEmailService(cfg)
	case "smtp":
		return &smtpEmailService{cfg: cfg}
	default:
		return &mockEmailService{}
	}
}

func monthlySummarySubject(view models.MonthView) string {
	month := time.Month(view.MonthIndex + 1)
	return fmt.Sprintf("Your trading summary for %s %d", month, view.Year)
}

// monthlySummaryBody renders a plain-text recap of the month from its
// week buckets.
func monthlySummaryBody(username string, view models.MonthView) string {
	var totalPnL float64
	var tradeCount int
	for _, day := range view.DayBuckets {
		totalPnL += day.TotalPnL
		tradeCount += day.TradeCount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", username)
	fmt.Fprintf(&b, "Here is your recap for %s %d:\n\n", time.Month(view.MonthIndex+1), view.Year)
	fmt.Fprintf(&b, "Total trades: %d\n", tradeCount)
	fmt.Fprintf(&b, "Net P&L: %.2f\n\n", totalPnL)
	for _, week := range view.WeekBuckets {
		if week.TradeCount == 0 {
			continue
		}
		line := fmt.Sprintf("Week %d (%s to %s): %d trades, P&L %.2f",
			week.WeekIndex+1, week.StartDate, week.EndDate, week.TradeCount, week.TotalPnL)
		if week.WinRate != nil {
			line += fmt.Sprintf(", win rate %d%%", *week.WinRate)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\nKeep journaling,\nTradefolio\n")
	return b.String()
}

type mailgunEmailService struct {
	mg          *mailgun.MailgunImpl
	senderEmail string
	senderName  string
}

func newMailgunEmailService(cfg *config.AppConfig) *mailgunEmailService {
	return &mailgunEmailService{
		mg:          mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunPrivateAPIKey),
		senderEmail: cfg.SenderEmail,
		senderName:  cfg.SenderName,
	}
}

func (s *mailgunEmailService) SendMonthlySummaryEmail(ctx context.Context, recipientEmail, username string, view models.MonthView) error {
	sender := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	message := s.mg.NewMessage(sender, monthlySummarySubject(view), monthlySummaryBody(username, view), recipientEmail)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, id, err := s.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send summary email via mailgun: %w", err)
	}
	logger.L.Info("monthly summary email sent", "provider", "mailgun", "messageID", id, "recipient", recipientEmail)
	return nil
}

type smtpEmailService struct {
	cfg *config.AppConfig
}

func (s *smtpEmailService) SendMonthlySummaryEmail(_ context.Context, recipientEmail, username string, view models.MonthView) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPServer, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPServer)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.cfg.SenderName, s.cfg.SenderEmail),
		fmt.Sprintf("To: %s", recipientEmail),
		fmt.Sprintf("Subject: %s", monthlySummarySubject(view)),
		"",
		monthlySummaryBody(username, view),
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, s.cfg.SenderEmail, []string{recipientEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send summary email via smtp: %w", err)
	}
	logger.L.Info("monthly summary email sent", "provider", "smtp", "recipient", recipientEmail)
	return nil
}

// mockEmailService only logs; used in development and tests.
type mockEmailService struct{}

func (s *mockEmailService) SendMonthlySummaryEmail(_ context.Context, recipientEmail, username string, view models.MonthView) error {
	logger.L.Info("mock email: monthly summary",
		"recipient", recipientEmail,
		"username", username,
		"subject", monthlySummarySubject(view))
	return nil
}

package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/config"
)

// EmailService sends transactional mail through SendGrid. Without an
// API key it runs in mock mode and only logs.
type EmailService struct {
	logger   *zap.Logger
	config   config.EmailConfig
	client   *sendgrid.Client
	mockMode bool
}

func NewEmailService(cfg config.EmailConfig, logger *zap.Logger) *EmailService {
	mockMode := cfg.APIKey == ""

	var client *sendgrid.Client
	if !mockMode {
		client = sendgrid.NewSendClient(cfg.APIKey)
	}

	return &EmailService{
		logger:   logger,
		config:   cfg,
		client:   client,
		mockMode: mockMode,
	}
}

func (e *EmailService) sendEmail(ctx context.Context, to, subject, htmlContent, textContent string) error {
	if e.mockMode {
		e.logger.Info("Email sent (MOCK)",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	toEmail := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, toEmail, textContent, htmlContent)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	response, err := e.client.SendWithContext(ctxWithTimeout, message)
	if err != nil {
		e.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		e.logger.Error("Email service returned error",
			zap.String("to", to),
			zap.Int("status_code", response.StatusCode),
			zap.String("response_body", response.Body))
		return fmt.Errorf("email service error: status %d", response.StatusCode)
	}

	e.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("status_code", response.StatusCode))
	return nil
}

// SendAlertTriggered notifies a user that their price alert fired
func (e *EmailService) SendAlertTriggered(ctx context.Context, user *entities.User, alert *entities.Alert, price decimal.Decimal) error {
	direction := "risen above"
	if alert.Condition == entities.AlertConditionBelow {
		direction = "dropped below"
	}

	subject := fmt.Sprintf("Price alert: %s %s $%s", alert.Symbol, direction, alert.TargetPrice.StringFixed(2))

	textContent := fmt.Sprintf(
		"Hi %s,\n\n%s (%s) has %s your target of $%s. The current price is $%s.\n\nThis alert has now been triggered and will not fire again unless you re-arm it.\n\nCoinfolio",
		user.Name, alert.Name, alert.Symbol, direction, alert.TargetPrice.StringFixed(2), price.StringFixed(2))

	htmlContent := fmt.Sprintf(`
		<h2>Price Alert Triggered</h2>
		<p>Hi %s,</p>
		<p><strong>%s (%s)</strong> has %s your target of <strong>$%s</strong>.</p>
		<p>Current price: <strong>$%s</strong></p>
		<p>This alert has now been triggered and will not fire again unless you re-arm it.</p>
		<p>Coinfolio</p>`,
		user.Name, alert.Name, alert.Symbol, direction, alert.TargetPrice.StringFixed(2), price.StringFixed(2))

	return e.sendEmail(ctx, user.Email, subject, htmlContent, textContent)
}

// SendWelcome greets a newly registered user
func (e *EmailService) SendWelcome(ctx context.Context, user *entities.User) error {
	subject := "Welcome to Coinfolio"

	textContent := fmt.Sprintf(
		"Hi %s,\n\nYour account is ready. A default portfolio has been created for you, add your first holding to start tracking.\n\nCoinfolio",
		user.Name)

	htmlContent := fmt.Sprintf(`
		<h2>Welcome to Coinfolio</h2>
		<p>Hi %s,</p>
		<p>Your account is ready. A default portfolio has been created for you, add your first holding to start tracking.</p>
		<p>Coinfolio</p>`,
		user.Name)

	return e.sendEmail(ctx, user.Email, subject, htmlContent, textContent)
}

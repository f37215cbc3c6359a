package sms

import (
	"context"
	"fmt"

	"ridepool/internal/config"
	"ridepool/pkg/logger"
)

const (
	ProviderSNS    = "sns"
	ProviderTwilio = "twilio"
	ProviderNone   = "none"

	TypeTransactional = "transactional"
	TypePromotional   = "promotional"
)

// SMSProvider texts riders who have a phone number but no device
// registered for push notifications.
type SMSProvider interface {
	SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error)
}

type SMSRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	Type    string `json:"type"` // transactional, promotional
}

type SMSResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

func New(ctx context.Context, cfg *config.SMSConfig, log *logger.Logger) (SMSProvider, error) {
	switch cfg.Provider {
	case ProviderSNS:
		return NewAWSSNSProvider(ctx, cfg.SNS.Region, cfg.SNS.SenderID)
	case ProviderTwilio:
		if cfg.Twilio.AccountSID == "" || cfg.Twilio.FromNumber == "" {
			return nil, fmt.Errorf("twilio sms needs an account sid and a from number")
		}
		return NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber), nil
	case ProviderNone, "":
		return NewLogProvider(log), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.Provider)
	}
}

type LogProvider struct {
	logger *logger.Logger
}

func NewLogProvider(log *logger.Logger) *LogProvider {
	return &LogProvider{logger: log}
}

func (p *LogProvider) SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error) {
	p.logger.WithFields(map[string]interface{}{
		"to":      maskNumber(request.To),
		"message": request.Message,
	}).Debug("sms skipped")
	return &SMSResponse{Status: "skipped"}, nil
}

// maskNumber keeps the last four digits.
func maskNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	masked := make([]byte, len(number))
	for i := range number {
		if i < len(number)-4 && number[i] >= '0' && number[i] <= '9' {
			masked[i] = '*'
		} else {
			masked[i] = number[i]
		}
	}
	return string(masked)
}

package push

import (
	"context"
	"fmt"

	"ridepool/internal/config"
	"ridepool/pkg/logger"
)

const (
	ProviderFCM  = "fcm"
	ProviderAPNS = "apns"
	ProviderNone = "none"
)

type PushProvider interface {
	SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error)
}

type NotificationRequest struct {
	Token       string            `json:"token"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data,omitempty"`
	Priority    string            `json:"priority,omitempty"`
	TTL         int               `json:"ttl,omitempty"`
	CollapseKey string            `json:"collapse_key,omitempty"`
}

type NotificationResponse struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Token     string `json:"token,omitempty"`
}

// New builds the provider named in cfg. "none" logs notifications instead
// of delivering them.
func New(ctx context.Context, cfg *config.PushConfig, log *logger.Logger) (PushProvider, error) {
	switch cfg.Provider {
	case ProviderFCM:
		return NewFCMProvider(ctx, cfg.FCM.Credentials)
	case ProviderAPNS:
		return NewAPNSProvider(cfg.APNS.KeyFile, cfg.APNS.KeyID, cfg.APNS.TeamID, cfg.APNS.BundleID, cfg.APNS.Production)
	case ProviderNone, "":
		return NewLogProvider(log), nil
	default:
		return nil, fmt.Errorf("unknown push provider %q", cfg.Provider)
	}
}

type LogProvider struct {
	logger *logger.Logger
}

func NewLogProvider(log *logger.Logger) *LogProvider {
	return &LogProvider{logger: log}
}

func (p *LogProvider) SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error) {
	p.logger.WithFields(map[string]interface{}{
		"title": request.Title,
		"body":  request.Body,
	}).Debug("push notification skipped")
	return &NotificationResponse{Success: true, Token: request.Token}, nil
}

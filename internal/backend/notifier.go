package backend

import (
	"context"
	"encoding/json"
	"time"

	"ridepool/internal/models"
	"ridepool/pkg/logger"
	"ridepool/pkg/push"
	"ridepool/pkg/sms"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier pushes events to connected clients. The websocket handler
// implements it.
type Notifier interface {
	SendRideUpdate(rideID primitive.ObjectID, updateType string, data map[string]interface{})
	SendUserNotification(userID primitive.ObjectID, notificationType string, data map[string]interface{})
}

type nopNotifier struct{}

func (nopNotifier) SendRideUpdate(primitive.ObjectID, string, map[string]interface{})       {}
func (nopNotifier) SendUserNotification(primitive.ObjectID, string, map[string]interface{}) {}

// eventData flattens a model into the map carried by realtime events, so
// clients can decode it back into the same model.
func eventData(v interface{}) map[string]interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return data
}

// DeviceAlert is an out-of-app notice about a ride request.
type DeviceAlert struct {
	Title       string
	Body        string
	Data        map[string]string
	CollapseKey string
}

// DeviceNotifier reaches users outside the app: push when the user has a
// registered device, SMS when only a phone number is known.
type DeviceNotifier struct {
	push   push.PushProvider
	sms    sms.SMSProvider
	logger *logger.Logger
	// sync delivers inline; tests use it.
	sync bool
}

func NewDeviceNotifier(pushProvider push.PushProvider, smsProvider sms.SMSProvider, log *logger.Logger) *DeviceNotifier {
	return &DeviceNotifier{push: pushProvider, sms: smsProvider, logger: log}
}

// Notify delivers the alert without holding up the request. It reports
// the channel used, or "" when the user cannot be reached.
func (d *DeviceNotifier) Notify(user *models.User, alert *DeviceAlert) string {
	if d == nil || user == nil {
		return ""
	}

	var channel string
	var deliver func(ctx context.Context) error
	switch {
	case user.PushToken != "" && d.push != nil:
		channel = "push"
		req := &push.NotificationRequest{
			Token:       user.PushToken,
			Title:       alert.Title,
			Body:        alert.Body,
			Data:        alert.Data,
			Priority:    "high",
			CollapseKey: alert.CollapseKey,
		}
		deliver = func(ctx context.Context) error {
			_, err := d.push.SendNotification(ctx, req)
			return err
		}
	case user.Phone != "" && d.sms != nil:
		channel = "sms"
		req := &sms.SMSRequest{
			To:      user.Phone,
			Message: alert.Title + ": " + alert.Body,
			Type:    sms.TypeTransactional,
		}
		deliver = func(ctx context.Context) error {
			_, err := d.sms.SendSMS(ctx, req)
			return err
		}
	default:
		return ""
	}

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := deliver(ctx); err != nil {
			d.logger.WithError(err).WithField("channel", channel).Warn("Device notification failed")
		}
	}
	if d.sync {
		run()
	} else {
		go run()
	}
	return channel
}

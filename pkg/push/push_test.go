package push

import (
	"context"
	"testing"

	"ridepool/internal/config"
	"ridepool/pkg/logger"

	"github.com/sideshow/apns2"
)

func TestBuildAPNSNotification(t *testing.T) {
	n := buildAPNSNotification(&NotificationRequest{
		Token:       "device",
		Title:       "Request accepted",
		Body:        "See you at Main St",
		Data:        map[string]string{"ride_id": "abc"},
		Priority:    "high",
		CollapseKey: "ride-abc",
	}, "app.ridepool")

	if n.Topic != "app.ridepool" || n.DeviceToken != "device" || n.CollapseID != "ride-abc" {
		t.Fatalf("unexpected notification %+v", n)
	}
	if n.Priority != apns2.PriorityHigh {
		t.Fatalf("priority = %d", n.Priority)
	}
	payload := n.Payload.(map[string]interface{})
	if payload["ride_id"] != "abc" {
		t.Fatalf("custom data missing: %v", payload)
	}
	alert := payload["aps"].(map[string]interface{})["alert"].(map[string]interface{})
	if alert["title"] != "Request accepted" {
		t.Fatalf("alert = %v", alert)
	}
}

func TestBuildFCMMessage(t *testing.T) {
	m := buildFCMMessage(&NotificationRequest{Token: "t", Title: "x", TTL: 60})
	if m.Token != "t" || m.Notification == nil || m.Notification.Title != "x" {
		t.Fatalf("unexpected message %+v", m)
	}
	if m.Android.TTL == nil || m.Android.TTL.Seconds() != 60 {
		t.Fatalf("ttl not set: %+v", m.Android)
	}
}

func TestNewNoneProvider(t *testing.T) {
	p, err := New(context.Background(), &config.PushConfig{Provider: ProviderNone}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.SendNotification(context.Background(), &NotificationRequest{Token: "t"})
	if err != nil || !resp.Success {
		t.Fatalf("log provider: %v %+v", err, resp)
	}
}

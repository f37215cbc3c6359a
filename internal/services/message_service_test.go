package services

import (
	"context"
	"errors"
	"testing"

	"ridepool/internal/models"
	"ridepool/pkg/api"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSendFailureRollsBack(t *testing.T) {
	existing := models.Message{ID: primitive.NewObjectID(), Content: "see you at 8", Status: models.MessageStatusSent}
	fake := &fakeAPI{messages: []models.Message{existing}, sendErr: api.ErrNetwork, sendGate: make(chan struct{})}
	thread := NewMessageService(fake, primitive.NewObjectID(), nil).Thread(primitive.NewObjectID())
	ctx := context.Background()

	if err := thread.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := thread.Send(ctx, "running late")
		done <- err
	}()

	// While the send is in flight the placeholder is visible.
	waitFor(t, func() bool { return len(thread.Messages()) == 2 })
	if m := thread.Messages()[1]; m.Status != models.MessageStatusSending || m.Content != "running late" {
		t.Fatalf("placeholder = %+v", m)
	}

	close(fake.sendGate)
	if err := <-done; !errors.Is(err, api.ErrNetwork) {
		t.Fatalf("err = %v", err)
	}

	msgs := thread.Messages()
	if len(msgs) != 1 || msgs[0].ID != existing.ID {
		t.Fatalf("after failure = %+v", msgs)
	}
}

func TestSendSuccessReplacesPlaceholder(t *testing.T) {
	fake := &fakeAPI{}
	thread := NewMessageService(fake, primitive.NewObjectID(), nil).Thread(primitive.NewObjectID())

	sent, err := thread.Send(context.Background(), "  on my way  ")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	msgs := thread.Messages()
	if len(msgs) != 1 || msgs[0].ID != sent.ID || msgs[0].Status != models.MessageStatusSent {
		t.Fatalf("messages = %+v", msgs)
	}
	if msgs[0].Content != "on my way" {
		t.Fatalf("content = %q", msgs[0].Content)
	}
}

func TestSendEmptyMessageRejected(t *testing.T) {
	fake := &fakeAPI{}
	thread := NewMessageService(fake, primitive.NewObjectID(), nil).Thread(primitive.NewObjectID())

	if _, err := thread.Send(context.Background(), "   "); err == nil {
		t.Fatal("expected validation error")
	}
	if len(fake.Calls()) != 0 || len(thread.Messages()) != 0 {
		t.Fatalf("calls = %v, messages = %v", fake.Calls(), thread.Messages())
	}
}

func TestReloadDuringFailedSendLeavesNoGhost(t *testing.T) {
	existing := models.Message{ID: primitive.NewObjectID(), Content: "see you at 8", Status: models.MessageStatusSent}
	fake := &fakeAPI{messages: []models.Message{existing}, sendErr: api.ErrNetwork, sendGate: make(chan struct{})}
	thread := NewMessageService(fake, primitive.NewObjectID(), nil).Thread(primitive.NewObjectID())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := thread.Send(ctx, "running late")
		done <- err
	}()
	waitFor(t, func() bool { return len(thread.Messages()) == 1 })

	// A reload while the send is in flight keeps the placeholder.
	if err := thread.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if msgs := thread.Messages(); len(msgs) != 2 || msgs[1].Status != models.MessageStatusSending {
		t.Fatalf("during send = %+v", msgs)
	}

	close(fake.sendGate)
	<-done

	if err := thread.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if msgs := thread.Messages(); len(msgs) != 1 || msgs[0].ID != existing.ID {
		t.Fatalf("after reload = %+v", msgs)
	}
}

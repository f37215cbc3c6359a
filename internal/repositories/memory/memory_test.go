package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRideRequestCreateRejectsActiveDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRequestRepository()
	rideID, riderID := primitive.NewObjectID(), primitive.NewObjectID()

	first := &models.RideRequest{RideID: rideID, RiderID: riderID, JoiningStop: "A", EndingStop: "B"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := repo.Create(ctx, &models.RideRequest{RideID: rideID, RiderID: riderID, JoiningStop: "A", EndingStop: "B"})
	var dup *interfaces.DuplicateRequestError
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if dup.Existing.ID != first.ID || !dup.Existing.RequestedAt.Equal(first.RequestedAt) {
		t.Fatalf("duplicate should carry the existing request, got %+v", dup.Existing)
	}

	// A different rider on the same ride is fine.
	if err := repo.Create(ctx, &models.RideRequest{RideID: rideID, RiderID: primitive.NewObjectID()}); err != nil {
		t.Fatalf("other rider: %v", err)
	}
}

func TestRideRequestRejectedDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRequestRepository()
	rideID, riderID := primitive.NewObjectID(), primitive.NewObjectID()

	first := &models.RideRequest{RideID: rideID, RiderID: riderID, RequestedAt: time.Now().Add(-time.Hour)}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	if !first.Active {
		t.Fatal("new request not marked active")
	}
	updated, err := repo.UpdateStatus(ctx, first.ID, models.RideRequestStatusRejected)
	if err != nil {
		t.Fatal(err)
	}
	if updated.RespondedAt == nil {
		t.Fatal("responded_at not set")
	}
	if updated.Active {
		t.Fatal("rejected request still marked active")
	}

	second := &models.RideRequest{RideID: rideID, RiderID: riderID}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("rejected request should not block: %v", err)
	}

	latest, err := repo.GetLatest(ctx, rideID, riderID)
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != second.ID {
		t.Fatalf("latest = %s, want %s", latest.ID.Hex(), second.ID.Hex())
	}

	if _, err := repo.GetLatest(ctx, rideID, primitive.NewObjectID()); !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRideUpdateAppliesFieldMap(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepository()
	ride := &models.Ride{StartLocation: "Campus", EndLocation: "Downtown", SeatsAvailable: 3, Stops: []models.Stop{{Name: "Mall"}}}
	if err := repo.Create(ctx, ride); err != nil {
		t.Fatal(err)
	}

	if err := repo.Update(ctx, ride.ID, map[string]interface{}{"seats_available": 2}); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetByID(ctx, ride.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SeatsAvailable != 2 || got.StartLocation != "Campus" || len(got.Stops) != 1 {
		t.Fatalf("unexpected ride after update: %+v", got)
	}

	if err := repo.Update(ctx, primitive.NewObjectID(), map[string]interface{}{"fare": 1.0}); !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRideSearchMatchesStops(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepository()
	now := time.Now()
	later := &models.Ride{StartLocation: "Campus", EndLocation: "Airport", StartTime: now.Add(2 * time.Hour)}
	sooner := &models.Ride{StartLocation: "Harbor", EndLocation: "Airport", StartTime: now.Add(time.Hour), Stops: []models.Stop{{Name: "Campus Gate"}}}
	done := &models.Ride{StartLocation: "Campus", EndLocation: "Airport", Status: models.RideStatusCompleted}
	for _, r := range []*models.Ride{later, sooner, done} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	rides, err := repo.Search(ctx, &models.RideSearchParams{From: "campus", To: "airport"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rides) != 2 || rides[0].ID != sooner.ID || rides[1].ID != later.ID {
		t.Fatalf("unexpected search result: %+v", rides)
	}
}

func TestUserEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	if err := repo.Create(ctx, &models.User{Email: "ana@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, &models.User{Email: "ANA@example.com"}); !errors.Is(err, interfaces.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}
	u, err := repo.GetByEmail(ctx, "Ana@Example.com")
	if err != nil || u.Email != "ana@example.com" {
		t.Fatalf("lookup: %v %+v", err, u)
	}
}

func TestCreateMessageBumpsConversation(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository()
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()
	conv := &models.Conversation{Participants: []primitive.ObjectID{alice, bob}}
	if err := repo.CreateConversation(ctx, conv); err != nil {
		t.Fatal(err)
	}

	msg := &models.Message{ConversationID: conv.ID, SenderID: alice, Content: "on my way"}
	if err := repo.CreateMessage(ctx, msg); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetConversationByID(ctx, conv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastMessage == nil || got.LastMessage.Content != "on my way" {
		t.Fatalf("last message not set: %+v", got.LastMessage)
	}

	err = repo.CreateMessage(ctx, &models.Message{ConversationID: primitive.NewObjectID(), Content: "x"})
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("expected not found for unknown conversation, got %v", err)
	}

	mine, _ := repo.GetConversationsByParticipant(ctx, bob)
	if len(mine) != 1 {
		t.Fatalf("bob should see one conversation, got %d", len(mine))
	}
}

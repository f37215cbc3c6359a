package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/models"
	"ridepool/pkg/api"
	"ridepool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "data": data})
}

func TestRequestShowsExistingRequestWithoutResending(t *testing.T) {
	rideID := primitive.NewObjectID()
	requestedAt := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	var posted bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			posted = true
			w.WriteHeader(http.StatusInternalServerError)
		case strings.HasSuffix(r.URL.Path, "/requests/mine"):
			writeData(w, models.RideRequest{
				ID:          primitive.NewObjectID(),
				RideID:      rideID,
				Status:      models.RideRequestStatusPending,
				RequestedAt: requestedAt,
			})
		default:
			writeData(w, models.Ride{ID: rideID, StartLocation: "Utrecht", EndLocation: "Amsterdam", SeatsAvailable: 2})
		}
	}))
	defer srv.Close()

	var out bytes.Buffer
	a := &app{
		cfg:    &config.Config{App: &config.AppConfig{Timezone: "UTC"}},
		logger: logger.Nop(),
		client: api.New(&config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil, logger.Nop()),
		out:    &out,
	}

	err := runRequest(context.Background(), a, []string{"-ride", rideID.Hex(), "-join", "Utrecht", "-end", "Amsterdam"})
	if err != nil {
		t.Fatalf("runRequest: %v", err)
	}
	if posted {
		t.Fatal("an existing request was submitted again")
	}
	if want := "You already requested to join this ride on Apr 2, 2026 at 09:00."; !strings.Contains(out.String(), want) {
		t.Fatalf("output = %q", out.String())
	}
}

package api

import (
	"context"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (c *Client) ListRideHistory(ctx context.Context) ([]models.RideHistory, error) {
	var history []models.RideHistory
	if err := c.get(ctx, "/ride-history", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *Client) CreateRideHistory(ctx context.Context, req *models.CreateRideHistory) (*models.RideHistory, error) {
	var history models.RideHistory
	if err := c.post(ctx, "/ride-history", req, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

func (c *Client) UpdateRideHistory(ctx context.Context, historyID primitive.ObjectID, req *models.UpdateRideHistory) (*models.RideHistory, error) {
	var history models.RideHistory
	if err := c.put(ctx, "/ride-history/"+historyID.Hex(), req, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

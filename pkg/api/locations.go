package api

import (
	"context"

	"ridepool/internal/models"
)

func (c *Client) ListLocations(ctx context.Context) ([]models.SavedLocation, error) {
	var locations []models.SavedLocation
	if err := c.get(ctx, "/locations", nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *Client) SaveLocation(ctx context.Context, req *models.SaveLocationRequest) (*models.SavedLocation, error) {
	var location models.SavedLocation
	if err := c.post(ctx, "/locations", req, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

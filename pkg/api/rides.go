package api

import (
	"context"
	"net/url"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (c *Client) SearchRides(ctx context.Context, params models.RideSearchParams) ([]models.Ride, error) {
	query := url.Values{}
	if params.From != "" {
		query.Set("from", params.From)
	}
	if params.To != "" {
		query.Set("to", params.To)
	}

	var rides []models.Ride
	if err := c.get(ctx, "/rides", query, &rides); err != nil {
		return nil, err
	}
	return rides, nil
}

func (c *Client) GetRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	var ride models.Ride
	if err := c.get(ctx, "/rides/"+rideID.Hex(), nil, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

func (c *Client) CreateRide(ctx context.Context, req *models.OfferRide) (*models.Ride, error) {
	var ride models.Ride
	if err := c.post(ctx, "/rides", req, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

func (c *Client) UpdateRide(ctx context.Context, rideID primitive.ObjectID, update *models.RideUpdate) (*models.Ride, error) {
	var ride models.Ride
	if err := c.put(ctx, "/rides/"+rideID.Hex(), update, &ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

// MyRides lists the rides offered by the signed-in driver.
func (c *Client) MyRides(ctx context.Context) ([]models.Ride, error) {
	var rides []models.Ride
	if err := c.get(ctx, "/rides/mine", nil, &rides); err != nil {
		return nil, err
	}
	return rides, nil
}

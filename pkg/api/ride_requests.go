package api

import (
	"context"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (c *Client) SubmitRideRequest(ctx context.Context, rideID primitive.ObjectID, req *models.CreateRideRequest) (*models.RideRequest, error) {
	var created models.RideRequest
	if err := c.post(ctx, "/rides/"+rideID.Hex()+"/requests", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// MyRideRequest returns the caller's most recent request on the ride in any
// status, or nil when there is none.
func (c *Client) MyRideRequest(ctx context.Context, rideID primitive.ObjectID) (*models.RideRequest, error) {
	var req models.RideRequest
	if err := c.get(ctx, "/rides/"+rideID.Hex()+"/requests/mine", nil, &req); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// ListRideRequests lists every request on a ride. Only the ride's driver may call it.
func (c *Client) ListRideRequests(ctx context.Context, rideID primitive.ObjectID) ([]models.RideRequest, error) {
	var requests []models.RideRequest
	if err := c.get(ctx, "/rides/"+rideID.Hex()+"/requests", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) UpdateRideRequest(ctx context.Context, requestID primitive.ObjectID, status models.RideRequestStatus) (*models.RideRequest, error) {
	var updated models.RideRequest
	body := &models.UpdateRideRequestStatus{Status: status}
	if err := c.put(ctx, "/ride-requests/"+requestID.Hex(), body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

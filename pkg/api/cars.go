package api

import (
	"context"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (c *Client) ListCars(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	if err := c.get(ctx, "/cars", nil, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func (c *Client) CreateCar(ctx context.Context, req *models.CarInput) (*models.Car, error) {
	var car models.Car
	if err := c.post(ctx, "/cars", req, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *Client) UpdateCar(ctx context.Context, carID primitive.ObjectID, req *models.CarInput) (*models.Car, error) {
	var car models.Car
	if err := c.put(ctx, "/cars/"+carID.Hex(), req, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *Client) DeleteCar(ctx context.Context, carID primitive.ObjectID) error {
	return c.delete(ctx, "/cars/"+carID.Hex())
}

package api

import (
	"context"

	"ridepool/internal/models"
)

func (c *Client) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := c.get(ctx, "/schedules", nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (c *Client) CreateSchedule(ctx context.Context, req *models.CreateSchedule) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := c.post(ctx, "/schedules", req, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

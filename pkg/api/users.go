package api

import (
	"context"
	"io"

	"ridepool/internal/models"
)

func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req *models.UpdateProfile) (*models.User, error) {
	var user models.User
	if err := c.put(ctx, "/users/me", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UploadProfilePhoto sends the image as multipart form field "photo".
func (c *Client) UploadProfilePhoto(ctx context.Context, filename string, content io.Reader) (*models.User, error) {
	var user models.User
	if err := c.upload(ctx, "/users/me/photo", "photo", filename, content, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

package api

import (
	"context"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := c.get(ctx, "/conversations", nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (c *Client) CreateConversation(ctx context.Context, req *models.CreateConversationRequest) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := c.post(ctx, "/conversations", req, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (c *Client) ListMessages(ctx context.Context, conversationID primitive.ObjectID) ([]models.Message, error) {
	var messages []models.Message
	if err := c.get(ctx, "/conversations/"+conversationID.Hex()+"/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) SendMessage(ctx context.Context, conversationID primitive.ObjectID, content string) (*models.Message, error) {
	var message models.Message
	body := &models.SendMessageRequest{Content: content}
	if err := c.post(ctx, "/conversations/"+conversationID.Hex()+"/messages", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

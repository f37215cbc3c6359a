package interfaces

import (
	"context"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatRepository interface {
	// Conversations
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	GetConversationsByParticipant(ctx context.Context, userID primitive.ObjectID) ([]*models.Conversation, error)

	// Messages. CreateMessage also bumps the conversation's last message.
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessagesByConversation(ctx context.Context, conversationID primitive.ObjectID) ([]*models.Message, error)
}

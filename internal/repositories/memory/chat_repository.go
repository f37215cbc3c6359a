package memory

import (
	"context"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type chatRepository struct {
	conversations *collection[models.Conversation]
	messages      *collection[models.Message]
}

func NewChatRepository() interfaces.ChatRepository {
	return &chatRepository{
		conversations: newCollection[models.Conversation](),
		messages:      newCollection[models.Message](),
	}
}

func (r *chatRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	conv.ID = primitive.NewObjectID()
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = conv.CreatedAt
	r.conversations.insert(conv.ID, conv)
	return nil
}

func (r *chatRepository) GetConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	return r.conversations.get(id)
}

func (r *chatRepository) GetConversationsByParticipant(ctx context.Context, userID primitive.ObjectID) ([]*models.Conversation, error) {
	return r.conversations.find(func(c *models.Conversation) bool { return c.HasParticipant(userID) }), nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()
	msg.Status = models.MessageStatusSent

	_, err := r.conversations.modify(msg.ConversationID, func(c *models.Conversation) error {
		last := *msg
		c.LastMessage = &last
		c.UpdatedAt = msg.CreatedAt
		return nil
	})
	if err != nil {
		return err
	}
	r.messages.insert(msg.ID, msg)
	return nil
}

// GetMessagesByConversation returns messages oldest first.
func (r *chatRepository) GetMessagesByConversation(ctx context.Context, conversationID primitive.ObjectID) ([]*models.Message, error) {
	return r.messages.find(func(m *models.Message) bool { return m.ConversationID == conversationID }), nil
}

package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/validators"
	"ridepool/pkg/logger"
	"ridepool/pkg/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessagingAPI interface {
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	ListMessages(ctx context.Context, conversationID primitive.ObjectID) ([]models.Message, error)
	SendMessage(ctx context.Context, conversationID primitive.ObjectID, content string) (*models.Message, error)
}

type MessageService struct {
	api    MessagingAPI
	userID primitive.ObjectID
	logger *logger.Logger
}

func NewMessageService(client MessagingAPI, userID primitive.ObjectID, log *logger.Logger) *MessageService {
	if log == nil {
		log = logger.Nop()
	}
	return &MessageService{api: client, userID: userID, logger: log.WithUserID(userID)}
}

// Conversations lists the user's conversations, most recent first.
func (s *MessageService) Conversations(ctx context.Context) ([]models.Conversation, error) {
	conversations, err := s.api.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})
	return conversations, nil
}

func (s *MessageService) Thread(conversationID primitive.ObjectID) *MessageThread {
	return &MessageThread{
		api:            s.api,
		conversationID: conversationID,
		senderID:       s.userID,
		logger:         s.logger.WithField("conversation_id", conversationID.Hex()),
		messages: NewOptimistic(func(a, b models.Message) bool {
			return a.ID == b.ID
		}),
	}
}

// MessageThread is one open conversation.
type MessageThread struct {
	api            MessagingAPI
	conversationID primitive.ObjectID
	senderID       primitive.ObjectID
	logger         *logger.Logger
	messages       *Optimistic[models.Message]
}

func (t *MessageThread) Load(ctx context.Context) error {
	messages, err := t.api.ListMessages(ctx, t.conversationID)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}
	t.messages.Set(messages)
	return nil
}

// Send shows the message right away with status "sending". On failure it
// disappears from the list again.
func (t *MessageThread) Send(ctx context.Context, text string) (*models.Message, error) {
	req := &models.SendMessageRequest{Content: text}
	if errs := validators.ValidateSendMessage(req); len(errs) > 0 {
		return nil, errs
	}

	placeholder := models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: t.conversationID,
		SenderID:       t.senderID,
		Content:        req.Content,
		Status:         models.MessageStatusSending,
		CreatedAt:      time.Now(),
	}

	sent, err := t.messages.Apply(ctx, placeholder, func(ctx context.Context) (models.Message, error) {
		msg, err := t.api.SendMessage(ctx, t.conversationID, placeholder.Content)
		if err != nil {
			return models.Message{}, err
		}
		msg.Status = models.MessageStatusSent
		return *msg, nil
	})

	if err != nil {
		t.logger.WithError(err).Warn("Message send failed, removed from thread")
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return &sent, nil
}

func (t *MessageThread) Messages() []models.Message {
	return t.messages.Items()
}

// Watch reloads the thread when a message for it is pushed.
func (t *MessageThread) Watch(bus realtime.Bus) realtime.Subscription {
	return bus.Subscribe(models.EventNewMessage, func(e realtime.Event) {
		var msg models.Message
		if err := e.Decode(&msg); err != nil || msg.ConversationID != t.conversationID {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := t.Load(ctx); err != nil {
			t.logger.WithError(err).Warn("Reload after new message failed")
		}
	})
}

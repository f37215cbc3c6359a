package backend

import (
	"context"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/validators"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatService interface {
	Conversations(ctx context.Context, userID primitive.ObjectID) ([]*models.Conversation, error)
	CreateConversation(ctx context.Context, userID primitive.ObjectID, request *models.CreateConversationRequest) (*models.Conversation, error)
	Messages(ctx context.Context, userID, conversationID primitive.ObjectID) ([]*models.Message, error)
	Send(ctx context.Context, userID, conversationID primitive.ObjectID, request *models.SendMessageRequest) (*models.Message, error)
}

type chatService struct {
	chatRepo interfaces.ChatRepository
	notifier Notifier
}

func NewChatService(repos *interfaces.Repositories, notifier Notifier) ChatService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &chatService{chatRepo: repos.Chats, notifier: notifier}
}

func (s *chatService) Conversations(ctx context.Context, userID primitive.ObjectID) ([]*models.Conversation, error) {
	return s.chatRepo.GetConversationsByParticipant(ctx, userID)
}

// CreateConversation always includes the caller among the participants.
func (s *chatService) CreateConversation(ctx context.Context, userID primitive.ObjectID, request *models.CreateConversationRequest) (*models.Conversation, error) {
	if errs := validators.ValidateCreateConversation(request); len(errs) > 0 {
		return nil, errs
	}

	participants := []primitive.ObjectID{userID}
	seen := map[primitive.ObjectID]bool{userID: true}
	for _, p := range request.Participants {
		if !seen[p] {
			seen[p] = true
			participants = append(participants, p)
		}
	}
	if len(participants) < 2 {
		return nil, validators.ValidationErrors{{Field: "participants", Message: "A conversation needs someone else in it"}}
	}

	conv := &models.Conversation{RideID: request.RideID, Participants: participants}
	if err := s.chatRepo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *chatService) Messages(ctx context.Context, userID, conversationID primitive.ObjectID) ([]*models.Message, error) {
	if _, err := s.conversationFor(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.chatRepo.GetMessagesByConversation(ctx, conversationID)
}

func (s *chatService) Send(ctx context.Context, userID, conversationID primitive.ObjectID, request *models.SendMessageRequest) (*models.Message, error) {
	if errs := validators.ValidateSendMessage(request); len(errs) > 0 {
		return nil, errs
	}
	conv, err := s.conversationFor(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        request.Content,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	data := eventData(msg)
	for _, p := range conv.Participants {
		if p != userID {
			s.notifier.SendUserNotification(p, models.EventNewMessage, data)
		}
	}
	return msg, nil
}

func (s *chatService) conversationFor(ctx context.Context, userID, conversationID primitive.ObjectID) (*models.Conversation, error) {
	conv, err := s.chatRepo.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	return conv, nil
}

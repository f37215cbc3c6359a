package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageStatus string

const (
	MessageStatusSending MessageStatus = "sending"
	MessageStatusSent    MessageStatus = "sent"
	MessageStatusFailed  MessageStatus = "failed"
)

type Message struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversation_id" bson:"conversation_id"`
	SenderID       primitive.ObjectID `json:"sender_id" bson:"sender_id"`
	Content        string             `json:"content" bson:"content"`
	Status         MessageStatus      `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

type Conversation struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	RideID       *primitive.ObjectID  `json:"ride_id,omitempty" bson:"ride_id,omitempty"`
	Participants []primitive.ObjectID `json:"participants" bson:"participants"`
	LastMessage  *Message             `json:"last_message,omitempty" bson:"last_message,omitempty"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updated_at"`
}

// HasParticipant reports whether userID takes part in the conversation.
func (c *Conversation) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type CreateConversationRequest struct {
	RideID       *primitive.ObjectID  `json:"ride_id,omitempty"`
	Participants []primitive.ObjectID `json:"participants" validate:"required,min=1,dive,object_id"`
}

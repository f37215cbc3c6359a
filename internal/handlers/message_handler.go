package handlers

import (
	"ridepool/internal/backend"
	"ridepool/internal/middleware"
	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	chatService backend.ChatService
	logger      *logger.Logger
}

func NewMessageHandler(chatService backend.ChatService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{chatService: chatService, logger: log}
}

func (h *MessageHandler) ListConversations(c *gin.Context) {
	conversations, err := h.chatService.Conversations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Conversations retrieved successfully", conversations)
}

func (h *MessageHandler) CreateConversation(c *gin.Context) {
	var request models.CreateConversationRequest
	if !bindJSON(c, &request) {
		return
	}

	conv, err := h.chatService.CreateConversation(c.Request.Context(), middleware.UserID(c), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Conversation created successfully", conv)
}

func (h *MessageHandler) ListMessages(c *gin.Context) {
	conversationID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	messages, err := h.chatService.Messages(c.Request.Context(), middleware.UserID(c), conversationID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Messages retrieved successfully", messages)
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	conversationID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var request models.SendMessageRequest
	if !bindJSON(c, &request) {
		return
	}

	msg, err := h.chatService.Send(c.Request.Context(), middleware.UserID(c), conversationID, &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Message sent", msg)
}

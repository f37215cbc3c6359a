package validators

import (
	"strings"

	"ridepool/internal/models"
)

func ValidateSendMessage(req *models.SendMessageRequest) ValidationErrors {
	req.Content = strings.TrimSpace(req.Content)
	return ValidateStruct(req)
}

func ValidateCreateConversation(req *models.CreateConversationRequest) ValidationErrors {
	return ValidateStruct(req)
}

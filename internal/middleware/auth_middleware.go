package middleware

import (
	"strings"

	"ridepool/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContextUserID = "user_id"
	ContextMode   = "mode"
	ContextEmail  = "email"
)

// AuthRequired validates the bearer token and sets the caller in the
// context. Websocket upgrades from browsers cannot set headers, so a
// token query parameter is accepted as well.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.UnauthorizedResponse(c)
			return
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil || claims.UserID.IsZero() {
			utils.UnauthorizedResponse(c)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextMode, claims.Mode)
		c.Set(ContextEmail, claims.Email)

		c.Next()
	}
}

// UserID returns the authenticated caller set by AuthRequired.
func UserID(c *gin.Context) primitive.ObjectID {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(primitive.ObjectID); ok {
			return id
		}
	}
	return primitive.NilObjectID
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}

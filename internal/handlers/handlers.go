package handlers

import (
	"contenthub/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUsername returns the authenticated username from the request context.
func currentUsername(c *gin.Context) string {
	return middleware.CurrentUsername(c)
}

// parseIDParam parses an ObjectID path parameter, responding false on failure.
func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type issueIntentRequest struct {
	Method string `json:"method"`
}

func issueIntentHandler(svc paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in issueIntentRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		intent, err := svc.IssueIntent(c.Request.Context(), callerFrom(c), in.Method)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, intent)
	}
}

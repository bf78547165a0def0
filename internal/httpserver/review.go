package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reviewsvc "github.com/strytechcompany/time2cart/internal/service/review"
)

func submitReviewHandler(svc reviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in reviewsvc.SubmitInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		rv, err := svc.Submit(c.Request.Context(), callerFrom(c), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rv)
	}
}

func listReviewsHandler(svc reviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := svc.ListByProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reviews": reviews})
	}
}

func reviewBreakdownHandler(svc reviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		breakdown, err := svc.Breakdown(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, breakdown)
	}
}

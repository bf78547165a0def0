package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strytechcompany/time2cart/internal/domain"
	ordersvc "github.com/strytechcompany/time2cart/internal/service/order"
)

func createOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ordersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		o, err := svc.Create(c.Request.Context(), callerFrom(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func getOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.Get(c.Request.Context(), callerFrom(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func listMyOrdersHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListMine(c.Request.Context(), callerFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func listAllOrdersHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListAll(c.Request.Context(), callerFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

type confirmPaymentRequest struct {
	TrackingLink  string `json:"trackingLink"`
	DeliveryPhone string `json:"deliveryPhone"`
}

func confirmPaymentHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in confirmPaymentRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		o, err := svc.ConfirmPayment(c.Request.Context(), callerFrom(c), c.Param("id"), in.TrackingLink, in.DeliveryPhone)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func updateOrderStatusHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in updateStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		to := domain.OrderStatus(in.Status)
		if !ordersvc.ValidStatus(to) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		o, err := svc.UpdateStatus(c.Request.Context(), callerFrom(c), c.Param("id"), to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func deleteOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

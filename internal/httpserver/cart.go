package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cartsvc "github.com/strytechcompany/time2cart/internal/service/cart"
)

func getCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), callerFrom(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func addCartLineHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.AddLineInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := svc.AddLine(c.Request.Context(), callerFrom(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func updateCartLineHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.UpdateLineInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := svc.UpdateLine(c.Request.Context(), callerFrom(c), c.Param("productId"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func removeCartLineHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Without ?color= every variant of the product goes; with it only
		// that one line does.
		var color *string
		if v, ok := c.GetQuery("color"); ok {
			color = &v
		}
		cart, err := svc.RemoveLine(c.Request.Context(), callerFrom(c), c.Param("productId"), color)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func clearCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), callerFrom(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/strytechcompany/time2cart/internal/domain"
	cartsvc "github.com/strytechcompany/time2cart/internal/service/cart"
	ordersvc "github.com/strytechcompany/time2cart/internal/service/order"
	paymentsvc "github.com/strytechcompany/time2cart/internal/service/payment"
	productsvc "github.com/strytechcompany/time2cart/internal/service/product"
	reviewsvc "github.com/strytechcompany/time2cart/internal/service/review"
)

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, caller domain.Caller, in productsvc.UpsertInput) (*domain.Product, error)
}

type cartService interface {
	Get(ctx context.Context, caller domain.Caller) (*domain.Cart, error)
	AddLine(ctx context.Context, caller domain.Caller, in cartsvc.AddLineInput) (*domain.Cart, error)
	UpdateLine(ctx context.Context, caller domain.Caller, productID string, in cartsvc.UpdateLineInput) (*domain.Cart, error)
	RemoveLine(ctx context.Context, caller domain.Caller, productID string, color *string) (*domain.Cart, error)
	Clear(ctx context.Context, caller domain.Caller) error
}

type paymentService interface {
	IssueIntent(ctx context.Context, caller domain.Caller, method string) (*paymentsvc.Intent, error)
}

type orderService interface {
	Create(ctx context.Context, caller domain.Caller, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, caller domain.Caller, orderID string) (*domain.Order, error)
	ListMine(ctx context.Context, caller domain.Caller) ([]domain.Order, error)
	ListAll(ctx context.Context, caller domain.Caller) ([]domain.Order, error)
	ConfirmPayment(ctx context.Context, caller domain.Caller, orderID, trackingLink, deliveryPhone string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, caller domain.Caller, orderID string, to domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, caller domain.Caller, orderID string) error
}

type reviewService interface {
	Submit(ctx context.Context, caller domain.Caller, productID string, in reviewsvc.SubmitInput) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	Breakdown(ctx context.Context, productID string) (*domain.ReviewBreakdown, error)
}

// Deps bundles the services the router depends on.
type Deps struct {
	ProductSvc productService
	CartSvc    cartService
	PaymentSvc paymentService
	OrderSvc   orderService
	ReviewSvc  reviewService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", headerUserID, headerUserRole},
		AllowCredentials: false,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc))
	router.GET("/products/:id/reviews", listReviewsHandler(deps.ReviewSvc))
	router.GET("/products/:id/reviews/breakdown", reviewBreakdownHandler(deps.ReviewSvc))

	authed := router.Group("", requireIdentity())
	{
		authed.GET("/cart", getCartHandler(deps.CartSvc))
		authed.POST("/cart/lines", addCartLineHandler(deps.CartSvc))
		authed.PATCH("/cart/lines/:productId", updateCartLineHandler(deps.CartSvc))
		authed.DELETE("/cart/lines/:productId", removeCartLineHandler(deps.CartSvc))
		authed.DELETE("/cart", clearCartHandler(deps.CartSvc))

		authed.POST("/payments/intent", issueIntentHandler(deps.PaymentSvc))

		authed.POST("/orders", createOrderHandler(deps.OrderSvc))
		authed.GET("/orders", listMyOrdersHandler(deps.OrderSvc))
		authed.GET("/orders/:id", getOrderHandler(deps.OrderSvc))

		authed.POST("/products/:id/reviews", submitReviewHandler(deps.ReviewSvc))
	}

	admin := router.Group("/admin", requireIdentity(), requireAdmin())
	{
		admin.PUT("/products", upsertProductHandler(deps.ProductSvc))
		admin.GET("/orders", listAllOrdersHandler(deps.OrderSvc))
		admin.POST("/orders/:id/confirm-payment", confirmPaymentHandler(deps.OrderSvc))
		admin.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))
		admin.DELETE("/orders/:id", deleteOrderHandler(deps.OrderSvc))
	}

	return router, nil
}

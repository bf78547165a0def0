package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSubmitted PaymentStatus = "payment_submitted"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCOD       PaymentStatus = "cod"
)

// ShippingAddress is snapshotted onto the order at creation time and never
// re-reads the caller's profile.
type ShippingAddress struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Items         []OrderItem     `json:"items"`
	TotalPaise    int64           `json:"totalPaise"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	TransactionID string          `json:"transactionId,omitempty"`
	TrackingLink  string          `json:"trackingLink,omitempty"`
	DeliveryPhone string          `json:"deliveryPhone,omitempty"`
	Shipping      ShippingAddress `json:"shippingAddress"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// OrderItem carries a unit-price snapshot taken when the order was created;
// later catalog price changes never alter an existing order.
type OrderItem struct {
	ID             string `json:"id"`
	OrderID        string `json:"-"`
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	Color          string `json:"color,omitempty"`
	UnitPricePaise int64  `json:"unitPricePaise"`

	Product *Product `json:"product,omitempty"`
}

package order

import (
	"errors"

	"github.com/strytechcompany/time2cart/internal/domain"
)

// ErrInvalidTransition rejects a status jump outside the transition table.
var ErrInvalidTransition = errors.New("invalid order status transition")

// allowedTransitions is the status axis only; the payment axis moves through
// ConfirmPayment. delivered and cancelled are terminal.
var allowedTransitions = map[domain.OrderStatus]map[domain.OrderStatus]bool{
	domain.StatusPending: {
		domain.StatusConfirmed: true,
		domain.StatusCancelled: true,
	},
	domain.StatusConfirmed: {
		domain.StatusShipped:   true,
		domain.StatusCancelled: true,
	},
	domain.StatusShipped: {
		domain.StatusDelivered: true,
	},
	domain.StatusDelivered: {},
	domain.StatusCancelled: {},
}

// CanTransition reports whether the status axis allows from -> to.
func CanTransition(from, to domain.OrderStatus) bool {
	return allowedTransitions[from][to]
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s domain.OrderStatus) bool {
	switch s {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusShipped, domain.StatusDelivered, domain.StatusCancelled:
		return true
	}
	return false
}

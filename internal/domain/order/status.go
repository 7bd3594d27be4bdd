// Package order máquina de estados del pedido y del pago.
package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// Efecto de una transición sobre las reservas de inventario.
type StockEffect int

const (
	StockNone    StockEffect = iota
	StockRelease             // cancelado: lo reservado vuelve a disponible
	StockCommit              // despachado: lo reservado sale definitivamente
)

var statusTransitions = map[string][]string{
	entity.OrderStatusPending:   {entity.OrderStatusConfirmed, entity.OrderStatusCancelled},
	entity.OrderStatusConfirmed: {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped:   {entity.OrderStatusDelivered},
}

var paymentTransitions = map[string][]string{
	entity.PaymentStatusPending: {entity.PaymentStatusPaid, entity.PaymentStatusFailed},
	entity.PaymentStatusPaid:    {entity.PaymentStatusRefunded},
}

// ValidStatus informa si s es un estado de pedido conocido.
func ValidStatus(s string) bool {
	switch s {
	case entity.OrderStatusPending, entity.OrderStatusConfirmed, entity.OrderStatusShipped,
		entity.OrderStatusDelivered, entity.OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus informa si s es un estado de pago conocido.
func ValidPaymentStatus(s string) bool {
	switch s {
	case entity.PaymentStatusPending, entity.PaymentStatusPaid, entity.PaymentStatusFailed, entity.PaymentStatusRefunded:
		return true
	}
	return false
}

// Transition valida from -> to y devuelve el efecto sobre el inventario.
func Transition(from, to string) (StockEffect, error) {
	if !ValidStatus(to) {
		return StockNone, domain.ErrInvalidInput
	}
	if !contains(statusTransitions[from], to) {
		return StockNone, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	switch to {
	case entity.OrderStatusCancelled:
		return StockRelease, nil
	case entity.OrderStatusShipped:
		return StockCommit, nil
	}
	return StockNone, nil
}

// PaymentTransition valida el cambio de estado de pago.
func PaymentTransition(from, to string) error {
	if !ValidPaymentStatus(to) {
		return domain.ErrInvalidInput
	}
	if !contains(paymentTransitions[from], to) {
		return fmt.Errorf("%w: pago %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewNumber genera el número visible del pedido: ORD-<yyyymmdd>-<6 caracteres>.
func NewNumber(now time.Time) (string, error) {
	suffix := make([]byte, 6)
	max := big.NewInt(int64(len(numberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("número de pedido: %w", err)
		}
		suffix[i] = numberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix), nil
}

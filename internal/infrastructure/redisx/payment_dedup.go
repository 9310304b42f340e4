// Package redisx caché Redis de pagos ya aplicados (atajo de idempotencia).
package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyIdemPayment clave por (pedido, código de confirmación).
const keyIdemPayment = "idem:payment:%s:%s"

// New crea el cliente Redis.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// PaymentDedup implementa ledger.PaymentDedup sobre Redis.
type PaymentDedup struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewPaymentDedup ttl es el tiempo que se recuerda un pago aplicado.
func NewPaymentDedup(rdb redis.Cmdable, ttl time.Duration) *PaymentDedup {
	return &PaymentDedup{rdb: rdb, ttl: ttl}
}

// Seen indica si el par ya se registró como aplicado.
func (d *PaymentDedup) Seen(ctx context.Context, orderID, code string) (bool, error) {
	n, err := d.rdb.Exists(ctx, paymentKey(orderID, code)).Result()
	return n > 0, err
}

// Remember registra el par como aplicado.
func (d *PaymentDedup) Remember(ctx context.Context, orderID, code string) error {
	return d.rdb.Set(ctx, paymentKey(orderID, code), "1", d.ttl).Err()
}

func paymentKey(orderID, code string) string {
	return fmt.Sprintf(keyIdemPayment, orderID, code)
}

package tool

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	catalogx "github.com/jakkaphatm/chatcart/agent/catalog"
	taskx "github.com/jakkaphatm/chatcart/agent/task"
)

// NewAuthorizePayment builds the payment-authorization capability. The
// gateway itself is simulated; the catalog order record is updated
// best-effort and the authorization result reports whether that stuck.
func NewAuthorizePayment(repo catalogx.Repository, opts ...taskx.Option) *taskx.Worker {
	return NewAuthorizePaymentWithClock(repo, time.Now, opts...)
}

func NewAuthorizePaymentWithClock(repo catalogx.Repository, now func() time.Time, opts ...taskx.Option) *taskx.Worker {
	if now == nil {
		now = time.Now
	}
	return taskx.NewWorker("payment", authorizePaymentFunc(repo, now), opts...)
}

func authorizePaymentFunc(repo catalogx.Repository, now func() time.Time) taskx.DomainFunc {
	return func(ctx context.Context, t *taskx.Task) (map[string]any, error) {
		orderID, err := stringArg(t.Payload, "order_id", true)
		if err != nil {
			return nil, err
		}
		amount, err := floatArg(t.Payload, "amount", true)
		if err != nil {
			return nil, err
		}
		method, err := stringArg(t.Payload, "payment_method", false)
		if err != nil {
			return nil, err
		}
		if method == "" {
			method = "credit_card"
		}

		ts := now().UTC()
		authCode := "AUTH-" + strings.ToUpper(uuid.NewString()[:8])

		result := map[string]any{
			"status":         "authorized",
			"auth_code":      authCode,
			"amount":         amount,
			"currency":       "INR",
			"payment_method": method,
			"timestamp":      ts.Format(time.RFC3339),
			"order_id":       orderID,
		}

		switch err := repo.AuthorizeOrder(ctx, orderID, authCode, amount, ts); {
		case err == nil:
			result["db_update"] = "updated"
		case errors.Is(err, catalogx.ErrOrderNotFound):
			result["db_update"] = "order_not_found"
		default:
			log.Warn().Err(err).Str("order_id", orderID).Msg("order update failed after authorization")
			result["db_update"] = "failed"
		}
		return result, nil
	}
}

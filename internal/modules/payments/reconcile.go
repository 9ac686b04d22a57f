package payments

import (
	"context"
	"errors"
	"log/slog"

	"tokobayar.com/app/internal/gateway/midtrans"
	"tokobayar.com/app/internal/shared/apperr"
)

// Reconciler applies asynchronous gateway notifications to stored
// transactions. Safe to invoke any number of times with the same
// notification: the status mapping is a pure function and the store write is
// a plain overwrite.
//
// Out-of-order delivery is not protected against: an old "pending" arriving
// after "settlement" reverts the stored status. Guarding that would need a
// monotonic event sequence per order, which the gateway contract does not
// provide today.
type Reconciler struct {
	store         Store
	serverKey     string
	skipSignature bool
	logger        *slog.Logger
}

func NewReconciler(store Store, serverKey string, skipSignature bool) *Reconciler {
	return &Reconciler{store: store, serverKey: serverKey, skipSignature: skipSignature, logger: slog.Default()}
}

func (r *Reconciler) SetLogger(logger *slog.Logger) { r.logger = logger }

type ReconcileResult struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	FinalStatus       Status
}

// Reconcile verifies the notification, resolves the canonical status and
// applies it. A notification for an order id we do not know is a NotFound,
// logged and reported, never a crash and never a placeholder row.
func (r *Reconciler) Reconcile(ctx context.Context, n *midtrans.Notification) (*ReconcileResult, error) {
	if n.OrderID == "" {
		return nil, apperr.InvalidErr("order_id is required", map[string]string{"order_id": "required"})
	}

	if !r.skipSignature && !n.VerifySignature(r.serverKey) {
		r.logger.WarnContext(ctx, "notification signature mismatch", "order_id", n.OrderID)
		return nil, apperr.UnauthorizedErr("Invalid notification signature")
	}

	final := ResolveStatus(n.TransactionStatus, n.FraudStatus)

	if _, err := r.store.UpdateStatus(ctx, n.OrderID, final); err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			r.logger.WarnContext(ctx, "notification for unknown order id",
				"order_id", n.OrderID, "transaction_status", n.TransactionStatus)
			return nil, apperr.NotFoundErr("Transaction not found")
		}
		// Store failure: surface a 500 so the gateway redelivers.
		r.logger.ErrorContext(ctx, "notification apply failed",
			"order_id", n.OrderID, "status", final, "err", err)
		return nil, apperr.Wrap(err)
	}

	r.logger.InfoContext(ctx, "notification reconciled",
		"order_id", n.OrderID,
		"transaction_status", n.TransactionStatus,
		"fraud_status", n.FraudStatus,
		"final_status", final)

	return &ReconcileResult{
		OrderID:           n.OrderID,
		TransactionStatus: n.TransactionStatus,
		FraudStatus:       n.FraudStatus,
		FinalStatus:       final,
	}, nil
}

package payments

import (
	"context"
	"testing"
	"time"

	"tokobayar.com/app/internal/gateway/midtrans"
	"tokobayar.com/app/internal/shared/apperr"
)

const testServerKey = "SB-Mid-server-test"

func seededStore(orderID string, status Status) *fakeStore {
	store := newFakeStore()
	store.rows[orderID] = &Transaction{
		ID:          "id-1",
		OrderID:     orderID,
		Amount:      100000,
		PaymentType: "credit_card",
		Status:      status,
		CreatedAt:   time.Now(),
	}
	return store
}

func signedNotification(orderID, transactionStatus, fraudStatus string) *midtrans.Notification {
	n := &midtrans.Notification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       "100000.00",
		TransactionStatus: transactionStatus,
		FraudStatus:       fraudStatus,
	}
	n.SignatureKey = midtrans.NotificationSignature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
	return n
}

func TestReconcile_AppliesDecisionTable(t *testing.T) {
	tests := []struct {
		name              string
		transactionStatus string
		fraudStatus       string
		want              Status
	}{
		{"capture accept", "capture", "accept", StatusSuccess},
		{"capture challenge", "capture", "challenge", StatusChallenge},
		{"capture deny", "capture", "deny", StatusFailure},
		{"settlement", "settlement", "", StatusSuccess},
		{"cancel", "cancel", "", StatusFailure},
		{"pending", "pending", "", StatusPending},
		{"raw passthrough", "refund", "", Status("refund")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore("ORDER-1-ab12", StatusPending)
			rec := NewReconciler(store, testServerKey, false)

			out, err := rec.Reconcile(context.Background(), signedNotification("ORDER-1-ab12", tt.transactionStatus, tt.fraudStatus))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.FinalStatus != tt.want {
				t.Errorf("final status = %q, want %q", out.FinalStatus, tt.want)
			}
			stored, _ := store.GetByOrderID(context.Background(), "ORDER-1-ab12")
			if stored.Status != tt.want {
				t.Errorf("stored status = %q, want %q", stored.Status, tt.want)
			}
		})
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	store := seededStore("ORDER-1-ab12", StatusPending)
	rec := NewReconciler(store, testServerKey, false)
	n := signedNotification("ORDER-1-ab12", "settlement", "")

	first, err := rec.Reconcile(context.Background(), n)
	if err != nil {
		t.Fatalf("first application failed: %v", err)
	}
	second, err := rec.Reconcile(context.Background(), n)
	if err != nil {
		t.Fatalf("second application failed: %v", err)
	}
	if first.FinalStatus != second.FinalStatus {
		t.Errorf("redelivery changed outcome: %q then %q", first.FinalStatus, second.FinalStatus)
	}
	stored, _ := store.GetByOrderID(context.Background(), "ORDER-1-ab12")
	if stored.Status != StatusSuccess {
		t.Errorf("stored status = %q, want %q", stored.Status, StatusSuccess)
	}
}

func TestReconcile_UnknownOrderWritesNothing(t *testing.T) {
	store := newFakeStore()
	rec := NewReconciler(store, testServerKey, false)

	_, err := rec.Reconcile(context.Background(), signedNotification("ORDER-404-dead", "settlement", ""))
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.NotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Errorf("%d rows created for unknown order id, want 0", len(store.rows))
	}
}

func TestReconcile_RejectsBadSignature(t *testing.T) {
	store := seededStore("ORDER-1-ab12", StatusPending)
	rec := NewReconciler(store, testServerKey, false)

	n := signedNotification("ORDER-1-ab12", "settlement", "")
	n.SignatureKey = "forged"

	_, err := rec.Reconcile(context.Background(), n)
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.Unauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	stored, _ := store.GetByOrderID(context.Background(), "ORDER-1-ab12")
	if stored.Status != StatusPending {
		t.Errorf("stored status changed to %q on forged notification", stored.Status)
	}
}

func TestReconcile_MissingOrderID(t *testing.T) {
	rec := NewReconciler(newFakeStore(), testServerKey, true)
	_, err := rec.Reconcile(context.Background(), &midtrans.Notification{TransactionStatus: "settlement"})
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.Invalid {
		t.Fatalf("expected invalid, got %v", err)
	}
}

package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tokobayar.com/app/internal/gateway/midtrans"
	"tokobayar.com/app/internal/shared/apperr"
)

// Store is the persistence contract the services depend on. *Repo is the
// production implementation.
type Store interface {
	Create(ctx context.Context, t *Transaction) error
	UpdateStatus(ctx context.Context, orderID string, status Status) (*Transaction, error)
	GetByOrderID(ctx context.Context, orderID string) (*Transaction, error)
	List(ctx context.Context, page, pageSize int) ([]Transaction, int64, error)
}

// Gateway is the synchronous surface of the payment gateway.
type Gateway interface {
	Charge(ctx context.Context, req *midtrans.ChargeRequest) (*midtrans.ChargeResponse, error)
	TransactionStatus(ctx context.Context, orderID string) (*midtrans.ChargeResponse, error)
}

type Service struct {
	store   Store
	gateway Gateway
	opts    MethodOptions
	logger  *slog.Logger
}

func NewService(store Store, gateway Gateway, opts MethodOptions) *Service {
	return &Service{store: store, gateway: gateway, opts: opts, logger: slog.Default()}
}

func (s *Service) SetLogger(logger *slog.Logger) { s.logger = logger }

type ChargeInput struct {
	PaymentType string
	Items       []midtrans.ItemDetail
	Customer    *midtrans.CustomerDetails
	Method      PaymentMethodRequest
}

type ChargeResult struct {
	OrderID        string
	PaymentType    string
	Amount         int64
	PaymentDetails PaymentDetails
	Gateway        *midtrans.ChargeResponse
	Transaction    *Transaction
}

// Charge runs the full orchestration: validate, recompute the gross amount
// server-side, build the method-specific gateway request, charge, normalize,
// persist. All-or-nothing: nothing is written unless the gateway accepted the
// charge.
func (s *Service) Charge(ctx context.Context, in ChargeInput) (*ChargeResult, error) {
	gross, err := grossAmount(in.Items)
	if err != nil {
		return nil, err
	}

	orderID := newOrderID()
	req := &midtrans.ChargeRequest{
		PaymentType: in.PaymentType,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     orderID,
			GrossAmount: gross,
		},
		ItemDetails:     in.Items,
		CustomerDetails: in.Customer,
	}

	if err := buildMethodCharge(req, in.PaymentType, in.Method, s.opts); err != nil {
		return nil, err
	}

	resp, err := s.gateway.Charge(ctx, req)
	if err != nil {
		var apiErr *midtrans.APIError
		if errors.As(err, &apiErr) {
			return nil, apperr.GatewayErr("Payment was not accepted: "+apiErr.Message, err)
		}
		// Network-level failure: the outcome at the gateway is unknown. No row
		// is written; recovery happens through a status query or notification.
		s.logger.ErrorContext(ctx, "gateway charge call failed",
			"order_id", orderID, "payment_type", in.PaymentType, "err", err)
		return nil, apperr.GatewayErr("Payment gateway is unavailable", err)
	}

	details := normalizeChargeResponse(in.PaymentType, in.Method, resp)

	status := Status(resp.TransactionStatus)
	if resp.TransactionStatus == "" {
		status = StatusPending
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	now := time.Now()
	t := &Transaction{
		ID:             uuid.NewString(),
		OrderID:        orderID,
		Amount:         gross,
		PaymentType:    in.PaymentType,
		PaymentDetails: datatypes.JSON(detailsJSON),
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Create(ctx, t); err != nil {
		if errors.Is(err, ErrDuplicateOrderID) {
			return nil, apperr.ConflictErr("Order id already exists")
		}
		// Money may be authorized at the gateway with no local record. Log
		// everything an operator needs to reconcile against the gateway's
		// transaction log.
		s.logger.ErrorContext(ctx, "transaction persist failed after successful charge",
			"order_id", orderID,
			"transaction_id", resp.TransactionID,
			"payment_type", in.PaymentType,
			"amount", gross,
			"err", err)
		return nil, apperr.Wrap(err)
	}

	s.logger.InfoContext(ctx, "transaction created",
		"order_id", orderID, "payment_type", in.PaymentType, "amount", gross, "status", status)

	return &ChargeResult{
		OrderID:        orderID,
		PaymentType:    in.PaymentType,
		Amount:         gross,
		PaymentDetails: details,
		Gateway:        resp,
		Transaction:    t,
	}, nil
}

type StatusResult struct {
	Transaction *Transaction
	Gateway     *midtrans.ChargeResponse
	FinalStatus Status
}

// Status pulls the gateway's live status for an order and recomputes what the
// store should say. The stored record stays the source of truth; the pull is
// only a hint that may move it forward. The write is best-effort: a store
// failure here is logged, not surfaced, since a notification will re-attempt.
func (s *Service) Status(ctx context.Context, orderID string) (*StatusResult, error) {
	t, err := s.store.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return nil, apperr.NotFoundErr("Transaction not found")
		}
		return nil, apperr.Wrap(err)
	}

	gw, err := s.gateway.TransactionStatus(ctx, orderID)
	if err != nil {
		return nil, apperr.GatewayErr("Could not query payment status", err)
	}

	final := ResolveStatus(gw.TransactionStatus, gw.FraudStatus)
	if final != t.Status {
		updated, uerr := s.store.UpdateStatus(ctx, orderID, final)
		if uerr != nil {
			s.logger.WarnContext(ctx, "status pull could not update stored transaction",
				"order_id", orderID, "status", final, "err", uerr)
		} else {
			t = updated
		}
	}

	return &StatusResult{Transaction: t, Gateway: gw, FinalStatus: final}, nil
}

// Transaction returns the stored record for an order id.
func (s *Service) Transaction(ctx context.Context, orderID string) (*Transaction, error) {
	t, err := s.store.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return nil, apperr.NotFoundErr("Transaction not found")
		}
		return nil, apperr.Wrap(err)
	}
	return t, nil
}

// List returns one page of transactions, newest first.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	items, total, err := s.store.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Wrap(err)
	}
	return items, total, nil
}

// grossAmount recomputes the order total from its line items. A
// client-supplied total is never trusted.
func grossAmount(items []midtrans.ItemDetail) (int64, error) {
	if len(items) == 0 {
		return 0, apperr.InvalidErr("At least one item is required", map[string]string{"item_details": "required"})
	}
	var gross int64
	for i, it := range items {
		if it.Quantity < 1 {
			return 0, apperr.InvalidErr("Item quantity must be at least 1",
				map[string]string{fmt.Sprintf("item_details[%d].quantity", i): "min"})
		}
		if it.Price < 0 {
			return 0, apperr.InvalidErr("Item price must not be negative",
				map[string]string{fmt.Sprintf("item_details[%d].price", i): "min"})
		}
		gross += it.Price * int64(it.Quantity)
	}
	return gross, nil
}

// newOrderID returns a caller-visible order id. The millisecond timestamp
// keeps ids sortable; the random suffix keeps them unique under concurrency.
func newOrderID() string {
	b := make([]byte, 2)
	_, _ = rand.Read(b)
	return fmt.Sprintf("ORDER-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}

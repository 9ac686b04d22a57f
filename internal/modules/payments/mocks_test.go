package payments

import (
	"context"
	"sort"
	"sync"
	"time"

	"tokobayar.com/app/internal/gateway/midtrans"
)

// fakeStore is an in-memory Store keyed by order id.
type fakeStore struct {
	mu    sync.Mutex
	rows  map[string]*Transaction
	calls struct {
		create, updateStatus int
	}
	failCreate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]*Transaction{}}
}

func (f *fakeStore) Create(ctx context.Context, t *Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls.create++
	if f.failCreate != nil {
		return f.failCreate
	}
	if _, ok := f.rows[t.OrderID]; ok {
		return ErrDuplicateOrderID
	}
	cp := *t
	f.rows[t.OrderID] = &cp
	return nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, orderID string, status Status) (*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls.updateStatus++
	t, ok := f.rows[orderID]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	cp := *t
	return &cp, nil
}

func (f *fakeStore) GetByOrderID(ctx context.Context, orderID string) (*Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[orderID]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) List(ctx context.Context, page, pageSize int) ([]Transaction, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]Transaction, 0, len(f.rows))
	for _, t := range f.rows {
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	offset := (page - 1) * pageSize
	if offset >= len(all) {
		return nil, int64(len(all)), nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], int64(len(all)), nil
}

// fakeGateway scripts gateway responses per test.
type fakeGateway struct {
	chargeFn    func(ctx context.Context, req *midtrans.ChargeRequest) (*midtrans.ChargeResponse, error)
	statusFn    func(ctx context.Context, orderID string) (*midtrans.ChargeResponse, error)
	chargeCalls int
}

func (f *fakeGateway) Charge(ctx context.Context, req *midtrans.ChargeRequest) (*midtrans.ChargeResponse, error) {
	f.chargeCalls++
	return f.chargeFn(ctx, req)
}

func (f *fakeGateway) TransactionStatus(ctx context.Context, orderID string) (*midtrans.ChargeResponse, error) {
	if f.statusFn == nil {
		return nil, &midtrans.APIError{StatusCode: "404", Message: "transaction not found"}
	}
	return f.statusFn(ctx, orderID)
}

func testOptions() MethodOptions {
	return MethodOptions{
		GopayCallbackURL: "https://shop.example.com/gopay/callback",
		QrisAcquirer:     "gopay",
		Banks:            []string{"bca", "bni", "bri", "mandiri", "permata"},
	}
}

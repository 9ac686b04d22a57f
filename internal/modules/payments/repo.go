package payments

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Repo is the gorm-backed transaction store. All operations are atomic per
// order id; that is the only synchronization the core relies on.
type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// Create inserts a new transaction. A duplicate order id means the
// orchestrator reused an id and is reported as ErrDuplicateOrderID, never
// silently overwritten.
func (r *Repo) Create(ctx context.Context, t *Transaction) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if isDup(err) {
			return ErrDuplicateOrderID
		}
		return err
	}
	return nil
}

// UpdateStatus overwrites the stored status for an order id. Plain overwrite,
// not compare-and-swap: reapplying the same notification is a no-op by value.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, status Status) (*Transaction, error) {
	var t Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, "order_id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		now := time.Now()
		if err := tx.Model(&Transaction{}).
			Where("order_id = ?", orderID).
			Updates(map[string]any{"status": status, "updated_at": now}).Error; err != nil {
			return err
		}
		t.Status = status
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) GetByOrderID(ctx context.Context, orderID string) (*Transaction, error) {
	var t Transaction
	if err := r.db.WithContext(ctx).First(&t, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns one page of transactions, newest first, plus the total count.
func (r *Repo) List(ctx context.Context, page, pageSize int) ([]Transaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Transaction
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/pixbank/pkg/domain"
	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository on the given session.
func NewTransactionRepository(db *gorm.DB) *transactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	m := Transaction{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      int64(tx.Amount),
		Description: tx.Description,
		SourceID:    tx.Source,
		DestID:      tx.Destination,
		Status:      tx.Status,
		CreatedAt:   tx.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*account.Transaction, error) {
	var m Transaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapTransactionToDomain(&m), nil
}

func (r *transactionRepository) ListForAccount(
	ctx context.Context,
	accountID uuid.UUID,
	limit int,
) ([]*account.Transaction, error) {
	q := r.db.WithContext(ctx).
		Where("source_id = ? OR dest_id = ?", accountID, accountID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ms []Transaction
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	return mapTransactionsToDomain(ms), nil
}

func (r *transactionRepository) ListAll(
	ctx context.Context,
	typeFilter account.TransactionType,
	limit int,
) ([]*account.Transaction, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if typeFilter != "" {
		q = q.Where("type = ?", string(typeFilter))
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ms []Transaction
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	return mapTransactionsToDomain(ms), nil
}

func mapTransactionsToDomain(ms []Transaction) []*account.Transaction {
	out := make([]*account.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, mapTransactionToDomain(&ms[i]))
	}
	return out
}

func mapTransactionToDomain(m *Transaction) *account.Transaction {
	return account.NewTransactionFromData(
		m.ID,
		account.TransactionType(m.Type),
		money.Amount(m.Amount),
		m.Description,
		m.SourceID,
		m.DestID,
		m.Status,
		m.CreatedAt,
	)
}

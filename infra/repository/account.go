package repository

import (
	"context"
	"errors"
	"time"

	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository on the given session.
func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	return mapAccountToDomain(&m), nil
}

func (r *accountRepository) GetByDocument(ctx context.Context, doc string) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "document = ?", doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	return mapAccountToDomain(&m), nil
}

func (r *accountRepository) ListActive(ctx context.Context) ([]*account.Account, error) {
	var ms []Account
	err := r.db.WithContext(ctx).
		Where("status = ?", string(account.StatusActive)).
		Order("created_at").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*account.Account, 0, len(ms))
	for i := range ms {
		out = append(out, mapAccountToDomain(&ms[i]))
	}
	return out, nil
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := mapAccountToModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return account.ErrDocumentTaken
		}
		return err
	}
	return nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error {
	return r.updateFields(ctx, id, map[string]any{"balance": int64(balance)})
}

func (r *accountRepository) SetHolderName(ctx context.Context, id uuid.UUID, name string) error {
	return r.updateFields(ctx, id, map[string]any{"holder_name": name})
}

func (r *accountRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.updateFields(ctx, id, map[string]any{"status": string(account.StatusInactive)})
}

func (r *accountRepository) updateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func mapAccountToModel(a *account.Account) Account {
	return Account{
		ID:          a.ID,
		OwnerUserID: a.OwnerUserID,
		HolderName:  a.HolderName,
		Document:    a.Document,
		BankCode:    a.BankCode,
		Agency:      a.Agency,
		Number:      a.Number,
		Type:        string(a.Type),
		Balance:     int64(a.Balance),
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func mapAccountToDomain(m *Account) *account.Account {
	return &account.Account{
		ID:          m.ID,
		OwnerUserID: m.OwnerUserID,
		HolderName:  m.HolderName,
		Document:    m.Document,
		BankCode:    m.BankCode,
		Agency:      m.Agency,
		Number:      m.Number,
		Type:        account.Type(m.Type),
		Balance:     money.Amount(m.Balance),
		Status:      account.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

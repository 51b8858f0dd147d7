package transactions

import (
	"context"
	"errors"

	txdomain "cashbook-go/internal/domain/transactions"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, spaceID string, filter txdomain.ListFilter) ([]txdomain.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&txdomain.Transaction{}).Where("space_id = ?", spaceID)
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("category ILIKE ? OR account ILIKE ? OR note ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("occurred_at desc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []txdomain.Transaction
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, spaceID, txID string) (*txdomain.Transaction, error) {
	var found txdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("space_id = ? AND id = ?", spaceID, txID).
		First(&found).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, txdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &found, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t *txdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PostgresRepository) Update(ctx context.Context, t *txdomain.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&txdomain.Transaction{}).
		Where("id = ? AND space_id = ?", t.ID, t.SpaceID).
		Updates(map[string]interface{}{
			"kind":         t.Kind,
			"amount_cents": t.AmountCents,
			"category":     t.Category,
			"account":      t.Account,
			"occurred_at":  t.OccurredAt,
			"note":         t.Note,
			"updated_at":   t.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, spaceID, txID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&txdomain.Transaction{}, "space_id = ? AND id = ?", spaceID, txID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) Summary(ctx context.Context, spaceID string, filter txdomain.SummaryFilter) (txdomain.Summary, error) {
	conditions := "space_id = ?"
	args := []interface{}{spaceID}
	if filter.From != nil {
		conditions += " AND occurred_at >= ?"
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions += " AND occurred_at <= ?"
		args = append(args, *filter.To)
	}

	query := "SELECT " +
		"COALESCE(SUM(CASE WHEN kind = 'income' THEN amount_cents ELSE 0 END), 0) AS income_cents, " +
		"COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount_cents ELSE 0 END), 0) AS expense_cents, " +
		"COUNT(*) AS count " +
		"FROM transactions WHERE " + conditions

	var row struct {
		IncomeCents  int64 `gorm:"column:income_cents"`
		ExpenseCents int64 `gorm:"column:expense_cents"`
		Count        int64 `gorm:"column:count"`
	}

	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
		return txdomain.Summary{}, err
	}

	return txdomain.Summary{
		IncomeCents:  row.IncomeCents,
		ExpenseCents: row.ExpenseCents,
		Count:        row.Count,
	}, nil
}

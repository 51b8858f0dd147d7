package transactions

import "context"

type Repository interface {
	List(ctx context.Context, spaceID string, filter ListFilter) ([]Transaction, int64, error)
	GetByID(ctx context.Context, spaceID, txID string) (*Transaction, error)
	Create(ctx context.Context, t *Transaction) error
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, spaceID, txID string) (bool, error)
	Summary(ctx context.Context, spaceID string, filter SummaryFilter) (Summary, error)
}

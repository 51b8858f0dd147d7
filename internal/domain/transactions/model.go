package transactions

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindIncome, KindExpense:
		return Kind(value), nil
	}
	return "", fmt.Errorf("unknown kind %q", value)
}

// Transaction is a single income or expense record. Amounts are integer
// minor currency units (cents), always strictly positive; the kind carries
// the direction.
type Transaction struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	SpaceID     string    `gorm:"type:uuid;index;not null"`
	Kind        Kind      `gorm:"type:varchar(16);not null"`
	AmountCents int64     `gorm:"not null"`
	Category    string    `gorm:"not null"`
	Account     string    `gorm:"not null"`
	OccurredAt  time.Time `gorm:"not null"`
	Note        *string   `gorm:"type:text"`
	CreatedBy   string    `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Kind   *Kind
	Query  string
	Limit  int
	Offset int
}

type SummaryFilter struct {
	From *time.Time
	To   *time.Time
}

type Summary struct {
	IncomeCents  int64
	ExpenseCents int64
	NetCents     int64
	Count        int64
}

type CreateInput struct {
	SpaceID     string
	Kind        Kind
	AmountCents int64
	Category    string
	Account     string
	OccurredAt  time.Time
	Note        *string
}

type UpdateInput struct {
	ID          string
	SpaceID     string
	Kind        Kind
	AmountCents int64
	Category    string
	Account     string
	OccurredAt  time.Time
	Note        *string
}

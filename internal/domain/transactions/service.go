package transactions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cashbook-go/internal/domain/space"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Every method takes the caller's resolved membership rather than a bare user
// id: the handler resolves it once, the policy decision happens here, and the
// caller's own id is read from the membership so create can never trust a
// client-supplied creator.

func (s *Service) List(ctx context.Context, caller space.Membership, filter ListFilter) ([]Transaction, int64, error) {
	if !space.Allowed(caller.Role, space.ActionRead, "", caller.UserID) {
		return nil, 0, ErrForbidden
	}
	return s.repo.List(ctx, caller.SpaceID, filter)
}

func (s *Service) Get(ctx context.Context, caller space.Membership, txID string) (*Transaction, error) {
	if !space.Allowed(caller.Role, space.ActionRead, "", caller.UserID) {
		return nil, ErrForbidden
	}
	return s.repo.GetByID(ctx, caller.SpaceID, txID)
}

func (s *Service) Create(ctx context.Context, caller space.Membership, input CreateInput) (*Transaction, error) {
	if !space.Allowed(caller.Role, space.ActionCreate, caller.UserID, caller.UserID) {
		return nil, ErrForbidden
	}
	if err := validateInput(input.Kind, input.AmountCents, input.Category, input.Account, input.OccurredAt); err != nil {
		return nil, err
	}

	created := Transaction{
		ID:          uuid.NewString(),
		SpaceID:     caller.SpaceID,
		Kind:        input.Kind,
		AmountCents: input.AmountCents,
		Category:    strings.TrimSpace(input.Category),
		Account:     strings.TrimSpace(input.Account),
		OccurredAt:  input.OccurredAt,
		Note:        input.Note,
		CreatedBy:   caller.UserID,
	}

	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// Update replaces the mutable fields of a transaction. The record is fetched
// scoped to the caller's space first, so an id from another space reads as
// not found, and the policy sees the stored creator, not anything the client
// sent.
func (s *Service) Update(ctx context.Context, caller space.Membership, input UpdateInput) (*Transaction, error) {
	if err := validateInput(input.Kind, input.AmountCents, input.Category, input.Account, input.OccurredAt); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, caller.SpaceID, input.ID)
	if err != nil {
		return nil, err
	}

	if !space.Allowed(caller.Role, space.ActionUpdate, existing.CreatedBy, caller.UserID) {
		return nil, ErrForbidden
	}

	existing.Kind = input.Kind
	existing.AmountCents = input.AmountCents
	existing.Category = strings.TrimSpace(input.Category)
	existing.Account = strings.TrimSpace(input.Account)
	existing.OccurredAt = input.OccurredAt
	existing.Note = input.Note
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *Service) Delete(ctx context.Context, caller space.Membership, txID string) error {
	existing, err := s.repo.GetByID(ctx, caller.SpaceID, txID)
	if err != nil {
		return err
	}

	if !space.Allowed(caller.Role, space.ActionDelete, existing.CreatedBy, caller.UserID) {
		return ErrForbidden
	}

	deleted, err := s.repo.Delete(ctx, caller.SpaceID, txID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *Service) Summary(ctx context.Context, caller space.Membership, filter SummaryFilter) (Summary, error) {
	if !space.Allowed(caller.Role, space.ActionRead, "", caller.UserID) {
		return Summary{}, ErrForbidden
	}

	result, err := s.repo.Summary(ctx, caller.SpaceID, filter)
	if err != nil {
		return Summary{}, err
	}

	result.NetCents = result.IncomeCents - result.ExpenseCents
	return result, nil
}

func validateInput(kind Kind, amountCents int64, category, account string, occurredAt time.Time) error {
	if kind != KindIncome && kind != KindExpense {
		return fmt.Errorf("kind must be income or expense")
	}
	if amountCents <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("category is required")
	}
	if strings.TrimSpace(account) == "" {
		return fmt.Errorf("account is required")
	}
	if occurredAt.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

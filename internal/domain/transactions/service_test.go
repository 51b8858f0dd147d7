package transactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"cashbook-go/internal/domain/space"
)

type fakeTxRepo struct {
	records map[string]*Transaction
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{records: make(map[string]*Transaction)}
}

func (r *fakeTxRepo) List(ctx context.Context, spaceID string, filter ListFilter) ([]Transaction, int64, error) {
	result := make([]Transaction, 0)
	for _, record := range r.records {
		if record.SpaceID != spaceID {
			continue
		}
		if filter.Kind != nil && record.Kind != *filter.Kind {
			continue
		}
		result = append(result, *record)
	}
	return result, int64(len(result)), nil
}

func (r *fakeTxRepo) GetByID(ctx context.Context, spaceID, txID string) (*Transaction, error) {
	record, ok := r.records[txID]
	if !ok || record.SpaceID != spaceID {
		return nil, ErrTransactionNotFound
	}
	return record, nil
}

func (r *fakeTxRepo) Create(ctx context.Context, t *Transaction) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	r.records[t.ID] = t
	return nil
}

func (r *fakeTxRepo) Update(ctx context.Context, t *Transaction) error {
	if _, ok := r.records[t.ID]; !ok {
		return ErrTransactionNotFound
	}
	r.records[t.ID] = t
	return nil
}

func (r *fakeTxRepo) Delete(ctx context.Context, spaceID, txID string) (bool, error) {
	record, ok := r.records[txID]
	if !ok || record.SpaceID != spaceID {
		return false, nil
	}
	delete(r.records, txID)
	return true, nil
}

func (r *fakeTxRepo) Summary(ctx context.Context, spaceID string, filter SummaryFilter) (Summary, error) {
	var result Summary
	for _, record := range r.records {
		if record.SpaceID != spaceID {
			continue
		}
		switch record.Kind {
		case KindIncome:
			result.IncomeCents += record.AmountCents
		case KindExpense:
			result.ExpenseCents += record.AmountCents
		}
		result.Count++
	}
	return result, nil
}

func member(role space.Role, userID string) space.Membership {
	return space.Membership{SpaceID: "space-1", UserID: userID, Role: role}
}

func validCreateInput() CreateInput {
	return CreateInput{
		SpaceID:     "space-1",
		Kind:        KindExpense,
		AmountCents: 1050,
		Category:    "Groceries",
		Account:     "Cash",
		OccurredAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func seedRecord(repo *fakeTxRepo, id, createdBy string) *Transaction {
	record := &Transaction{
		ID:          id,
		SpaceID:     "space-1",
		Kind:        KindExpense,
		AmountCents: 1050,
		Category:    "Groceries",
		Account:     "Cash",
		OccurredAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy:   createdBy,
	}
	repo.records[id] = record
	return record
}

func TestCreate(t *testing.T) {
	repo := newFakeTxRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), member(space.RoleMember, "user-1"), validCreateInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.AmountCents != 1050 || created.Kind != KindExpense {
		t.Fatalf("unexpected record: %+v", created)
	}
	if created.CreatedBy != "user-1" {
		t.Fatalf("expected creator user-1, got %q", created.CreatedBy)
	}
	if created.SpaceID != "space-1" {
		t.Fatalf("expected space-1, got %q", created.SpaceID)
	}
}

func TestCreateViewerForbidden(t *testing.T) {
	repo := newFakeTxRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), member(space.RoleViewer, "user-1"), validCreateInput())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.records) != 0 {
		t.Fatalf("expected no record, got %d", len(repo.records))
	}
}

func TestCreateValidation(t *testing.T) {
	repo := newFakeTxRepo()
	svc := NewService(repo)
	caller := member(space.RoleOwner, "user-1")

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"bad kind", func(in *CreateInput) { in.Kind = "transfer" }},
		{"zero amount", func(in *CreateInput) { in.AmountCents = 0 }},
		{"negative amount", func(in *CreateInput) { in.AmountCents = -5 }},
		{"blank category", func(in *CreateInput) { in.Category = "  " }},
		{"blank account", func(in *CreateInput) { in.Account = "" }},
		{"zero date", func(in *CreateInput) { in.OccurredAt = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			if _, err := svc.Create(context.Background(), caller, input); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestUpdateOwnRecord(t *testing.T) {
	repo := newFakeTxRepo()
	seedRecord(repo, "tx-1", "user-1")
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), member(space.RoleMember, "user-1"), UpdateInput{
		ID:          "tx-1",
		SpaceID:     "space-1",
		Kind:        KindExpense,
		AmountCents: 1050,
		Category:    "Dining",
		Account:     "Cash",
		OccurredAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Category != "Dining" {
		t.Fatalf("expected category updated, got %q", updated.Category)
	}
	// Identity fields survive the edit untouched.
	if updated.ID != "tx-1" || updated.AmountCents != 1050 || updated.Kind != KindExpense || updated.CreatedBy != "user-1" {
		t.Fatalf("unexpected record after update: %+v", updated)
	}
}

func TestUpdateForeignRecord(t *testing.T) {
	repo := newFakeTxRepo()
	seedRecord(repo, "tx-1", "user-2")
	svc := NewService(repo)

	input := UpdateInput{
		ID:          "tx-1",
		SpaceID:     "space-1",
		Kind:        KindExpense,
		AmountCents: 1,
		Category:    "Dining",
		Account:     "Cash",
		OccurredAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	if _, err := svc.Update(context.Background(), member(space.RoleMember, "user-1"), input); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for member, got %v", err)
	}

	// The owner edits anything in the space.
	if _, err := svc.Update(context.Background(), member(space.RoleOwner, "user-1"), input); err != nil {
		t.Fatalf("expected no error for owner, got %v", err)
	}
}

func TestUpdateCrossSpace(t *testing.T) {
	repo := newFakeTxRepo()
	record := seedRecord(repo, "tx-1", "user-1")
	record.SpaceID = "space-2"
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), member(space.RoleOwner, "user-1"), UpdateInput{
		ID:          "tx-1",
		SpaceID:     "space-1",
		Kind:        KindExpense,
		AmountCents: 1050,
		Category:    "Groceries",
		Account:     "Cash",
		OccurredAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newFakeTxRepo()
	seedRecord(repo, "tx-1", "user-2")
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), member(space.RoleMember, "user-1"), "tx-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), member(space.RoleViewer, "user-2"), "tx-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for viewer, got %v", err)
	}

	if err := svc.Delete(context.Background(), member(space.RoleMember, "user-2"), "tx-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.records) != 0 {
		t.Fatalf("expected record deleted")
	}

	if err := svc.Delete(context.Background(), member(space.RoleOwner, "user-1"), "tx-1"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestListAndGet(t *testing.T) {
	repo := newFakeTxRepo()
	seedRecord(repo, "tx-1", "user-1")
	svc := NewService(repo)

	items, total, err := svc.List(context.Background(), member(space.RoleViewer, "user-2"), ListFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 record, got %d", total)
	}

	found, err := svc.Get(context.Background(), member(space.RoleViewer, "user-2"), "tx-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found.ID != "tx-1" {
		t.Fatalf("expected tx-1, got %q", found.ID)
	}
}

func TestSummary(t *testing.T) {
	repo := newFakeTxRepo()
	seedRecord(repo, "tx-1", "user-1")
	income := seedRecord(repo, "tx-2", "user-1")
	income.Kind = KindIncome
	income.AmountCents = 200000
	svc := NewService(repo)

	summary, err := svc.Summary(context.Background(), member(space.RoleViewer, "user-2"), SummaryFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.IncomeCents != 200000 || summary.ExpenseCents != 1050 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.NetCents != 198950 {
		t.Fatalf("expected net 198950, got %d", summary.NetCents)
	}
	if summary.Count != 2 {
		t.Fatalf("expected count 2, got %d", summary.Count)
	}
}

func TestParseKind(t *testing.T) {
	for _, value := range []string{"income", "expense"} {
		kind, err := ParseKind(value)
		if err != nil {
			t.Fatalf("expected no error for %q, got %v", value, err)
		}
		if string(kind) != value {
			t.Fatalf("expected %q, got %q", value, kind)
		}
	}
	if _, err := ParseKind("transfer"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

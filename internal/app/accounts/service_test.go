package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"roundhouse/internal/ledger"
	"roundhouse/internal/store"
	"roundhouse/internal/testutil"
)

func TestCreateUserUsesDefaultOpening(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	svc := NewService(st, ledger.New(st), 250)

	u, err := svc.CreateUser(ctx, CreateUserRequest{Name: "  alice "})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Name != "alice" || u.WalletCC != 250 {
		t.Fatalf("user = %+v", u)
	}
	bal, err := svc.Balance(ctx, u.UserID)
	if err != nil || bal.WalletCC != 250 {
		t.Fatalf("balance = %+v, %v", bal, err)
	}

	zero := int64(0)
	empty, err := svc.CreateUser(ctx, CreateUserRequest{Name: "bob", OpeningCC: &zero})
	if err != nil || empty.WalletCC != 0 {
		t.Fatalf("explicit zero opening = %+v, %v", empty, err)
	}
	if _, err := svc.CreateUser(ctx, CreateUserRequest{Name: " "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("blank name err = %v", err)
	}
}

func TestReconcileAndLedger(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	led := ledger.New(st)
	svc := NewService(st, led, 0)

	u, err := svc.CreateUser(ctx, CreateUserRequest{Name: "carol", OpeningCC: ptr(1000)})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := led.DebitBet(ctx, u.UserID, store.NewID(), 300); err != nil {
		t.Fatalf("debit: %v", err)
	}
	rep, err := svc.Reconcile(ctx, u.UserID)
	if err != nil || !rep.Consistent {
		t.Fatalf("reconcile = %+v, %v", rep, err)
	}
	if _, err := svc.Reconcile(ctx, store.NewID()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}

	page, err := svc.Ledger(ctx, store.LedgerFilter{UserID: u.UserID, Limit: 10})
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].Type != ledger.TypeBetPlaced || page.Items[0].BalanceAfterCC != 700 {
		t.Fatalf("ledger = %+v", page.Items)
	}
	from := time.Now()
	if _, err := svc.Ledger(ctx, store.LedgerFilter{From: &from, To: &from}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("empty window err = %v", err)
	}
}

func ptr(v int64) *int64 { return &v }

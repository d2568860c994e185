package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/midgardbridge/dealreport/internal/types"
)

func newRequest(dealCount int, createdAt time.Time) *types.GenerationRequest {
	return &types.GenerationRequest{
		ID:                     uuid.New(),
		DealCount:              dealCount,
		ConventionsBids:        "SEF",
		ConventionsProfileBids: "SEF_PROFILE",
		BidIndexMin:            -1,
		BidIndexMax:            -1,
		Status:                 types.RequestStatusPending,
		CreatedAt:              createdAt,
	}
}

func TestClaimOldestPendingFIFO(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenerationRequestRepo(db, newTestLogger(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		req := newRequest(1, base.Add(time.Duration(i)*time.Minute))
		if _, err := repo.Create(ctx, nil, req); err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, req.ID)
	}

	for i := 0; i < 3; i++ {
		claimed, err := repo.ClaimOldestPending(ctx, nil)
		if err != nil {
			t.Fatalf("claim %d: %v", i, err)
		}
		if claimed == nil {
			t.Fatalf("claim %d: got nil, want request", i)
		}
		if claimed.ID != ids[i] {
			t.Fatalf("claim %d: got %s, want %s (creation order)", i, claimed.ID, ids[i])
		}
		if claimed.Status != types.RequestStatusRunning {
			t.Fatalf("claim %d: status %q, want RUNNING", i, claimed.Status)
		}
		// Claiming must persist the transition, not just mutate the copy.
		stored, err := repo.GetByID(ctx, nil, claimed.ID)
		if err != nil {
			t.Fatalf("get claimed: %v", err)
		}
		if stored.Status != types.RequestStatusRunning {
			t.Fatalf("claim %d: stored status %q, want RUNNING", i, stored.Status)
		}
	}

	claimed, err := repo.ClaimOldestPending(ctx, nil)
	if err != nil {
		t.Fatalf("claim empty: %v", err)
	}
	if claimed != nil {
		t.Fatalf("claim empty: got %v, want nil", claimed)
	}
}

func TestCountRunning(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenerationRequestRepo(db, newTestLogger(t))
	ctx := context.Background()

	if _, err := repo.Create(ctx, nil, newRequest(1, time.Now())); err != nil {
		t.Fatalf("create: %v", err)
	}
	count, err := repo.CountRunning(ctx, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count with only pending = %d, want 0", count)
	}

	if _, err := repo.ClaimOldestPending(ctx, nil); err != nil {
		t.Fatalf("claim: %v", err)
	}
	count, err = repo.CountRunning(ctx, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count after claim = %d, want 1", count)
	}
}

func TestMarkCompletedAndError(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenerationRequestRepo(db, newTestLogger(t))
	ctx := context.Background()

	done := newRequest(2, time.Now())
	failed := newRequest(2, time.Now())
	for _, req := range []*types.GenerationRequest{done, failed} {
		if _, err := repo.Create(ctx, nil, req); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := repo.MarkCompleted(ctx, nil, done.ID, []byte(`{"deals":2,"reports":1}`)); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	stored, err := repo.GetByID(ctx, nil, done.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != types.RequestStatusCompleted {
		t.Fatalf("status = %q, want COMPLETED", stored.Status)
	}
	if len(stored.Summary) == 0 {
		t.Fatalf("summary not persisted")
	}

	if err := repo.MarkError(ctx, nil, failed.ID, "oracle exploded"); err != nil {
		t.Fatalf("mark error: %v", err)
	}
	stored, err = repo.GetByID(ctx, nil, failed.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != types.RequestStatusError {
		t.Fatalf("status = %q, want ERROR", stored.Status)
	}
	if stored.Error != "oracle exploded" {
		t.Fatalf("error = %q, want cause recorded", stored.Error)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenerationRequestRepo(db, newTestLogger(t))

	_, err := repo.GetByID(context.Background(), nil, uuid.New())
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/payout"
	payoutmock "github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/mocks/domain/payout"
	"github.com/stretchr/testify/mock"
)

func payoutInput() payout.Input {
	return payout.Input{
		EntryFee:         50,
		ParticipantCount: 20,
		SideWeeksA:       38,
		SideWeeksB:       38,
		ChipCategories:   []string{"triple-captain", "bench-boost", "free-hit"},
	}
}

func TestPayoutService_ComputeStructure_StoresDraftUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := payoutmock.NewRepository(t)
	service := NewPayoutService(repo, nil)
	seasonID := "2025-26"

	repo.
		On("GetBySeason", mock.MatchedBy(func(v context.Context) bool { return v != nil }), seasonID).
		Return(payout.Structure{}, false, nil).
		Once()
	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(s payout.Structure) bool {
			return s.SeasonID == seasonID && s.TotalBudget == 1000
		})).
		Return(nil).
		Once()

	got, err := service.ComputeStructure(ctx, seasonID, payoutInput())
	if err != nil {
		t.Fatalf("compute structure: %v", err)
	}
	if got.SeasonID != seasonID {
		t.Fatalf("unexpected season id: got=%s want=%s", got.SeasonID, seasonID)
	}
	if got.Total() != got.TotalBudget {
		t.Fatalf("stored structure must balance: total=%d budget=%d", got.Total(), got.TotalBudget)
	}
}

func TestPayoutService_ComputeStructure_FrozenUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := payoutmock.NewRepository(t)
	service := NewPayoutService(repo, nil)
	seasonID := "2025-26"

	repo.
		On("GetBySeason", mock.Anything, seasonID).
		Return(payout.Structure{SeasonID: seasonID, Confirmed: true}, true, nil).
		Once()

	_, err := service.ComputeStructure(ctx, seasonID, payoutInput())
	if !errors.Is(err, ErrPreconditionViolation) {
		t.Fatalf("expected ErrPreconditionViolation, got %v", err)
	}
}

func TestPayoutService_ConfirmStructure_RejectsImbalanceUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := payoutmock.NewRepository(t)
	service := NewPayoutService(repo, nil)
	seasonID := "2025-26"

	broken := payout.Structure{
		SeasonID:      seasonID,
		SeasonWinners: []int64{100, 50},
		TotalBudget:   500,
	}
	repo.
		On("GetBySeason", mock.Anything, seasonID).
		Return(broken, true, nil).
		Once()

	_, err := service.ConfirmStructure(ctx, seasonID)
	if !errors.Is(err, ErrReconciliationFailed) {
		t.Fatalf("expected ErrReconciliationFailed, got %v", err)
	}
}

func TestPayoutService_ConfirmThenUnfreezeUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := payoutmock.NewRepository(t)
	service := NewPayoutService(repo, nil)
	seasonID := "2025-26"

	balanced, err := payout.ComputeStructure(payoutInput())
	if err != nil {
		t.Fatalf("compute reference structure: %v", err)
	}
	balanced.SeasonID = seasonID

	repo.
		On("GetBySeason", mock.Anything, seasonID).
		Return(balanced, true, nil).
		Once()
	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(s payout.Structure) bool { return s.Confirmed })).
		Return(nil).
		Once()

	confirmed, err := service.ConfirmStructure(ctx, seasonID)
	if err != nil {
		t.Fatalf("confirm structure: %v", err)
	}
	if !confirmed.Confirmed {
		t.Fatal("confirmed structure must carry the frozen flag")
	}

	repo.
		On("GetBySeason", mock.Anything, seasonID).
		Return(confirmed, true, nil).
		Once()
	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(s payout.Structure) bool { return !s.Confirmed })).
		Return(nil).
		Once()

	unfrozen, err := service.UnfreezeStructure(ctx, seasonID)
	if err != nil {
		t.Fatalf("unfreeze structure: %v", err)
	}
	if unfrozen.Confirmed {
		t.Fatal("unfrozen structure must not be frozen")
	}
}

func TestPayoutService_GetStructure_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := payoutmock.NewRepository(t)
	service := NewPayoutService(repo, nil)

	repo.
		On("GetBySeason", mock.Anything, "missing").
		Return(payout.Structure{}, false, nil).
		Once()

	_, err := service.GetStructure(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPayoutService_RecalculateStructure_SeededUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := payoutmock.NewRepository(t)
	service := NewPayoutService(repo, nil)
	seasonID := "2025-26"

	repo.On("GetBySeason", mock.Anything, seasonID).Return(payout.Structure{}, false, nil).Twice()
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil).Twice()

	first, err := service.RecalculateStructure(ctx, seasonID, payoutInput(), 42)
	if err != nil {
		t.Fatalf("recalculate structure: %v", err)
	}
	second, err := service.RecalculateStructure(ctx, seasonID, payoutInput(), 42)
	if err != nil {
		t.Fatalf("recalculate structure: %v", err)
	}
	if first.Total() != second.Total() {
		t.Fatalf("identical seeds must match: %d vs %d", first.Total(), second.Total())
	}
}

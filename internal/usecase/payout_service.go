package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/payout"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/logging"
)

// PayoutService owns the season payout structure lifecycle: compute a
// draft, optionally recalculate with seeded jitter, confirm to freeze, and
// unfreeze to allow edits again.
type PayoutService struct {
	repo   payout.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewPayoutService(repo payout.Repository, logger *logging.Logger) *PayoutService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PayoutService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// ComputeStructure runs the deterministic calculator and stores the result
// as the season's draft structure. A confirmed structure is frozen and
// rejects recomputation until unfrozen.
func (s *PayoutService) ComputeStructure(ctx context.Context, seasonID string, in payout.Input) (payout.Structure, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PayoutService.ComputeStructure")
	defer span.End()

	return s.computeAndStore(ctx, seasonID, func() (payout.Structure, error) {
		return payout.ComputeStructure(in)
	})
}

// RecalculateStructure is the explicitly-seeded jittered variant; it goes
// through the same freeze check and reconciliation as the deterministic
// path.
func (s *PayoutService) RecalculateStructure(ctx context.Context, seasonID string, in payout.Input, seed int64) (payout.Structure, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PayoutService.RecalculateStructure")
	defer span.End()

	return s.computeAndStore(ctx, seasonID, func() (payout.Structure, error) {
		return payout.ComputeStructureJittered(in, seed)
	})
}

func (s *PayoutService) computeAndStore(ctx context.Context, seasonID string, compute func() (payout.Structure, error)) (payout.Structure, error) {
	if seasonID == "" {
		return payout.Structure{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	existing, ok, err := s.repo.GetBySeason(ctx, seasonID)
	if err != nil {
		return payout.Structure{}, fmt.Errorf("get structure for season %s: %w", seasonID, err)
	}
	if ok && existing.Confirmed {
		return payout.Structure{}, fmt.Errorf("%w: structure for season %s is confirmed; unfreeze before editing",
			ErrPreconditionViolation, seasonID)
	}

	structure, err := compute()
	switch {
	case errors.Is(err, payout.ErrReconciliation), errors.Is(err, payout.ErrNotMonotonic):
		return payout.Structure{}, fmt.Errorf("%w: %v", ErrReconciliationFailed, err)
	case err != nil:
		return payout.Structure{}, fmt.Errorf("%w: %v", ErrPreconditionViolation, err)
	}

	structure.SeasonID = seasonID
	if err := s.repo.Upsert(ctx, structure); err != nil {
		return payout.Structure{}, fmt.Errorf("store structure: %w", err)
	}

	s.logger.InfoContext(ctx, "payout structure computed",
		"season_id", seasonID,
		"total_budget", structure.TotalBudget,
		"paid_positions", len(structure.SeasonWinners),
	)
	return structure, nil
}

// ConfirmStructure freezes the season's structure. Confirmation re-checks
// reconciliation: an inconsistent structure must never be frozen.
func (s *PayoutService) ConfirmStructure(ctx context.Context, seasonID string) (payout.Structure, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PayoutService.ConfirmStructure")
	defer span.End()

	structure, ok, err := s.repo.GetBySeason(ctx, seasonID)
	if err != nil {
		return payout.Structure{}, fmt.Errorf("get structure for season %s: %w", seasonID, err)
	}
	if !ok {
		return payout.Structure{}, fmt.Errorf("%w: no structure for season %s", ErrNotFound, seasonID)
	}
	if err := structure.Reconcile(); err != nil {
		return payout.Structure{}, fmt.Errorf("%w: %v", ErrReconciliationFailed, err)
	}

	structure.Confirmed = true
	if err := s.repo.Upsert(ctx, structure); err != nil {
		return payout.Structure{}, fmt.Errorf("confirm structure: %w", err)
	}
	s.logger.InfoContext(ctx, "payout structure confirmed", "season_id", seasonID)
	return structure, nil
}

// UnfreezeStructure lifts the confirmed flag so the structure can be
// recomputed.
func (s *PayoutService) UnfreezeStructure(ctx context.Context, seasonID string) (payout.Structure, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PayoutService.UnfreezeStructure")
	defer span.End()

	structure, ok, err := s.repo.GetBySeason(ctx, seasonID)
	if err != nil {
		return payout.Structure{}, fmt.Errorf("get structure for season %s: %w", seasonID, err)
	}
	if !ok {
		return payout.Structure{}, fmt.Errorf("%w: no structure for season %s", ErrNotFound, seasonID)
	}

	structure.Confirmed = false
	if err := s.repo.Upsert(ctx, structure); err != nil {
		return payout.Structure{}, fmt.Errorf("unfreeze structure: %w", err)
	}
	return structure, nil
}

// GetStructure reads the season's structure.
func (s *PayoutService) GetStructure(ctx context.Context, seasonID string) (payout.Structure, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PayoutService.GetStructure")
	defer span.End()

	structure, ok, err := s.repo.GetBySeason(ctx, seasonID)
	if err != nil {
		return payout.Structure{}, fmt.Errorf("get structure for season %s: %w", seasonID, err)
	}
	if !ok {
		return payout.Structure{}, fmt.Errorf("%w: no structure for season %s", ErrNotFound, seasonID)
	}
	return structure, nil
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/contest"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/entry"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/fixture"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/winner"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/logging"
)

// SettlementPublisher notifies downstream consumers that a gameweek has
// settled. Failures are logged, never propagated: settlement state is
// already durable by the time a notification goes out.
type SettlementPublisher interface {
	PublishSettlement(ctx context.Context, contestID string, gameweek int, winnerCount int) error
}

// SettlementResult is the outcome of one settlement run.
type SettlementResult struct {
	ContestID   string
	Gameweek    int
	FixtureID   string
	PotAmount   int64
	Winners     []winner.Winner
	AlreadyDone bool
	SkippedBad  int
}

// SettlementService drives the weekly contest: featured-fixture selection,
// entry snapshotting, winner determination, and the pot ledger write. The
// pot read-then-write is not atomic by construction, so every
// (contest, gameweek) pair settles under its own mutex; re-running a
// settled pair returns the recorded outcome without writing.
type SettlementService struct {
	catalog    fixture.Catalog
	entryRepo  entry.Repository
	potRepo    contest.PotRepository
	winnerRepo winner.Repository
	tiers      fixture.TierConfig
	publisher  SettlementPublisher
	logger     *logging.Logger
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSettlementService(
	catalog fixture.Catalog,
	entryRepo entry.Repository,
	potRepo contest.PotRepository,
	winnerRepo winner.Repository,
	tiers fixture.TierConfig,
	publisher SettlementPublisher,
	logger *logging.Logger,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SettlementService{
		catalog:    catalog,
		entryRepo:  entryRepo,
		potRepo:    potRepo,
		winnerRepo: winnerRepo,
		tiers:      tiers,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (s *SettlementService) settlementLock(contestID string, gameweek int) *sync.Mutex {
	key := fmt.Sprintf("%s:%d", contestID, gameweek)
	s.mu.Lock()
	defer s.mu.Unlock()
	if lock, ok := s.locks[key]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.locks[key] = lock
	return lock
}

// FeaturedFixture returns the contest fixture for a gameweek. Malformed
// catalog records are skipped individually; an empty gameweek maps to
// ErrNotFound, the legitimate "no data yet" state.
func (s *SettlementService) FeaturedFixture(ctx context.Context, gameweek int) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.FeaturedFixture")
	defer span.End()

	if gameweek <= 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: gameweek must be greater than zero", ErrInvalidInput)
	}

	fixtures, err := s.catalog.ListByGameweek(ctx, gameweek)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("list fixtures for gameweek %d: %w", gameweek, err)
	}

	valid := make([]fixture.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if err := f.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping malformed fixture", "fixture_id", f.ID, "error", err)
			continue
		}
		valid = append(valid, f)
	}

	featured, ok := fixture.SelectFeatured(valid, s.tiers)
	if !ok {
		return fixture.Fixture{}, fmt.Errorf("%w: no fixtures for gameweek %d", ErrNotFound, gameweek)
	}
	return featured, nil
}

// SubmitEntry upserts a prediction, last-write-wins per participant and
// fixture. Entries for a fixture whose kickoff has passed are rejected
// here, before the core ever sees them.
func (s *SettlementService) SubmitEntry(ctx context.Context, e entry.Entry) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SubmitEntry")
	defer span.End()

	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	featured, err := s.FeaturedFixture(ctx, e.Gameweek)
	if err != nil {
		return err
	}
	if e.FixtureID != featured.ID {
		return fmt.Errorf("%w: entry fixture %s is not the featured fixture %s", ErrInvalidInput, e.FixtureID, featured.ID)
	}
	if !s.now().UTC().Before(featured.KickoffAt) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, entry.ErrAfterKickoff)
	}

	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = s.now().UTC()
	}
	if err := s.entryRepo.Upsert(ctx, e); err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// Settle runs winner determination for one (contest, gameweek) and records
// the outcome against the current pot. The pot value awarded is always the
// value before this settlement; the rollover arithmetic happens only on
// Advance. Re-running a settled gameweek is an idempotent read-back.
func (s *SettlementService) Settle(ctx context.Context, contestID string, gameweek int) (SettlementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.Settle")
	defer span.End()

	if contestID == "" || gameweek <= 0 {
		return SettlementResult{}, fmt.Errorf("%w: contest id and gameweek are required", ErrInvalidInput)
	}

	lock := s.settlementLock(contestID, gameweek)
	lock.Lock()
	defer lock.Unlock()

	pot, ok, err := s.potRepo.GetCurrent(ctx, contestID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("get current pot: %w", err)
	}
	if !ok {
		return SettlementResult{}, fmt.Errorf("%w: no pot for contest %s", ErrNotFound, contestID)
	}
	if pot.Gameweek != gameweek {
		return SettlementResult{}, fmt.Errorf("%w: current pot is at gameweek %d, not %d",
			ErrPreconditionViolation, pot.Gameweek, gameweek)
	}

	if pot.IsSettled() {
		recorded, err := s.winnerRepo.ListByGameweek(ctx, contestID, gameweek)
		if err != nil {
			return SettlementResult{}, fmt.Errorf("list recorded winners: %w", err)
		}
		return SettlementResult{
			ContestID:   contestID,
			Gameweek:    gameweek,
			PotAmount:   pot.CurrentAmount,
			Winners:     recorded,
			AlreadyDone: true,
		}, nil
	}

	featured, err := s.FeaturedFixture(ctx, gameweek)
	if err != nil {
		return SettlementResult{}, err
	}
	if !featured.Finished {
		return SettlementResult{}, fmt.Errorf("%w: featured fixture %s has no final result",
			ErrPreconditionViolation, featured.ID)
	}
	result, err := featured.FinalResult()
	if err != nil {
		return SettlementResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	entries, err := s.entryRepo.ListByFixture(ctx, featured.ID, gameweek)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list entries for fixture %s: %w", featured.ID, err)
	}

	// Snapshot semantics: anything invalid or submitted past kickoff is
	// rejected record-by-record, never the whole batch.
	valid := make([]entry.Entry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping malformed entry",
				"participant_id", e.ParticipantID, "error", err)
			skipped++
			continue
		}
		if e.SubmittedAt.After(featured.KickoffAt) {
			s.logger.WarnContext(ctx, "skipping post-kickoff entry",
				"participant_id", e.ParticipantID, "submitted_at", e.SubmittedAt)
			skipped++
			continue
		}
		valid = append(valid, e)
	}

	winners := winner.Determine(valid, result)
	awarded := winner.Award(winners, pot.CurrentAmount)
	for i := range awarded {
		awarded[i].ContestID = contestID
	}

	settledPot, err := pot.Settle(len(awarded), s.now())
	if err != nil {
		return SettlementResult{}, fmt.Errorf("%w: %v", ErrPreconditionViolation, err)
	}

	if len(awarded) > 0 {
		if err := s.winnerRepo.Append(ctx, awarded); err != nil {
			return SettlementResult{}, fmt.Errorf("append winners: %w", err)
		}
	}
	if err := s.potRepo.Upsert(ctx, settledPot); err != nil {
		return SettlementResult{}, fmt.Errorf("record settled pot: %w", err)
	}

	s.logger.InfoContext(ctx, "gameweek settled",
		"contest_id", contestID,
		"gameweek", gameweek,
		"fixture_id", featured.ID,
		"pot_amount", pot.CurrentAmount,
		"winner_count", len(awarded),
		"skipped_entries", skipped,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishSettlement(ctx, contestID, gameweek, len(awarded)); err != nil {
			s.logger.WarnContext(ctx, "settlement notification failed", "error", err)
		}
	}

	return SettlementResult{
		ContestID:  contestID,
		Gameweek:   gameweek,
		FixtureID:  featured.ID,
		PotAmount:  pot.CurrentAmount,
		Winners:    awarded,
		SkippedBad: skipped,
	}, nil
}

// Advance moves a contest to the next gameweek, applying the rollover rule
// to the settled pot; with no pot yet (first gameweek of a contest) it
// seeds a fresh one at startingAmount.
func (s *SettlementService) Advance(ctx context.Context, contestID string, toGameweek int, startingAmount int64) (contest.Pot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.Advance")
	defer span.End()

	if contestID == "" || toGameweek <= 0 {
		return contest.Pot{}, fmt.Errorf("%w: contest id and gameweek are required", ErrInvalidInput)
	}

	lock := s.settlementLock(contestID, toGameweek)
	lock.Lock()
	defer lock.Unlock()

	current, ok, err := s.potRepo.GetCurrent(ctx, contestID)
	if err != nil {
		return contest.Pot{}, fmt.Errorf("get current pot: %w", err)
	}

	if !ok {
		seeded, err := contest.NewSeededPot(contestID, toGameweek, startingAmount)
		if err != nil {
			return contest.Pot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.potRepo.Upsert(ctx, seeded); err != nil {
			return contest.Pot{}, fmt.Errorf("seed first pot: %w", err)
		}
		s.logger.InfoContext(ctx, "pot seeded",
			"contest_id", contestID, "gameweek", toGameweek, "amount", seeded.CurrentAmount)
		return seeded, nil
	}

	previous, next, err := current.Advance(toGameweek)
	if err != nil {
		return contest.Pot{}, fmt.Errorf("%w: %v", ErrPreconditionViolation, err)
	}

	// Two separate writes; the per-gameweek lock keeps them from
	// interleaving with a concurrent settlement read.
	if err := s.potRepo.Upsert(ctx, previous); err != nil {
		return contest.Pot{}, fmt.Errorf("demote settled pot: %w", err)
	}
	if err := s.potRepo.Upsert(ctx, next); err != nil {
		return contest.Pot{}, fmt.Errorf("record next pot: %w", err)
	}

	s.logger.InfoContext(ctx, "pot advanced",
		"contest_id", contestID,
		"from_gameweek", previous.Gameweek,
		"to_gameweek", next.Gameweek,
		"amount", next.CurrentAmount,
		"rolled_over", previous.State == contest.PotStateSettledNoWinner,
	)
	return next, nil
}

// CurrentPot exposes the active pot for a contest.
func (s *SettlementService) CurrentPot(ctx context.Context, contestID string) (contest.Pot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.CurrentPot")
	defer span.End()

	pot, ok, err := s.potRepo.GetCurrent(ctx, contestID)
	if err != nil {
		return contest.Pot{}, fmt.Errorf("get current pot: %w", err)
	}
	if !ok {
		return contest.Pot{}, fmt.Errorf("%w: no pot for contest %s", ErrNotFound, contestID)
	}
	return pot, nil
}

// WinnersByGameweek lists recorded winners for one gameweek.
func (s *SettlementService) WinnersByGameweek(ctx context.Context, contestID string, gameweek int) ([]winner.Winner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.WinnersByGameweek")
	defer span.End()

	if contestID == "" || gameweek <= 0 {
		return nil, fmt.Errorf("%w: contest id and gameweek are required", ErrInvalidInput)
	}
	winners, err := s.winnerRepo.ListByGameweek(ctx, contestID, gameweek)
	if err != nil {
		return nil, fmt.Errorf("list winners: %w", err)
	}
	return winners, nil
}

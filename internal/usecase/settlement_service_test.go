package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/contest"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/entry"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/fixture"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/winner"
)

type stubCatalog struct {
	fixtures map[int][]fixture.Fixture
	err      error
}

func (s *stubCatalog) ListByGameweek(_ context.Context, gameweek int) ([]fixture.Fixture, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.fixtures[gameweek], nil
}

type stubEntryRepo struct {
	mu      sync.Mutex
	entries map[entry.Key]entry.Entry
}

func newStubEntryRepo() *stubEntryRepo {
	return &stubEntryRepo{entries: make(map[entry.Key]entry.Entry)}
}

func (s *stubEntryRepo) Upsert(_ context.Context, e entry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Key()] = e
	return nil
}

func (s *stubEntryRepo) Get(_ context.Context, key entry.Key) (entry.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *stubEntryRepo) ListByFixture(_ context.Context, fixtureID string, gameweek int) ([]entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entry.Entry
	for _, e := range s.entries {
		if e.FixtureID == fixtureID && e.Gameweek == gameweek {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubPotRepo struct {
	mu   sync.Mutex
	pots map[string]map[int]contest.Pot
}

func newStubPotRepo() *stubPotRepo {
	return &stubPotRepo{pots: make(map[string]map[int]contest.Pot)}
}

func (s *stubPotRepo) Upsert(_ context.Context, pot contest.Pot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byGameweek, ok := s.pots[pot.ContestID]
	if !ok {
		byGameweek = make(map[int]contest.Pot)
		s.pots[pot.ContestID] = byGameweek
	}
	byGameweek[pot.Gameweek] = pot
	return nil
}

func (s *stubPotRepo) Get(_ context.Context, contestID string, gameweek int) (contest.Pot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pot, ok := s.pots[contestID][gameweek]
	return pot, ok, nil
}

func (s *stubPotRepo) GetCurrent(_ context.Context, contestID string) (contest.Pot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pot := range s.pots[contestID] {
		if pot.Active {
			return pot, true, nil
		}
	}
	return contest.Pot{}, false, nil
}

func (s *stubPotRepo) ListByContest(_ context.Context, contestID string) ([]contest.Pot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []contest.Pot
	for _, pot := range s.pots[contestID] {
		out = append(out, pot)
	}
	return out, nil
}

type stubWinnerRepo struct {
	mu      sync.Mutex
	records []winner.Winner
}

func (s *stubWinnerRepo) Append(_ context.Context, winners []winner.Winner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, winners...)
	return nil
}

func (s *stubWinnerRepo) ListByGameweek(_ context.Context, contestID string, gameweek int) ([]winner.Winner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []winner.Winner
	for _, w := range s.records {
		if w.ContestID == contestID && w.Gameweek == gameweek {
			out = append(out, w)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	calls atomic.Int32
	err   error
}

func (p *recordingPublisher) PublishSettlement(context.Context, string, int, int) error {
	p.calls.Add(1)
	return p.err
}

func intPtr(v int) *int { return &v }

func finishedFixture(id string, gameweek int, kickoff time.Time, home, away int, scorers ...fixture.GoalEvent) fixture.Fixture {
	return fixture.Fixture{
		ID:           id,
		Gameweek:     gameweek,
		CatalogOrder: 1,
		HomeTeamID:   "liverpool",
		AwayTeamID:   "arsenal",
		HomeTeam:     "Liverpool",
		AwayTeam:     "Arsenal",
		KickoffAt:    kickoff,
		HomeScore:    intPtr(home),
		AwayScore:    intPtr(away),
		Finished:     true,
		GoalEvents:   scorers,
	}
}

type settlementHarness struct {
	service *SettlementService
	catalog *stubCatalog
	entries *stubEntryRepo
	pots    *stubPotRepo
	winners *stubWinnerRepo
	pub     *recordingPublisher
	clock   time.Time
}

func newSettlementHarness(t *testing.T) *settlementHarness {
	t.Helper()
	catalog := &stubCatalog{fixtures: make(map[int][]fixture.Fixture)}
	entries := newStubEntryRepo()
	pots := newStubPotRepo()
	winners := &stubWinnerRepo{}
	pub := &recordingPublisher{}
	service := NewSettlementService(catalog, entries, pots, winners, fixture.DefaultTierConfig(), pub, nil)
	h := &settlementHarness{
		service: service,
		catalog: catalog,
		entries: entries,
		pots:    pots,
		winners: winners,
		pub:     pub,
		clock:   time.Date(2025, 9, 13, 12, 0, 0, 0, time.UTC),
	}
	service.now = func() time.Time { return h.clock }
	return h
}

func TestSettlementService_RolloverAcrossGameweeks(t *testing.T) {
	t.Parallel()

	h := newSettlementHarness(t)
	ctx := context.Background()
	kickoffGW5 := time.Date(2025, 9, 13, 15, 0, 0, 0, time.UTC)
	kickoffGW6 := time.Date(2025, 9, 20, 15, 0, 0, 0, time.UTC)

	salahGoal := fixture.GoalEvent{TeamID: "liverpool", PlayerID: "p-salah", PlayerName: "Mohamed Salah", Minute: 23}
	h.catalog.fixtures[5] = []fixture.Fixture{finishedFixture("fx-5", 5, kickoffGW5, 1, 0, salahGoal)}
	h.catalog.fixtures[6] = []fixture.Fixture{finishedFixture("fx-6", 6, kickoffGW6, 2, 1, salahGoal)}

	if _, err := h.service.Advance(ctx, "contest-1", 5, 100); err != nil {
		t.Fatalf("seed pot: %v", err)
	}

	// Gameweek 5: one entry, wrong scoreline, so nobody wins.
	h.entries.entries[entry.Key{ParticipantID: "p1", FixtureID: "fx-5", Gameweek: 5}] = entry.Entry{
		ParticipantID: "p1", FixtureID: "fx-5", Gameweek: 5,
		PredictedHomeScore: 3, PredictedAwayScore: 0,
		PredictedScorer: "Mohamed Salah - LIV FWD",
		SubmittedAt:     kickoffGW5.Add(-time.Hour),
	}

	settled, err := h.service.Settle(ctx, "contest-1", 5)
	if err != nil {
		t.Fatalf("settle gameweek 5: %v", err)
	}
	if len(settled.Winners) != 0 {
		t.Fatalf("gameweek 5 must have no winners, got %d", len(settled.Winners))
	}

	next, err := h.service.Advance(ctx, "contest-1", 6, 100)
	if err != nil {
		t.Fatalf("advance to gameweek 6: %v", err)
	}
	if next.CurrentAmount != 200 {
		t.Fatalf("pot after no-winner rollover: got %d want 200", next.CurrentAmount)
	}

	// Gameweek 6: exact score plus a valid scorer wins the doubled pot.
	h.entries.entries[entry.Key{ParticipantID: "p1", FixtureID: "fx-6", Gameweek: 6}] = entry.Entry{
		ParticipantID: "p1", FixtureID: "fx-6", Gameweek: 6,
		PredictedHomeScore: 2, PredictedAwayScore: 1,
		PredictedScorer: "Mohamed Salah - LIV FWD",
		SubmittedAt:     kickoffGW6.Add(-time.Hour),
	}

	settled, err = h.service.Settle(ctx, "contest-1", 6)
	if err != nil {
		t.Fatalf("settle gameweek 6: %v", err)
	}
	if len(settled.Winners) != 1 {
		t.Fatalf("gameweek 6 winners: got %d want 1", len(settled.Winners))
	}
	if settled.Winners[0].AwardedAmount != 200 {
		t.Fatalf("awarded amount: got %d want 200", settled.Winners[0].AwardedAmount)
	}

	next, err = h.service.Advance(ctx, "contest-1", 7, 100)
	if err != nil {
		t.Fatalf("advance to gameweek 7: %v", err)
	}
	if next.CurrentAmount != 100 {
		t.Fatalf("pot must reset to the seed after a win: got %d want 100", next.CurrentAmount)
	}
}

func TestSettlementService_SettleIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newSettlementHarness(t)
	ctx := context.Background()
	kickoff := time.Date(2025, 9, 13, 15, 0, 0, 0, time.UTC)
	h.catalog.fixtures[5] = []fixture.Fixture{finishedFixture("fx-5", 5, kickoff, 0, 0)}

	if _, err := h.service.Advance(ctx, "contest-1", 5, 100); err != nil {
		t.Fatalf("seed pot: %v", err)
	}
	h.entries.entries[entry.Key{ParticipantID: "p1", FixtureID: "fx-5", Gameweek: 5}] = entry.Entry{
		ParticipantID: "p1", FixtureID: "fx-5", Gameweek: 5,
		PredictedHomeScore: 0, PredictedAwayScore: 0,
		SubmittedAt: kickoff.Add(-time.Hour),
	}

	first, err := h.service.Settle(ctx, "contest-1", 5)
	if err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if first.AlreadyDone {
		t.Fatal("first settle must not report AlreadyDone")
	}
	if len(first.Winners) != 1 {
		t.Fatalf("goalless prediction with empty scorer must win, got %d winners", len(first.Winners))
	}

	second, err := h.service.Settle(ctx, "contest-1", 5)
	if err != nil {
		t.Fatalf("second settle: %v", err)
	}
	if !second.AlreadyDone {
		t.Fatal("second settle must report AlreadyDone")
	}
	if len(second.Winners) != 1 || second.Winners[0].ParticipantID != "p1" {
		t.Fatalf("second settle must read back the recorded winners, got %+v", second.Winners)
	}
	if got := h.pub.calls.Load(); got != 1 {
		t.Fatalf("publisher must fire once, got %d calls", got)
	}
}

func TestSettlementService_SettleSkipsBadEntries(t *testing.T) {
	t.Parallel()

	h := newSettlementHarness(t)
	ctx := context.Background()
	kickoff := time.Date(2025, 9, 13, 15, 0, 0, 0, time.UTC)
	salahGoal := fixture.GoalEvent{TeamID: "liverpool", PlayerID: "p-salah", PlayerName: "Mohamed Salah", Minute: 23}
	h.catalog.fixtures[5] = []fixture.Fixture{finishedFixture("fx-5", 5, kickoff, 1, 0, salahGoal)}

	if _, err := h.service.Advance(ctx, "contest-1", 5, 100); err != nil {
		t.Fatalf("seed pot: %v", err)
	}

	good := entry.Entry{
		ParticipantID: "p1", FixtureID: "fx-5", Gameweek: 5,
		PredictedHomeScore: 1, PredictedAwayScore: 0,
		PredictedScorer: "Mohamed Salah - LIV FWD",
		SubmittedAt:     kickoff.Add(-time.Hour),
	}
	late := good
	late.ParticipantID = "p2"
	late.SubmittedAt = kickoff.Add(time.Minute)
	malformed := good
	malformed.ParticipantID = "p3"
	malformed.PredictedHomeScore = -1
	h.entries.entries[good.Key()] = good
	h.entries.entries[late.Key()] = late
	h.entries.entries[malformed.Key()] = malformed

	settled, err := h.service.Settle(ctx, "contest-1", 5)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.SkippedBad != 2 {
		t.Fatalf("skipped entries: got %d want 2", settled.SkippedBad)
	}
	if len(settled.Winners) != 1 || settled.Winners[0].ParticipantID != "p1" {
		t.Fatalf("only the valid pre-kickoff entry may win, got %+v", settled.Winners)
	}
}

func TestSettlementService_SettlePreconditions(t *testing.T) {
	t.Parallel()

	h := newSettlementHarness(t)
	ctx := context.Background()

	if _, err := h.service.Settle(ctx, "contest-1", 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("settling without a pot must be ErrNotFound, got %v", err)
	}

	if _, err := h.service.Advance(ctx, "contest-1", 5, 100); err != nil {
		t.Fatalf("seed pot: %v", err)
	}
	if _, err := h.service.Settle(ctx, "contest-1", 6); !errors.Is(err, ErrPreconditionViolation) {
		t.Fatalf("settling the wrong gameweek must be a precondition violation, got %v", err)
	}

	// Fixture present but not finished.
	unfinished := fixture.Fixture{
		ID: "fx-5", Gameweek: 5, CatalogOrder: 1,
		HomeTeamID: "liverpool", AwayTeamID: "arsenal",
		HomeTeam: "Liverpool", AwayTeam: "Arsenal",
		KickoffAt: time.Date(2025, 9, 13, 15, 0, 0, 0, time.UTC),
	}
	h.catalog.fixtures[5] = []fixture.Fixture{unfinished}
	if _, err := h.service.Settle(ctx, "contest-1", 5); !errors.Is(err, ErrPreconditionViolation) {
		t.Fatalf("settling an unfinished fixture must be a precondition violation, got %v", err)
	}
}

func TestSettlementService_SubmitEntry(t *testing.T) {
	t.Parallel()

	h := newSettlementHarness(t)
	ctx := context.Background()
	kickoff := time.Date(2025, 9, 13, 15, 0, 0, 0, time.UTC)
	h.catalog.fixtures[5] = []fixture.Fixture{{
		ID: "fx-5", Gameweek: 5, CatalogOrder: 1,
		HomeTeamID: "liverpool", AwayTeamID: "arsenal",
		HomeTeam: "Liverpool", AwayTeam: "Arsenal",
		KickoffAt: kickoff,
	}}

	e := entry.Entry{
		ParticipantID: "p1", FixtureID: "fx-5", Gameweek: 5,
		PredictedHomeScore: 2, PredictedAwayScore: 1,
		PredictedScorer: "Mohamed Salah - LIV FWD",
	}
	if err := h.service.SubmitEntry(ctx, e); err != nil {
		t.Fatalf("submit before kickoff: %v", err)
	}
	stored, ok, _ := h.entries.Get(ctx, e.Key())
	if !ok || stored.SubmittedAt.IsZero() {
		t.Fatalf("stored entry must carry a submission timestamp, got %+v", stored)
	}

	// Resubmission overwrites the live entry.
	e.PredictedHomeScore = 3
	if err := h.service.SubmitEntry(ctx, e); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	stored, _, _ = h.entries.Get(ctx, e.Key())
	if stored.PredictedHomeScore != 3 {
		t.Fatalf("resubmission must overwrite, got home score %d", stored.PredictedHomeScore)
	}

	wrongFixture := e
	wrongFixture.FixtureID = "fx-other"
	if err := h.service.SubmitEntry(ctx, wrongFixture); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("entry for a non-featured fixture must be invalid, got %v", err)
	}

	h.clock = kickoff
	if err := h.service.SubmitEntry(ctx, e); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("entry at kickoff must be rejected, got %v", err)
	}
}

func TestSettlementService_FeaturedFixture(t *testing.T) {
	t.Parallel()

	h := newSettlementHarness(t)
	ctx := context.Background()

	if _, err := h.service.FeaturedFixture(ctx, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty gameweek must be ErrNotFound, got %v", err)
	}
	if _, err := h.service.FeaturedFixture(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("non-positive gameweek must be invalid, got %v", err)
	}

	kickoff := time.Date(2025, 9, 13, 15, 0, 0, 0, time.UTC)
	malformed := fixture.Fixture{ID: "", Gameweek: 5, CatalogOrder: 1, KickoffAt: kickoff}
	valid := fixture.Fixture{
		ID: "fx-ok", Gameweek: 5, CatalogOrder: 2,
		HomeTeamID: "burnley", AwayTeamID: "brentford",
		HomeTeam: "Burnley", AwayTeam: "Brentford",
		KickoffAt: kickoff,
	}
	h.catalog.fixtures[5] = []fixture.Fixture{malformed, valid}

	featured, err := h.service.FeaturedFixture(ctx, 5)
	if err != nil {
		t.Fatalf("FeaturedFixture: %v", err)
	}
	if featured.ID != "fx-ok" {
		t.Fatalf("malformed record must be skipped, got %s", featured.ID)
	}
}

func TestSweepService_Run(t *testing.T) {
	t.Parallel()

	h := newSettlementHarness(t)
	ctx := context.Background()
	kickoff := time.Date(2025, 9, 13, 15, 0, 0, 0, time.UTC)
	h.catalog.fixtures[5] = []fixture.Fixture{finishedFixture("fx-5", 5, kickoff, 0, 0)}

	if _, err := h.service.Advance(ctx, "contest-a", 5, 100); err != nil {
		t.Fatalf("seed contest-a: %v", err)
	}
	if _, err := h.service.Advance(ctx, "contest-b", 5, 100); err != nil {
		t.Fatalf("seed contest-b: %v", err)
	}

	sweep := NewSweepService(h.service)
	result, err := sweep.Run(ctx, SweepInput{
		ContestIDs: []string{"contest-a", "contest-b", "contest-a", "contest-missing"},
		Gameweek:   5,
	})
	if err != nil {
		t.Fatalf("sweep run: %v", err)
	}

	if result.ContestCount != 3 {
		t.Fatalf("duplicate contest ids must collapse: got %d want 3", result.ContestCount)
	}
	if result.SettledCount != 2 {
		t.Fatalf("settled count: got %d want 2", result.SettledCount)
	}
	if result.SkippedCount != 1 {
		t.Fatalf("missing contest must be skipped, got %d skipped", result.SkippedCount)
	}
	if len(result.Tasks) != 3 {
		t.Fatalf("task rows: got %d want 3", len(result.Tasks))
	}
	for i := 1; i < len(result.Tasks); i++ {
		if result.Tasks[i-1].ContestID > result.Tasks[i].ContestID {
			t.Fatal("task rows must be sorted by contest id")
		}
	}

	// A second sweep over the same gameweek only skips.
	again, err := sweep.Run(ctx, SweepInput{ContestIDs: []string{"contest-a", "contest-b"}, Gameweek: 5})
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if again.SettledCount != 0 || again.SkippedCount != 2 {
		t.Fatalf("re-sweep must skip settled pots: %+v", again)
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	sweepStatusSettled = "settled"
	sweepStatusSkipped = "skipped"
	sweepStatusFailed  = "failed"

	defaultSweepWorkerCount = 4
	maxSweepWorkerCount     = 16
)

// SweepInput names the contests a sweep run should try to settle for one
// gameweek. MaxWorkers bounds pool size; zero means the default.
type SweepInput struct {
	ContestIDs []string
	Gameweek   int
	MaxWorkers int
}

// SweepTaskResult is one row of a sweep run.
type SweepTaskResult struct {
	ContestID   string `json:"contestId"`
	Gameweek    int    `json:"gameweek"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	WinnerCount int    `json:"winnerCount"`
	PotAmount   int64  `json:"potAmount"`
	DurationMs  int64  `json:"durationMs"`
}

// SweepResult aggregates a whole sweep run.
type SweepResult struct {
	ContestCount int               `json:"contestCount"`
	WorkerCount  int               `json:"workerCount"`
	SettledCount int               `json:"settledCount"`
	SkippedCount int               `json:"skippedCount"`
	FailedCount  int               `json:"failedCount"`
	Tasks        []SweepTaskResult `json:"tasks"`
}

// SweepService settles many contests for a gameweek in one run, fanning the
// per-contest settlements out over a bounded worker pool. Each contest is an
// independent task; one failing contest never stops the others.
type SweepService struct {
	settlement *SettlementService
}

func NewSweepService(settlement *SettlementService) *SweepService {
	return &SweepService{settlement: settlement}
}

func normalizeSweepWorkerCount(requested, taskCount int) int {
	count := requested
	if count <= 0 {
		count = defaultSweepWorkerCount
	}
	if count > maxSweepWorkerCount {
		count = maxSweepWorkerCount
	}
	if taskCount > 0 && count > taskCount {
		count = taskCount
	}
	if count < 1 {
		count = 1
	}
	return count
}

// Run settles every named contest at the given gameweek. Already-settled
// pots count as skipped, not failed, so sweeps are safe to re-run.
func (s *SweepService) Run(ctx context.Context, input SweepInput) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepService.Run")
	defer span.End()

	if input.Gameweek < 1 {
		return SweepResult{}, fmt.Errorf("%w: gameweek must be positive", ErrInvalidInput)
	}
	contestIDs := dedupeContestIDs(input.ContestIDs)
	if len(contestIDs) == 0 {
		return SweepResult{}, fmt.Errorf("%w: at least one contest id is required", ErrInvalidInput)
	}

	workerCount := normalizeSweepWorkerCount(input.MaxWorkers, len(contestIDs))
	result := SweepResult{
		ContestCount: len(contestIDs),
		WorkerCount:  workerCount,
		Tasks:        make([]SweepTaskResult, 0, len(contestIDs)),
	}

	rows := make(chan SweepTaskResult, len(contestIDs))

	var settledCount atomic.Int32
	var skippedCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, contestID := range contestIDs {
		contestID := contestID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := SweepTaskResult{
				ContestID: contestID,
				Gameweek:  input.Gameweek,
			}

			settled, err := s.settlement.Settle(ctx, contestID, input.Gameweek)
			switch {
			case err != nil:
				row.Status = sweepStatusFailed
				row.Message = err.Error()
				if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPreconditionViolation) {
					row.Status = sweepStatusSkipped
				}
			case settled.AlreadyDone:
				row.Status = sweepStatusSkipped
				row.Message = "already settled"
				row.WinnerCount = len(settled.Winners)
				row.PotAmount = settled.PotAmount
			default:
				row.Status = sweepStatusSettled
				row.WinnerCount = len(settled.Winners)
				row.PotAmount = settled.PotAmount
			}
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case sweepStatusSettled:
				settledCount.Add(1)
			case sweepStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return SweepResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].ContestID < result.Tasks[j].ContestID
	})

	result.SettledCount = int(settledCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func dedupeContestIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/winner"
	qb "github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/querybuilder"
)

type WinnerRepository struct {
	db *sqlx.DB
}

func NewWinnerRepository(db *sqlx.DB) *WinnerRepository {
	return &WinnerRepository{db: db}
}

// Append writes the whole settlement batch in one transaction. The conflict
// target makes a replayed batch a no-op rather than a duplicate ledger row.
func (r *WinnerRepository) Append(ctx context.Context, winners []winner.Winner) error {
	if len(winners) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append winners tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, w := range winners {
		model := winnerInsertModel{
			ContestID:          w.ContestID,
			Gameweek:           w.Gameweek,
			FixtureID:          w.FixtureID,
			ParticipantID:      w.ParticipantID,
			PredictedHomeScore: w.PredictedHomeScore,
			PredictedAwayScore: w.PredictedAwayScore,
			PredictedScorer:    w.PredictedScorer,
			SubmittedAt:        w.SubmittedAt.UTC(),
			AwardedAmount:      w.AwardedAmount,
		}

		query, args, err := qb.InsertModel("winners", model, `ON CONFLICT (contest_id, gameweek, participant_id) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("build insert winner query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert winner participant=%s gameweek=%d: %w", w.ParticipantID, w.Gameweek, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append winners tx: %w", err)
	}
	return nil
}

func (r *WinnerRepository) ListByGameweek(ctx context.Context, contestID string, gameweek int) ([]winner.Winner, error) {
	query, args, err := qb.Select("*").From("winners").
		Where(
			qb.Eq("contest_id", contestID),
			qb.Eq("gameweek", gameweek),
		).
		OrderBy("submitted_at", "participant_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select winners query: %w", err)
	}

	var rows []winnerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select winners by gameweek: %w", err)
	}

	out := make([]winner.Winner, 0, len(rows))
	for _, row := range rows {
		out = append(out, winner.Winner{
			ContestID:          row.ContestID,
			Gameweek:           row.Gameweek,
			FixtureID:          row.FixtureID,
			ParticipantID:      row.ParticipantID,
			PredictedHomeScore: row.PredictedHomeScore,
			PredictedAwayScore: row.PredictedAwayScore,
			PredictedScorer:    row.PredictedScorer,
			SubmittedAt:        row.SubmittedAt,
			AwardedAmount:      row.AwardedAmount,
		})
	}
	return out, nil
}

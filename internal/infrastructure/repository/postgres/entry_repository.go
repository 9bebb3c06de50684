package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/entry"
	qb "github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/querybuilder"
)

type EntryRepository struct {
	db *sqlx.DB
}

func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Upsert(ctx context.Context, e entry.Entry) error {
	model := entryInsertModel{
		ParticipantID:      e.ParticipantID,
		FixtureID:          e.FixtureID,
		Gameweek:           e.Gameweek,
		PredictedHomeScore: e.PredictedHomeScore,
		PredictedAwayScore: e.PredictedAwayScore,
		PredictedScorer:    e.PredictedScorer,
		SubmittedAt:        e.SubmittedAt.UTC(),
	}

	query, args, err := qb.InsertModel("entries", model, `ON CONFLICT (participant_id, fixture_public_id, gameweek) WHERE deleted_at IS NULL
DO UPDATE SET
    predicted_home_score = EXCLUDED.predicted_home_score,
    predicted_away_score = EXCLUDED.predicted_away_score,
    predicted_scorer = EXCLUDED.predicted_scorer,
    submitted_at = EXCLUDED.submitted_at,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert entry participant=%s fixture=%s: %w", e.ParticipantID, e.FixtureID, err)
	}
	return nil
}

func (r *EntryRepository) Get(ctx context.Context, key entry.Key) (entry.Entry, bool, error) {
	query, args, err := qb.Select("*").From("entries").
		Where(
			qb.Eq("participant_id", key.ParticipantID),
			qb.Eq("fixture_public_id", key.FixtureID),
			qb.Eq("gameweek", key.Gameweek),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return entry.Entry{}, false, fmt.Errorf("build select entry query: %w", err)
	}

	var row entryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return entry.Entry{}, false, nil
		}
		return entry.Entry{}, false, fmt.Errorf("select entry: %w", err)
	}
	return entryFromRow(row), true, nil
}

func (r *EntryRepository) ListByFixture(ctx context.Context, fixtureID string, gameweek int) ([]entry.Entry, error) {
	query, args, err := qb.Select("*").From("entries").
		Where(
			qb.Eq("fixture_public_id", fixtureID),
			qb.Eq("gameweek", gameweek),
			qb.IsNull("deleted_at"),
		).
		OrderBy("submitted_at", "participant_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select entries by fixture query: %w", err)
	}

	var rows []entryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select entries by fixture: %w", err)
	}

	out := make([]entry.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryFromRow(row))
	}
	return out, nil
}

func entryFromRow(row entryTableModel) entry.Entry {
	return entry.Entry{
		ParticipantID:      row.ParticipantID,
		FixtureID:          row.FixtureID,
		Gameweek:           row.Gameweek,
		PredictedHomeScore: row.PredictedHomeScore,
		PredictedAwayScore: row.PredictedAwayScore,
		PredictedScorer:    row.PredictedScorer,
		SubmittedAt:        row.SubmittedAt,
	}
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/contest"
	qb "github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/querybuilder"
)

type PotRepository struct {
	db *sqlx.DB
}

func NewPotRepository(db *sqlx.DB) *PotRepository {
	return &PotRepository{db: db}
}

func (r *PotRepository) Upsert(ctx context.Context, pot contest.Pot) error {
	model := potInsertModel{
		ContestID:      pot.ContestID,
		Gameweek:       pot.Gameweek,
		CurrentAmount:  pot.CurrentAmount,
		StartingAmount: pot.StartingAmount,
		State:          string(pot.State),
		Active:         pot.Active,
		SettledAt:      optionalTime(pot.SettledAt),
	}

	query, args, err := qb.InsertModel("pots", model, `ON CONFLICT (contest_id, gameweek)
DO UPDATE SET
    current_amount = EXCLUDED.current_amount,
    starting_amount = EXCLUDED.starting_amount,
    state = EXCLUDED.state,
    active = EXCLUDED.active,
    settled_at = EXCLUDED.settled_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert pot query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert pot contest=%s gameweek=%d: %w", pot.ContestID, pot.Gameweek, err)
	}
	return nil
}

func (r *PotRepository) Get(ctx context.Context, contestID string, gameweek int) (contest.Pot, bool, error) {
	query, args, err := qb.Select("*").From("pots").
		Where(
			qb.Eq("contest_id", contestID),
			qb.Eq("gameweek", gameweek),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return contest.Pot{}, false, fmt.Errorf("build select pot query: %w", err)
	}

	var row potTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Pot{}, false, nil
		}
		return contest.Pot{}, false, fmt.Errorf("select pot: %w", err)
	}
	return potFromRow(row), true, nil
}

func (r *PotRepository) GetCurrent(ctx context.Context, contestID string) (contest.Pot, bool, error) {
	query, args, err := qb.Select("*").From("pots").
		Where(
			qb.Eq("contest_id", contestID),
			qb.Eq("active", true),
		).
		OrderBy("gameweek DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return contest.Pot{}, false, fmt.Errorf("build select current pot query: %w", err)
	}

	var row potTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Pot{}, false, nil
		}
		return contest.Pot{}, false, fmt.Errorf("select current pot: %w", err)
	}
	return potFromRow(row), true, nil
}

func (r *PotRepository) ListByContest(ctx context.Context, contestID string) ([]contest.Pot, error) {
	query, args, err := qb.Select("*").From("pots").
		Where(qb.Eq("contest_id", contestID)).
		OrderBy("gameweek").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pots by contest query: %w", err)
	}

	var rows []potTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pots by contest: %w", err)
	}

	out := make([]contest.Pot, 0, len(rows))
	for _, row := range rows {
		out = append(out, potFromRow(row))
	}
	return out, nil
}

func potFromRow(row potTableModel) contest.Pot {
	return contest.Pot{
		ContestID:      row.ContestID,
		Gameweek:       row.Gameweek,
		CurrentAmount:  row.CurrentAmount,
		StartingAmount: row.StartingAmount,
		State:          contest.PotState(row.State),
		Active:         row.Active,
		SettledAt:      row.SettledAt,
	}
}

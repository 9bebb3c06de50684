package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/payout"
	qb "github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/platform/querybuilder"
)

type PayoutRepository struct {
	db *sqlx.DB
}

func NewPayoutRepository(db *sqlx.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) Upsert(ctx context.Context, structure payout.Structure) error {
	chipJSON, err := sonic.MarshalString(structure.ChipBonuses)
	if err != nil {
		return fmt.Errorf("marshal chip bonuses: %w", err)
	}

	model := payoutInsertModel{
		SeasonID:       structure.SeasonID,
		SeasonWinners:  pq.Int64Array(structure.SeasonWinners),
		WeeklyAPerWeek: structure.WeeklyAPerWeek,
		WeeklyBPerWeek: structure.WeeklyBPerWeek,
		SideWeeksA:     structure.SideWeeksA,
		SideWeeksB:     structure.SideWeeksB,
		ChipBonuses:    chipJSON,
		TotalBudget:    structure.TotalBudget,
		Confirmed:      structure.Confirmed,
	}

	query, args, err := qb.InsertModel("payout_structures", model, `ON CONFLICT (season_id)
DO UPDATE SET
    season_winners = EXCLUDED.season_winners,
    weekly_a_per_week = EXCLUDED.weekly_a_per_week,
    weekly_b_per_week = EXCLUDED.weekly_b_per_week,
    side_weeks_a = EXCLUDED.side_weeks_a,
    side_weeks_b = EXCLUDED.side_weeks_b,
    chip_bonuses = EXCLUDED.chip_bonuses,
    total_budget = EXCLUDED.total_budget,
    confirmed = EXCLUDED.confirmed,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert payout structure query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert payout structure season=%s: %w", structure.SeasonID, err)
	}
	return nil
}

func (r *PayoutRepository) GetBySeason(ctx context.Context, seasonID string) (payout.Structure, bool, error) {
	query, args, err := qb.Select("*").From("payout_structures").
		Where(qb.Eq("season_id", seasonID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return payout.Structure{}, false, fmt.Errorf("build select payout structure query: %w", err)
	}

	var row payoutTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return payout.Structure{}, false, nil
		}
		return payout.Structure{}, false, fmt.Errorf("select payout structure: %w", err)
	}

	var chips map[string]int64
	if row.ChipBonuses != "" {
		if err := sonic.UnmarshalString(row.ChipBonuses, &chips); err != nil {
			return payout.Structure{}, false, fmt.Errorf("unmarshal chip bonuses season=%s: %w", seasonID, err)
		}
	}

	return payout.Structure{
		SeasonID:       row.SeasonID,
		SeasonWinners:  []int64(row.SeasonWinners),
		WeeklyAPerWeek: row.WeeklyAPerWeek,
		WeeklyBPerWeek: row.WeeklyBPerWeek,
		SideWeeksA:     row.SideWeeksA,
		SideWeeksB:     row.SideWeeksB,
		ChipBonuses:    chips,
		TotalBudget:    row.TotalBudget,
		Confirmed:      row.Confirmed,
	}, true, nil
}

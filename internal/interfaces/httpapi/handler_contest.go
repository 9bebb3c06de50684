package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/contest"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/fixture"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/winner"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/usecase"
)

type fixtureDTO struct {
	ID         string         `json:"id"`
	Gameweek   int            `json:"gameweek"`
	HomeTeam   string         `json:"homeTeam"`
	AwayTeam   string         `json:"awayTeam"`
	HomeTeamID string         `json:"homeTeamId"`
	AwayTeamID string         `json:"awayTeamId"`
	KickoffAt  string         `json:"kickoffAt"`
	Finished   bool           `json:"finished"`
	HomeScore  *int           `json:"homeScore,omitempty"`
	AwayScore  *int           `json:"awayScore,omitempty"`
	GoalEvents []goalEventDTO `json:"goalEvents,omitempty"`
}

type goalEventDTO struct {
	TeamID     string `json:"teamId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Minute     int    `json:"minute"`
}

type potDTO struct {
	ContestID      string `json:"contestId"`
	Gameweek       int    `json:"gameweek"`
	CurrentAmount  int64  `json:"currentAmount"`
	StartingAmount int64  `json:"startingAmount"`
	State          string `json:"state"`
	SettledAt      string `json:"settledAt,omitempty"`
}

type winnerDTO struct {
	ParticipantID      string `json:"participantId"`
	Gameweek           int    `json:"gameweek"`
	FixtureID          string `json:"fixtureId"`
	PredictedHomeScore int    `json:"predictedHomeScore"`
	PredictedAwayScore int    `json:"predictedAwayScore"`
	PredictedScorer    string `json:"predictedScorer,omitempty"`
	AwardedAmount      int64  `json:"awardedAmount"`
}

type settlementResultDTO struct {
	ContestID      string      `json:"contestId"`
	Gameweek       int         `json:"gameweek"`
	FixtureID      string      `json:"fixtureId,omitempty"`
	PotAmount      int64       `json:"potAmount"`
	Winners        []winnerDTO `json:"winners"`
	AlreadyDone    bool        `json:"alreadyDone"`
	SkippedEntries int         `json:"skippedEntries"`
}

func fixtureToDTO(f fixture.Fixture) fixtureDTO {
	dto := fixtureDTO{
		ID:         f.ID,
		Gameweek:   f.Gameweek,
		HomeTeam:   f.HomeTeam,
		AwayTeam:   f.AwayTeam,
		HomeTeamID: f.HomeTeamID,
		AwayTeamID: f.AwayTeamID,
		KickoffAt:  f.KickoffAt.UTC().Format(time.RFC3339),
		Finished:   f.Finished,
		HomeScore:  f.HomeScore,
		AwayScore:  f.AwayScore,
	}
	for _, event := range f.GoalEvents {
		dto.GoalEvents = append(dto.GoalEvents, goalEventDTO{
			TeamID:     event.TeamID,
			PlayerID:   event.PlayerID,
			PlayerName: event.PlayerName,
			Minute:     event.Minute,
		})
	}
	return dto
}

func potToDTO(p contest.Pot) potDTO {
	dto := potDTO{
		ContestID:      p.ContestID,
		Gameweek:       p.Gameweek,
		CurrentAmount:  p.CurrentAmount,
		StartingAmount: p.StartingAmount,
		State:          string(p.State),
	}
	if p.SettledAt != nil {
		dto.SettledAt = p.SettledAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func winnersToDTO(winners []winner.Winner) []winnerDTO {
	out := make([]winnerDTO, 0, len(winners))
	for _, w := range winners {
		out = append(out, winnerDTO{
			ParticipantID:      w.ParticipantID,
			Gameweek:           w.Gameweek,
			FixtureID:          w.FixtureID,
			PredictedHomeScore: w.PredictedHomeScore,
			PredictedAwayScore: w.PredictedAwayScore,
			PredictedScorer:    w.PredictedScorer,
			AwardedAmount:      w.AwardedAmount,
		})
	}
	return out
}

func parseGameweekPath(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("gameweek"))
	gameweek, err := strconv.Atoi(raw)
	if err != nil || gameweek <= 0 {
		return 0, fmt.Errorf("%w: gameweek path segment %q is not a positive integer", usecase.ErrInvalidInput, raw)
	}
	return gameweek, nil
}

func (h *Handler) GetFeaturedFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFeaturedFixture")
	defer span.End()

	gameweek, err := parseGameweekPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	featured, err := h.settlementService.FeaturedFixture(ctx, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get featured fixture failed", "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(featured))
}

func (h *Handler) GetCurrentPot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentPot")
	defer span.End()

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	pot, err := h.settlementService.CurrentPot(ctx, contestID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, potToDTO(pot))
}

func (h *Handler) ListWinners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWinners")
	defer span.End()

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	gameweek, err := parseGameweekPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	winners, err := h.settlementService.WinnersByGameweek(ctx, contestID, gameweek)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, winnersToDTO(winners))
}

type settleJobRequest struct {
	ContestID string `json:"contest_id" validate:"required"`
	Gameweek  int    `json:"gameweek" validate:"required,gt=0"`
}

func (h *Handler) RunSettleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettleJob")
	defer span.End()

	var req settleJobRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.settlementService.Settle(ctx, req.ContestID, req.Gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "settle job failed", "contest_id", req.ContestID, "gameweek", req.Gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settlementResultDTO{
		ContestID:      result.ContestID,
		Gameweek:       result.Gameweek,
		FixtureID:      result.FixtureID,
		PotAmount:      result.PotAmount,
		Winners:        winnersToDTO(result.Winners),
		AlreadyDone:    result.AlreadyDone,
		SkippedEntries: result.SkippedBad,
	})
}

type advanceJobRequest struct {
	ContestID      string `json:"contest_id" validate:"required"`
	ToGameweek     int    `json:"to_gameweek" validate:"required,gt=0"`
	StartingAmount int64  `json:"starting_amount" validate:"required,gt=0"`
}

func (h *Handler) RunAdvanceJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAdvanceJob")
	defer span.End()

	var req advanceJobRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	pot, err := h.settlementService.Advance(ctx, req.ContestID, req.ToGameweek, req.StartingAmount)
	if err != nil {
		h.logger.WarnContext(ctx, "advance job failed", "contest_id", req.ContestID, "to_gameweek", req.ToGameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, potToDTO(pot))
}

type sweepJobRequest struct {
	ContestIDs []string `json:"contest_ids" validate:"required,min=1,dive,required"`
	Gameweek   int      `json:"gameweek" validate:"required,gt=0"`
	MaxWorkers int      `json:"max_workers" validate:"omitempty,gt=0"`
}

func (h *Handler) RunSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSweepJob")
	defer span.End()

	var req sweepJobRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.sweepService.Run(ctx, usecase.SweepInput{
		ContestIDs: req.ContestIDs,
		Gameweek:   req.Gameweek,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "sweep job failed", "gameweek", req.Gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

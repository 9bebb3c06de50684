package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/entry"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/usecase"
)

type submitEntryRequest struct {
	ParticipantID      string `json:"participant_id" validate:"required"`
	FixtureID          string `json:"fixture_id" validate:"required"`
	Gameweek           int    `json:"gameweek" validate:"required,gt=0"`
	PredictedHomeScore int    `json:"predicted_home_score" validate:"gte=0"`
	PredictedAwayScore int    `json:"predicted_away_score" validate:"gte=0"`
	PredictedScorer    string `json:"predicted_scorer"`
}

type entryDTO struct {
	ParticipantID      string `json:"participantId"`
	FixtureID          string `json:"fixtureId"`
	Gameweek           int    `json:"gameweek"`
	PredictedHomeScore int    `json:"predictedHomeScore"`
	PredictedAwayScore int    `json:"predictedAwayScore"`
	PredictedScorer    string `json:"predictedScorer,omitempty"`
}

func (h *Handler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitEntry")
	defer span.End()

	var req submitEntryRequest
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

	submitted := entry.Entry{
		ParticipantID:      req.ParticipantID,
		FixtureID:          req.FixtureID,
		Gameweek:           req.Gameweek,
		PredictedHomeScore: req.PredictedHomeScore,
		PredictedAwayScore: req.PredictedAwayScore,
		PredictedScorer:    req.PredictedScorer,
	}
	if err := h.settlementService.SubmitEntry(ctx, submitted); err != nil {
		h.logger.WarnContext(ctx, "submit entry failed",
			"participant_id", req.ParticipantID,
			"fixture_id", req.FixtureID,
			"gameweek", req.Gameweek,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, entryDTO{
		ParticipantID:      submitted.ParticipantID,
		FixtureID:          submitted.FixtureID,
		Gameweek:           submitted.Gameweek,
		PredictedHomeScore: submitted.PredictedHomeScore,
		PredictedAwayScore: submitted.PredictedAwayScore,
		PredictedScorer:    submitted.PredictedScorer,
	})
}

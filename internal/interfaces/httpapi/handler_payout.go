package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/domain/payout"
	"github.com/nikunjdesai1987/ordinary-gentlemen-sub000/internal/usecase"
)

type payoutInputRequest struct {
	SeasonID         string   `json:"season_id" validate:"required"`
	EntryFee         int64    `json:"entry_fee" validate:"required,gt=0"`
	ParticipantCount int      `json:"participant_count" validate:"required,gte=4"`
	SideWeeksA       int      `json:"side_weeks_a" validate:"required,gt=0"`
	SideWeeksB       int      `json:"side_weeks_b" validate:"required,gt=0"`
	ChipCategories   []string `json:"chip_categories" validate:"required,min=1,dive,required"`
	Seed             *int64   `json:"seed"`
}

func (req payoutInputRequest) toInput() payout.Input {
	return payout.Input{
		EntryFee:         req.EntryFee,
		ParticipantCount: req.ParticipantCount,
		SideWeeksA:       req.SideWeeksA,
		SideWeeksB:       req.SideWeeksB,
		ChipCategories:   req.ChipCategories,
	}
}

type payoutSeasonRequest struct {
	SeasonID string `json:"season_id" validate:"required"`
}

type payoutStructureDTO struct {
	SeasonID       string           `json:"seasonId"`
	SeasonWinners  []int64          `json:"seasonWinners"`
	WeeklyAPerWeek int64            `json:"weeklyAPerWeek"`
	WeeklyBPerWeek int64            `json:"weeklyBPerWeek"`
	SideWeeksA     int              `json:"sideWeeksA"`
	SideWeeksB     int              `json:"sideWeeksB"`
	ChipBonuses    map[string]int64 `json:"chipBonuses"`
	TotalBudget    int64            `json:"totalBudget"`
	TotalPayout    int64            `json:"totalPayout"`
	Confirmed      bool             `json:"confirmed"`
}

func structureToDTO(s payout.Structure) payoutStructureDTO {
	return payoutStructureDTO{
		SeasonID:       s.SeasonID,
		SeasonWinners:  s.SeasonWinners,
		WeeklyAPerWeek: s.WeeklyAPerWeek,
		WeeklyBPerWeek: s.WeeklyBPerWeek,
		SideWeeksA:     s.SideWeeksA,
		SideWeeksB:     s.SideWeeksB,
		ChipBonuses:    s.ChipBonuses,
		TotalBudget:    s.TotalBudget,
		TotalPayout:    s.Total(),
		Confirmed:      s.Confirmed,
	}
}

func (h *Handler) decodePayoutRequest(w http.ResponseWriter, r *http.Request, target any) bool {
	ctx := r.Context()
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return false
	}
	if err := h.validateRequest(ctx, target); err != nil {
		writeError(ctx, w, err)
		return false
	}
	return true
}

func (h *Handler) GetPayoutStructure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPayoutStructure")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	structure, err := h.payoutService.GetStructure(ctx, seasonID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, structureToDTO(structure))
}

func (h *Handler) ComputePayoutStructure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ComputePayoutStructure")
	defer span.End()

	var req payoutInputRequest
	if !h.decodePayoutRequest(w, r.WithContext(ctx), &req) {
		return
	}

	structure, err := h.payoutService.ComputeStructure(ctx, req.SeasonID, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "compute payout structure failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, structureToDTO(structure))
}

func (h *Handler) RecalculatePayoutStructure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculatePayoutStructure")
	defer span.End()

	var req payoutInputRequest
	if !h.decodePayoutRequest(w, r.WithContext(ctx), &req) {
		return
	}

	var seed int64
	if req.Seed != nil {
		seed = *req.Seed
	}

	structure, err := h.payoutService.RecalculateStructure(ctx, req.SeasonID, req.toInput(), seed)
	if err != nil {
		h.logger.WarnContext(ctx, "recalculate payout structure failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, structureToDTO(structure))
}

func (h *Handler) ConfirmPayoutStructure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmPayoutStructure")
	defer span.End()

	var req payoutSeasonRequest
	if !h.decodePayoutRequest(w, r.WithContext(ctx), &req) {
		return
	}

	structure, err := h.payoutService.ConfirmStructure(ctx, req.SeasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm payout structure failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, structureToDTO(structure))
}

func (h *Handler) UnfreezePayoutStructure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnfreezePayoutStructure")
	defer span.End()

	var req payoutSeasonRequest
	if !h.decodePayoutRequest(w, r.WithContext(ctx), &req) {
		return
	}

	structure, err := h.payoutService.UnfreezeStructure(ctx, req.SeasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "unfreeze payout structure failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, structureToDTO(structure))
}

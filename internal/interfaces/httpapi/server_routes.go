package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerContestRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/featured-fixture", handler.GetFeaturedFixture)
	mux.HandleFunc("POST /v1/entries", handler.SubmitEntry)
	mux.HandleFunc("GET /v1/contests/{contestID}/pot", handler.GetCurrentPot)
	mux.HandleFunc("GET /v1/contests/{contestID}/gameweeks/{gameweek}/winners", handler.ListWinners)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/payouts", handler.GetPayoutStructure)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/settle", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSettleJob)))
	mux.Handle("POST /v1/internal/jobs/advance", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAdvanceJob)))
	mux.Handle("POST /v1/internal/jobs/sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSweepJob)))
	mux.Handle("POST /v1/internal/payouts/compute", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ComputePayoutStructure)))
	mux.Handle("POST /v1/internal/payouts/recalculate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecalculatePayoutStructure)))
	mux.Handle("POST /v1/internal/payouts/confirm", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ConfirmPayoutStructure)))
	mux.Handle("POST /v1/internal/payouts/unfreeze", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UnfreezePayoutStructure)))
}

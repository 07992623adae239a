package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/draft"
	"github.com/trendforge/fantasymarket/internal/models"
	"github.com/trendforge/fantasymarket/internal/scoring"
)

// API maps HTTP requests onto orchestrator operations and score reads.
type API struct {
	orch    *draft.Orchestrator
	picks   draft.PickStore
	scores  scoring.ScoreStore
	manager *Manager
}

func NewAPI(orch *draft.Orchestrator, picks draft.PickStore, scores scoring.ScoreStore, manager *Manager) *API {
	return &API{orch: orch, picks: picks, scores: scores, manager: manager}
}

// RegisterRoutes attaches every endpoint to the mux.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /leagues/{league_id}/draft/start", a.handleStart)
	mux.HandleFunc("POST /leagues/{league_id}/draft/picks", a.handlePick)
	mux.HandleFunc("POST /leagues/{league_id}/draft/pause", a.handlePause)
	mux.HandleFunc("POST /leagues/{league_id}/draft/resume", a.handleResume)
	mux.HandleFunc("GET /leagues/{league_id}/draft/picks", a.handleListPicks)
	mux.HandleFunc("GET /leagues/{league_id}/scores", a.handleScores)
	mux.HandleFunc("GET /ws/draft", a.handleWebsocket)
	mux.HandleFunc("GET /healthz", a.handleHealth)
}

func (a *API) handleStart(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := leagueFromPath(w, r)
	if !ok {
		return
	}
	if err := a.orch.Start(r.Context(), leagueID); err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

type pickBody struct {
	TeamID   uuid.UUID `json:"team_id"`
	Category string    `json:"category"`
	AssetID  uuid.UUID `json:"asset_id"`
	Slot     string    `json:"slot"`
}

func (a *API) handlePick(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := leagueFromPath(w, r)
	if !ok {
		return
	}
	var body pickBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	category, err := models.ParseAssetCategory(body.Category)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	slot := models.SlotDedicated
	if body.Slot != "" {
		slot = models.RosterSlot(body.Slot)
	}

	pick, err := a.orch.CommitPick(r.Context(), draft.PickRequest{
		LeagueID: leagueID,
		TeamID:   body.TeamID,
		Category: category,
		AssetID:  body.AssetID,
		Slot:     slot,
	})
	if err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pick)
}

func (a *API) handlePause(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := leagueFromPath(w, r)
	if !ok {
		return
	}
	if err := a.orch.Pause(r.Context(), leagueID); err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (a *API) handleResume(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := leagueFromPath(w, r)
	if !ok {
		return
	}
	if err := a.orch.Resume(r.Context(), leagueID); err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resumed"})
}

func (a *API) handleListPicks(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := leagueFromPath(w, r)
	if !ok {
		return
	}
	picks, err := a.picks.ListPicks(r.Context(), leagueID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list picks"})
		return
	}
	writeJSON(w, http.StatusOK, picks)
}

func (a *API) handleScores(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := leagueFromPath(w, r)
	if !ok {
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "period is required"})
		return
	}
	scores, err := a.scores.ListTeamScores(r.Context(), leagueID, period)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list scores"})
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (a *API) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	leagueIDStr := r.URL.Query().Get("league_id")
	leagueID, err := uuid.Parse(leagueIDStr)
	if err != nil {
		http.Error(w, "league_id is required", http.StatusBadRequest)
		return
	}
	if err := a.manager.Upgrade(w, r, leagueID); err != nil {
		log.Error().Err(err).
			Str("league_id", leagueID.String()).
			Msg("websocket upgrade failed")
	}
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	total, leagues := a.manager.ConnectionCount()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"connections": total,
		"leagues":     leagues,
	})
}

func leagueFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	leagueID, err := uuid.Parse(r.PathValue("league_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid league_id"})
		return uuid.Nil, false
	}
	return leagueID, true
}

func writeDraftError(w http.ResponseWriter, err error) {
	if re, ok := draft.IsRejection(err); ok {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  re.Message,
			"reason": string(re.Reason),
		})
		return
	}
	switch {
	case errors.Is(err, draft.ErrDraftCompleted):
		writeJSON(w, http.StatusGone, map[string]string{"error": err.Error()})
	case errors.Is(err, draft.ErrAlreadyStarted), errors.Is(err, draft.ErrNotEnoughTeams):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("draft operation failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

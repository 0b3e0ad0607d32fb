package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/user/honey-market/internal/console"
	"github.com/user/honey-market/internal/interfaces"
	"github.com/user/honey-market/internal/types"
	"go.uber.org/zap"
)

// Handler exposes a game session over HTTP as JSON
type Handler struct {
	game    interfaces.GameManager
	console *console.Interpreter
	logger  *zap.Logger
}

// NewRouter builds the HTTP routes for gm
func NewRouter(gm interfaces.GameManager, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		game:    gm,
		console: console.NewInterpreter(gm, logger),
		logger:  logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/status", h.status)
		r.Get("/screen", h.screen)
		r.Get("/event", h.currentEvent)
		r.Get("/products", h.products)
		r.Get("/regions/{region}/districts", h.districts)
		r.Get("/leaderboard", h.leaderboard)
		r.Get("/leaderboard/rank", h.rank)
		r.Get("/reports", h.reports)
		r.Get("/reports/{round}", h.report)
		r.Get("/players/{id}/reports", h.playerReports)

		r.Post("/region", h.selectRegion)
		r.Post("/district", h.selectDistrict)
		r.Post("/stock", h.stock)
		r.Post("/advance", h.advance)
		r.Post("/choose", h.choose)
		r.Post("/feedback", h.acknowledge)
		r.Post("/rounds/next", h.nextRound)
		r.Post("/reset", h.reset)
		r.Post("/command", h.command)
	})

	return router
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// resultStatus maps a command outcome to an HTTP status. Bad input is 422,
// a command issued in the wrong phase or stage is 409.
func resultStatus(r *types.CommandResult) int {
	switch r.Status {
	case types.StatusAccepted, types.StatusWarning:
		return http.StatusOK
	}
	switch r.Code {
	case types.CodeInsufficientFunds, types.CodeInvalidQuantity,
		types.CodeUnknownRegion, types.CodeUnknownDistrict, types.CodeUnknownOption:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}

func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, result *types.CommandResult, err error) {
	if err != nil {
		h.logger.Error("Command failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to save game state")
		return
	}
	h.writeJSON(w, resultStatus(result), result)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.game.GetStatus())
}

func (h *Handler) screen(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.game.Render())
}

func (h *Handler) currentEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.game.GetCurrentEvent()
	if !ok {
		h.writeError(w, http.StatusNotFound, "no event in progress")
		return
	}
	stage, _ := h.game.GetCurrentStage()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"event": ev,
		"stage": stage.String(),
	})
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.game.GetProducts())
}

func (h *Handler) districts(w http.ResponseWriter, r *http.Request) {
	region := types.RegionType(chi.URLParam(r, "region"))
	offers, ok := h.game.GetDistricts(region)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown region")
		return
	}
	h.writeJSON(w, http.StatusOK, offers)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.game.GetLeaderboard(r.URL.Query().Get("metric"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) rank(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	rank, err := h.game.GetRealPlayerRank(metric)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"metric": metric, "rank": rank})
}

func (h *Handler) reports(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.game.GetReports())
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid round")
		return
	}
	rep, ok := h.game.GetReport(round)
	if !ok {
		h.writeError(w, http.StatusNotFound, "report not found")
		return
	}
	h.writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) playerReports(w http.ResponseWriter, r *http.Request) {
	reports, ok := h.game.GetPlayerReports(chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusNotFound, "player not found")
		return
	}
	h.writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) selectRegion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Region types.RegionType `json:"region"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.game.SelectRegion(r.Context(), req.Region)
	h.writeResult(w, r, result, err)
}

func (h *Handler) selectDistrict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		District string `json:"district"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.game.SelectDistrict(r.Context(), req.District)
	h.writeResult(w, r, result, err)
}

func (h *Handler) stock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantities map[string]int `json:"quantities"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Quantities == nil {
		req.Quantities = map[string]int{}
	}
	result, err := h.game.Stock(r.Context(), req.Quantities)
	h.writeResult(w, r, result, err)
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	result, err := h.game.Advance(r.Context())
	h.writeResult(w, r, result, err)
}

func (h *Handler) choose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OptionID string `json:"option_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.game.ChooseOption(r.Context(), req.OptionID)
	h.writeResult(w, r, result, err)
}

func (h *Handler) acknowledge(w http.ResponseWriter, r *http.Request) {
	result, err := h.game.AcknowledgeFeedback(r.Context())
	h.writeResult(w, r, result, err)
}

func (h *Handler) nextRound(w http.ResponseWriter, r *http.Request) {
	result, err := h.game.StartNextRound(r.Context())
	h.writeResult(w, r, result, err)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	result, err := h.game.ResetGame(r.Context())
	h.writeResult(w, r, result, err)
}

// command runs one line of the text console
func (h *Handler) command(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	reply, err := h.console.Process(r.Context(), req.Text)
	if err != nil {
		h.writeResult(w, r, nil, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

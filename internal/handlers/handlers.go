package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JosueZ99/treasure-hunt-app/internal/auth"
	"github.com/JosueZ99/treasure-hunt-app/internal/config"
	"github.com/JosueZ99/treasure-hunt-app/internal/hunt"
	"github.com/JosueZ99/treasure-hunt-app/internal/middleware"
	"github.com/gorilla/mux"
)

type Handler struct {
	cfg        *config.Config
	issuer     *hunt.Issuer
	engine     *hunt.Engine
	dispenser  *hunt.Dispenser
	aggregator *hunt.Aggregator
	recorder   *hunt.Recorder
}

func NewHandler(cfg *config.Config, issuer *hunt.Issuer, engine *hunt.Engine,
	dispenser *hunt.Dispenser, aggregator *hunt.Aggregator, recorder *hunt.Recorder) *Handler {
	return &Handler{
		cfg:        cfg,
		issuer:     issuer,
		engine:     engine,
		dispenser:  dispenser,
		aggregator: aggregator,
		recorder:   recorder,
	}
}

type ScanQRRequest struct {
	QRCode string `json:"qr_code"`
}

type ScanQRResponse struct {
	Message  string `json:"message"`
	Location string `json:"location"`
	Token    string `json:"token"`
}

type ChallengeResponse struct {
	Question string   `json:"question"`
	Points   int      `json:"points"`
	Options  []string `json:"options,omitempty"`
}

type ValidateAnswerRequest struct {
	Answer string `json:"answer"`
}

type ValidateAnswerResponse struct {
	Message string `json:"message"`
	Points  int    `json:"points"`
	Correct bool   `json:"correct"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HintResponse struct {
	Hint string `json:"hint"`
}

type RankingEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Points int    `json:"points"`
}

type UserDataResponse struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// ScanQRHandler handles POST /scan-qr/.
func (h *Handler) ScanQRHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req ScanQRRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.QRCode == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "qr_code is required")
		return
	}

	issued, err := h.issuer.IssueToken(userID, req.QRCode)
	if err != nil {
		h.writeDomainError(w, err, req.QRCode)
		return
	}

	h.recorder.Record(userID, issued.LocationID, hunt.ActionQRScanned)

	middleware.JSONResponse(w, http.StatusOK, ScanQRResponse{
		Message:  "QR code scanned successfully.",
		Location: issued.LocationName,
		Token:    issued.Token,
	})
}

// GetChallengeHandler handles GET /get_challenge/{token}/.
func (h *Handler) GetChallengeHandler(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	challenge, err := h.engine.GetChallenge(token)
	if err != nil {
		h.writeDomainError(w, err, token)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ChallengeResponse{
		Question: challenge.Question,
		Points:   challenge.Points,
		Options:  challenge.Options,
	})
}

// ValidateAnswerHandler handles POST /validate_answer/{token}/.
func (h *Handler) ValidateAnswerHandler(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req ValidateAnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.engine.ValidateAnswer(token, req.Answer)
	if err != nil {
		h.writeDomainError(w, err, token)
		return
	}

	response := ValidateAnswerResponse{
		Points:  result.Points,
		Correct: result.Correct,
	}
	if result.Correct {
		response.Message = "Correct answer!"
	} else {
		response.Message = "Incorrect answer, try again."
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// UpdateProgressHandler handles POST /update_user_progress/{token}/.
func (h *Handler) UpdateProgressHandler(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	if err := h.engine.CommitCompletion(token); err != nil {
		h.writeDomainError(w, err, token)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, MessageResponse{
		Message: "progress updated successfully",
	})
}

// GetNextHintHandler handles GET /get_next_hint/{token}/.
func (h *Handler) GetNextHintHandler(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	result, err := h.dispenser.GetNextHint(token)
	if err != nil {
		h.writeDomainError(w, err, token)
		return
	}

	if result.NoMoreHints {
		middleware.JSONResponse(w, http.StatusOK, MessageResponse{Message: "no more hints"})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, HintResponse{Hint: result.Hint})
}

// LeaderboardHandler handles GET /leaderboard/.
func (h *Handler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.aggregator.GetRanking()
	if err != nil {
		h.writeDomainError(w, err, "")
		return
	}

	response := make([]RankingEntry, len(rankings))
	for i, ranking := range rankings {
		response[i] = RankingEntry{
			Rank:   ranking.Rank,
			Name:   ranking.Name,
			Email:  ranking.Email,
			Points: ranking.Points,
		}
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// UserDataHandler handles GET /user-data/.
func (h *Handler) UserDataHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	summary, err := h.aggregator.UserSummary(userID)
	if err != nil {
		h.writeDomainError(w, err, "")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, UserDataResponse{
		Name:   summary.Name,
		Points: summary.Points,
	})
}

// HealthHandler handles GET /health.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "treasure-hunt",
	})
}

// writeDomainError converts hunt errors to status codes. Expired and
// already-completed are terminal user-correctable states (403), unknown
// entities are 404, bad input is 400, everything else is an internal error
// logged with the offending token and masked to the caller.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, token string) {
	switch {
	case errors.Is(err, hunt.ErrInvalidQRCode):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, hunt.ErrMalformedToken):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, hunt.ErrInvalidToken):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, hunt.ErrNoChallenge):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, hunt.ErrTokenExpired):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, hunt.ErrAlreadyCompleted):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	default:
		slog.Error("internal error", "error", err, "token", token)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}

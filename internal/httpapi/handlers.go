// Package httpapi is the plain HTTP front door. It only translates
// requests into records and consults the job store/queue — no business
// logic lives here.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/syla/execution-service/internal/apierr"
	"github.com/syla/execution-service/internal/log"
	"github.com/syla/execution-service/internal/lookup"
	"github.com/syla/execution-service/internal/model"
	"github.com/syla/execution-service/internal/submission"
)

// Handler holds the dependencies every HTTP route needs.
type Handler struct {
	Submission *submission.Handler
	Lookup     *lookup.Service
}

// NewHandler wires an HTTP handler against the submission and lookup services.
func NewHandler(sub *submission.Handler, lk *lookup.Service) *Handler {
	return &Handler{Submission: sub, Lookup: lk}
}

// RegisterRoutes mounts the submission/lookup routes plus the cancel and
// list operations.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/executions", h.handleCreate)
	r.Get("/executions", h.handleList)
	r.Get("/executions/{id}", h.handleGet)
	r.Delete("/executions/{id}", h.handleCancel)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type createRequest struct {
	Code           string            `json:"code"`
	Language       string            `json:"language"`
	TimeoutSeconds int               `json:"timeout_seconds,omitempty"`
	Args           []string          `json:"args,omitempty"`
	Environment    map[string]string `json:"environment,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	owner := r.Header.Get("X-Owner")
	workspace := r.Header.Get("X-Workspace")

	job, err := h.Submission.Submit(r.Context(), model.Request{
		Code:           req.Code,
		Language:       req.Language,
		TimeoutSeconds: req.TimeoutSeconds,
		Args:           req.Args,
		Environment:    req.Environment,
	}, owner, workspace)
	if err != nil {
		writeFromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobView(job))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	job, err := h.Lookup.Get(r.Context(), id)
	if err != nil {
		writeFromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobView(job))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	job, outcome, err := h.Lookup.Cancel(r.Context(), id)
	if err != nil {
		writeFromError(w, err)
		return
	}
	if outcome == lookup.CancelAlreadyTerminal {
		writeJSON(w, http.StatusConflict, toJobView(job))
		return
	}
	writeJSON(w, http.StatusOK, toJobView(job))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ListFilter{
		Owner:      q.Get("owner"),
		Workspace:  q.Get("workspace"),
		PageSize:   atoiDefault(q.Get("size"), 10),
		PageNumber: atoiDefault(q.Get("number"), 1),
	}

	page, err := h.Lookup.List(r.Context(), filter)
	if err != nil {
		writeFromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobListView(page))
}

func parseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeFromError(w http.ResponseWriter, err error) {
	switch apierr.KindOf(err) {
	case apierr.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case apierr.KindNotFound:
		writeError(w, http.StatusNotFound, "Not found")
	default:
		log.WithComponent("httpapi").Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

// SyncAwait polls the store until job reaches a terminal state or maxWait
// elapses. No route calls it: POST /executions always returns the pending
// record without waiting.
func (h *Handler) SyncAwait(r *http.Request, job *model.Job, maxWait time.Duration) (*model.Job, error) {
	deadline := time.Now().Add(maxWait)
	return h.Submission.AwaitTerminal(r.Context(), job.ID, deadline)
}

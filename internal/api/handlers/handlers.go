// Package handlers implements the HTTP surface: CSV upload, profile
// inspection, categorized-file download, job status, and the advice chat.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AryamanRoy/Raseed-FinanceAI/internal/advisor"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/api/middleware"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/expense"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/jobs"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/session"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/storage"
)

// maxUploadBytes bounds how much of an upload body is read.
const maxUploadBytes = 20 << 20 // 20 MiB

// LatestUploadID is the pseudo-ID the chat endpoint accepts to mean "the most
// recent upload".
const LatestUploadID = "latest"

// UploadsHandler handles upload-related endpoints.
type UploadsHandler struct {
	store     storage.UploadStore
	publisher jobs.Publisher
	jobStore  jobs.Store
	log       zerolog.Logger
}

// NewUploadsHandler creates an uploads handler. publisher may be nil when no
// model is configured; uploads then skip categorization.
func NewUploadsHandler(store storage.UploadStore, publisher jobs.Publisher, jobStore jobs.Store, log zerolog.Logger) *UploadsHandler {
	return &UploadsHandler{store: store, publisher: publisher, jobStore: jobStore, log: log}
}

// Upload handles POST /api/uploads. The CSV is validated and summarized
// synchronously; merchant categorization runs asynchronously when available.
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := readUploadBody(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, rows, err := summarizeCSV(data)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("The CSV file is empty or could not be parsed: %v", err))
		return
	}

	uploadID := uuid.NewString()
	if err := h.store.Put(ctx, storage.KindRaw, uploadID, data); err != nil {
		h.log.Error().Err(err).Str("upload_id", uploadID).Msg("Failed to store upload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	resp := map[string]interface{}{
		"upload_id": uploadID,
		"rows":      rows,
		"profile":   profile,
	}

	if h.publisher != nil {
		job := &jobs.CategorizeUploadJob{UploadID: uploadID}
		if err := h.publisher.PublishCategorizeUpload(ctx, job); err != nil {
			h.log.Error().Err(err).Str("upload_id", uploadID).Msg("Failed to enqueue categorization")
		} else {
			resp["job_id"] = job.JobID
		}
	}

	h.log.Info().
		Str("upload_id", uploadID).
		Int("rows", rows).
		Float64("total_outflow", profile.TotalOutflow).
		Msg("Upload summarized")

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Profile handles GET /api/uploads/{id}/profile. The profile is recomputed
// from stored bytes on every call; categorized bytes win when present.
func (h *UploadsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uploadID := r.PathValue("id")

	data, err := h.store.Get(ctx, storage.KindCategorized, uploadID)
	if errors.Is(err, storage.ErrNotFound) {
		data, err = h.store.Get(ctx, storage.KindRaw, uploadID)
	}
	if errors.Is(err, storage.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, fmt.Sprintf("Upload not found: %s", uploadID))
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("upload_id", uploadID).Msg("Failed to read upload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	profile, _, err := summarizeCSV(data)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error processing CSV file: %v", err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"upload_id": uploadID,
		"profile":   profile,
	})
}

// Categorized handles GET /api/uploads/{id}/categorized. While the
// categorization job is still in flight the endpoint answers 202.
func (h *UploadsHandler) Categorized(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uploadID := r.PathValue("id")

	data, err := h.store.Get(ctx, storage.KindCategorized, uploadID)
	if errors.Is(err, storage.ErrNotFound) {
		if h.categorizationPending(r, uploadID) {
			middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
				"upload_id": uploadID,
				"status":    "categorization in progress",
			})
			return
		}
		middleware.WriteError(w, http.StatusNotFound, fmt.Sprintf("No categorized file for upload: %s", uploadID))
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("upload_id", uploadID).Msg("Failed to read categorized file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read categorized file")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="Bank_transaction_categorized.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *UploadsHandler) categorizationPending(r *http.Request, uploadID string) bool {
	if h.jobStore == nil {
		return false
	}
	list, err := h.jobStore.ListJobs(r.Context(), jobs.Filter{UploadID: uploadID})
	if err != nil {
		return false
	}
	for _, j := range list {
		switch j.Status {
		case jobs.JobStatusPending, jobs.JobStatusRunning, jobs.JobStatusRetrying:
			return true
		}
	}
	return false
}

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	SessionID string   `json:"session_id"`
	UploadID  string   `json:"upload_id"`
	Message   string   `json:"message"`
	Income    *float64 `json:"income"`
}

// ChatHandler handles the advice conversation.
type ChatHandler struct {
	sessions *session.Manager
	store    storage.UploadStore
	adv      *advisor.Advisor
	memMax   int
	log      zerolog.Logger
}

// NewChatHandler creates a chat handler. adv may be nil when no model is
// configured; chat then reports the missing key instead of answering.
func NewChatHandler(sessions *session.Manager, store storage.UploadStore, adv *advisor.Advisor, memoryMaxChars int, log zerolog.Logger) *ChatHandler {
	if memoryMaxChars <= 0 {
		memoryMaxChars = advisor.DefaultMemoryBudget
	}
	return &ChatHandler{sessions: sessions, store: store, adv: adv, memMax: memoryMaxChars, log: log}
}

// Chat handles POST /api/chat: one grounded advice turn against the bound
// upload's freshly recomputed profile.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		middleware.WriteError(w, http.StatusBadRequest, "message is required")
		return
	}
	if h.adv == nil {
		middleware.WriteError(w, http.StatusInternalServerError,
			"Gemini API key not found. Please set GOOGLE_API_KEY or GEMINI_API_KEY.")
		return
	}

	uploadID, data, err := h.resolveUpload(r, req.UploadID)
	if errors.Is(err, storage.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound,
			"No uploads found. Please upload a CSV file first.")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to resolve upload for chat")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	profile, _, err := summarizeCSV(data)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error processing CSV file: %v", err))
		return
	}

	sess := h.sessions.GetOrCreate(req.SessionID)
	sess.BindUpload(uploadID)
	if req.Income != nil {
		sess.SetIncome(*req.Income)
	}

	ctxBlock, err := advisor.BuildContextBlock(profile, sess.Income())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build context block")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build context")
		return
	}

	prior, memory := sess.BeginTurn(req.Message, h.memMax)

	res := h.adv.Ask(ctx, prior, ctxBlock, memory, req.Message)
	switch res.Outcome {
	case advisor.OutcomeSuccess:
		sess.AppendTurn(advisor.RoleAssistant, res.Text)
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"session_id": sess.ID,
			"upload_id":  uploadID,
			"response":   res.Text,
			"memory":     memory,
		})
	case advisor.OutcomeBlocked:
		middleware.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("Response was blocked: %s. Please try rephrasing your question.", res.Reason))
	default:
		middleware.WriteError(w, http.StatusBadGateway,
			fmt.Sprintf("Error calling the model: %s", res.Detail))
	}
}

// resolveUpload finds the bytes to ground this turn: a specific upload ID, or
// the most recent upload for "latest"/empty. Categorized bytes are preferred,
// falling back to the raw export when categorization has not finished.
func (h *ChatHandler) resolveUpload(r *http.Request, uploadID string) (string, []byte, error) {
	ctx := r.Context()

	if uploadID == "" || uploadID == LatestUploadID {
		id, data, err := h.store.Latest(ctx, storage.KindCategorized)
		if errors.Is(err, storage.ErrNotFound) {
			return h.store.Latest(ctx, storage.KindRaw)
		}
		return id, data, err
	}

	data, err := h.store.Get(ctx, storage.KindCategorized, uploadID)
	if errors.Is(err, storage.ErrNotFound) {
		data, err = h.store.Get(ctx, storage.KindRaw, uploadID)
	}
	return uploadID, data, err
}

// JobsHandler exposes job status.
type JobsHandler struct {
	store jobs.Store
	log   zerolog.Logger
}

// NewJobsHandler creates a jobs handler.
func NewJobsHandler(store jobs.Store, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// Get handles GET /api/jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, fmt.Sprintf("Job not found: %s", jobID))
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// Health handles GET / and GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"endpoints": []string{"/api/uploads", "/api/chat"},
	})
}

// readUploadBody accepts either a multipart "file" field or a raw CSV body.
func readUploadBody(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if ct := r.Header.Get("Content-Type"); ct != "" && len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing multipart field %q", "file")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("reading upload: %v", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %v", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty request body")
	}
	return data, nil
}

// summarizeCSV runs the full normalization pipeline over raw CSV bytes.
func summarizeCSV(data []byte) (*expense.Profile, int, error) {
	table, err := expense.ReadTable(data)
	if err != nil {
		return nil, 0, err
	}
	cols := expense.ResolveColumns(table.Headers)
	nt := expense.Normalize(table, cols)
	return expense.Summarize(nt), len(table.Rows), nil
}

package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hireloop/backend/models"
	"github.com/hireloop/backend/store"
)

// InterviewEndpoints exposes the interview flow over HTTP: staging the job
// description and CV, generating questions, driving the conversation and
// reading back the transcript and result.
type InterviewEndpoints struct {
	store     *store.TranscriptStore
	questions *QuestionGenerator
	extractor *FileExtractor
	newDriver func() *ConversationDriver

	mu     sync.RWMutex
	driver *ConversationDriver
}

func NewInterviewEndpoints(ts *store.TranscriptStore, questions *QuestionGenerator, extractor *FileExtractor, newDriver func() *ConversationDriver) *InterviewEndpoints {
	return &InterviewEndpoints{
		store:     ts,
		questions: questions,
		extractor: extractor,
		newDriver: newDriver,
		driver:    newDriver(),
	}
}

// Driver returns the current conversation driver. The websocket handler
// shares it with the HTTP handlers.
func (e *InterviewEndpoints) Driver() *ConversationDriver {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.driver
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type QuestionsResponse struct {
	Questions []models.InterviewQuestion `json:"questions"`
	Count     int                        `json:"count"`
}

func (e *InterviewEndpoints) RegisterRoutes(r chi.Router) {
	r.Post("/job-description", e.SetJobDescriptionHandler)
	r.Post("/cv", e.UploadCVHandler)
	r.Post("/questions/generate", e.GenerateQuestionsHandler)

	r.Route("/interview", func(r chi.Router) {
		r.Get("/", e.GetInterviewHandler)
		r.Post("/start", e.StartInterviewHandler)
		r.Post("/answer", e.AnswerHandler)
		r.Post("/retry", e.RetryHandler)
		r.Get("/result", e.GetResultHandler)
	})

	r.Post("/reset", e.ResetHandler)
}

func (e *InterviewEndpoints) SetJobDescriptionHandler(w http.ResponseWriter, r *http.Request) {
	var jd models.JobDescription
	if err := json.NewDecoder(r.Body).Decode(&jd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(jd.Title) == "" || strings.TrimSpace(jd.Description) == "" {
		http.Error(w, "Title and description are required", http.StatusBadRequest)
		return
	}

	e.store.SetJobDescription(jd)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Job description saved",
		"title":   jd.Title,
	})

	slog.Info("Job description saved", "title", jd.Title)
}

func (e *InterviewEndpoints) UploadCVHandler(w http.ResponseWriter, r *http.Request) {
	// Cap the request body above the extraction limit so modestly oversized
	// files still reach the extractor's own size check, while runaway uploads
	// are cut off at the transport.
	r.Body = http.MaxBytesReader(w, r.Body, 2*e.extractor.MaxBytes()+10240)

	if err := r.ParseMultipartForm(e.extractor.MaxBytes()); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, ErrFileTooLarge)
			return
		}
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A file field named 'file' is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("Failed to read uploaded file", "error", err, "file_name", header.Filename)
		http.Error(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	text, err := e.extractor.Extract(data, mimeType)
	if err != nil {
		writeError(w, err)
		return
	}

	cv := models.CandidateCV{
		RawText:    text,
		FileName:   header.Filename,
		FileType:   mimeType,
		FileSize:   int64(len(data)),
		UploadedAt: time.Now(),
	}
	e.store.SetCandidateCV(cv)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":     "CV uploaded",
		"file_name":   cv.FileName,
		"text_length": len(cv.RawText),
	})

	slog.Info("CV uploaded", "file_name", cv.FileName, "file_size", cv.FileSize)
}

func (e *InterviewEndpoints) GenerateQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	snap := e.store.Snapshot()
	if snap.JobDescription == nil || snap.CandidateCV == nil {
		http.Error(w, "Job description and CV must be set before generating questions", http.StatusBadRequest)
		return
	}

	questions, err := e.questions.Generate(r.Context(), *snap.JobDescription, *snap.CandidateCV)
	if err != nil {
		writeError(w, err)
		return
	}

	e.store.SetQuestions(questions)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(QuestionsResponse{
		Questions: questions,
		Count:     len(questions),
	})
}

func (e *InterviewEndpoints) StartInterviewHandler(w http.ResponseWriter, r *http.Request) {
	outcome, err := e.Driver().Start(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(outcome)
}

func (e *InterviewEndpoints) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := e.Driver().Submit(r.Context(), req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(outcome)
}

func (e *InterviewEndpoints) RetryHandler(w http.ResponseWriter, r *http.Request) {
	outcome, err := e.Driver().Retry(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(outcome)
}

func (e *InterviewEndpoints) GetInterviewHandler(w http.ResponseWriter, r *http.Request) {
	snap := e.store.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"state":    e.Driver().State(),
		"snapshot": snap,
	})
}

func (e *InterviewEndpoints) GetResultHandler(w http.ResponseWriter, r *http.Request) {
	snap := e.store.Snapshot()
	if snap.Result == nil {
		http.Error(w, "No result available yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap.Result)
}

func (e *InterviewEndpoints) ResetHandler(w http.ResponseWriter, r *http.Request) {
	e.store.Reset()

	e.mu.Lock()
	e.driver = e.newDriver()
	e.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Interview state reset",
	})

	slog.Info("Interview state reset")
}

// writeError maps service errors onto HTTP status codes: bad input is 400,
// sequencing conflicts are 409 and collaborator failures are 502.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation   *ValidationError
		invariant    *InvariantViolation
		collaborator *CollaboratorError
	)

	switch {
	case errors.As(err, &validation),
		errors.Is(err, ErrUnsupportedType),
		errors.Is(err, ErrFileTooLarge):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &invariant), errors.Is(err, ErrCallInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &collaborator):
		slog.Error("Collaborator call failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		slog.Error("Unexpected error", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

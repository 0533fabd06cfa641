package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/courseloop/assessment-platform/internal/assessment"
	"github.com/courseloop/assessment-platform/internal/attempt"
	"github.com/courseloop/assessment-platform/internal/item"
	httperrors "github.com/courseloop/assessment-platform/pkg/http/errors"
)

// itemService is the slice of item.Service the handlers need.
type itemService interface {
	Load(ctx context.Context, id string) (assessment.Item, error)
	SaveItem(ctx context.Context, it assessment.Item) (string, error)
	Delete(ctx context.Context, id string) error
}

// ItemHandler serves the authoring API.
type ItemHandler struct {
	items  itemService
	logger zerolog.Logger
}

func NewItemHandler(items itemService, logger zerolog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger.With().Str("component", "item_handler").Logger()}
}

type createItemRequest struct {
	// Kind alone creates a placeholder item of that kind; a full Item
	// payload creates exactly that item.
	Kind string           `json:"kind"`
	Item *assessment.Item `json:"item,omitempty"`
}

// Create persists a new item: either the minimal default of a kind or a
// complete authored payload.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidPayload, "malformed JSON body")
		return
	}

	var (
		editor *assessment.Editor
		err    error
	)
	if req.Item != nil {
		if req.Item.ID == "" {
			req.Item.ID = uuid.NewString()
		}
		editor, err = assessment.NewEditorFor(*req.Item, nil)
	} else {
		editor, err = assessment.NewEditor(req.Kind, nil)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}

	id, err := editor.Save(r.Context(), saverFunc(h.items.SaveItem))
	if err != nil {
		h.logger.Error().Err(err).Msg("create item failed")
		respondDomainError(w, err)
		return
	}

	it := editor.Item()
	it.ID = id
	respondJSON(w, http.StatusCreated, it)
}

// Get returns the learner view: shuffled where the kind demands it and
// with the answer key stripped.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.items.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, it.View(nil))
}

// GetSource returns the full authored item for editing.
func (h *ItemHandler) GetSource(w http.ResponseWriter, r *http.Request) {
	it, err := h.items.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, it)
}

// Update replaces an item's content, validating through the editor.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var it assessment.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidPayload, "malformed JSON body")
		return
	}
	it.ID = r.PathValue("id")

	editor, err := assessment.NewEditorFor(it, nil)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if _, err := editor.Save(r.Context(), saverFunc(h.items.SaveItem)); err != nil {
		h.logger.Error().Err(err).Str("item_id", it.ID).Msg("update item failed")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, editor.Item())
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// attemptSink decouples the handler from the recorder for tests.
type attemptSink interface {
	Record(res attempt.Result)
}

// AttemptHandler grades submitted attempts.
type AttemptHandler struct {
	items    itemService
	recorder attemptSink
	logger   zerolog.Logger
}

func NewAttemptHandler(items itemService, recorder attemptSink, logger zerolog.Logger) *AttemptHandler {
	return &AttemptHandler{
		items:    items,
		recorder: recorder,
		logger:   logger.With().Str("component", "attempt_handler").Logger(),
	}
}

type submitAttemptRequest struct {
	UserID           string                `json:"user_id"`
	Selections       assessment.Selections `json:"selections"`
	TimeSpentSeconds int                   `json:"time_spent_seconds,omitempty"`
}

type submitAttemptResponse struct {
	AttemptID string            `json:"attempt_id"`
	Result    assessment.Result `json:"result"`
}

// Submit grades one attempt against the stored item and enqueues the
// result for persistence. Recording failures never affect the response.
func (h *AttemptHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidPayload, "malformed JSON body")
		return
	}

	it, err := h.items.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	session := assessment.NewSession(it, nil)
	if err := session.Apply(req.Selections); err != nil {
		respondDomainError(w, err)
		return
	}

	result, err := session.Submit()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	attemptsGraded.WithLabelValues(it.Kind).Inc()

	res := attempt.Result{
		ID:               uuid.NewString(),
		ItemID:           it.ID,
		UserID:           req.UserID,
		Score:            result.EarnedScore,
		MaxScore:         result.MaxScore,
		CorrectCount:     result.CorrectCount,
		TotalUnits:       result.TotalUnits,
		Selections:       session.Selections(),
		TimeSpentSeconds: req.TimeSpentSeconds,
		SubmittedAt:      session.SubmittedAt(),
	}
	if h.recorder != nil {
		h.recorder.Record(res)
	}

	respondJSON(w, http.StatusOK, submitAttemptResponse{AttemptID: res.ID, Result: result})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondDomainError maps domain errors onto the standardized envelope.
func respondDomainError(w http.ResponseWriter, err error) {
	var minErr *assessment.BelowMinimumError
	switch {
	case errors.Is(err, item.ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeItemNotFound, "item not found")
	case errors.Is(err, assessment.ErrUnknownKind):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnknownKind, err.Error())
	case errors.As(err, &minErr):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeBelowMinimum, err.Error())
	case errors.Is(err, assessment.ErrFixedCardinality):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeFixedCardinality, err.Error())
	case errors.Is(err, assessment.ErrUnknownUnit):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnknownUnit, err.Error())
	case errors.Is(err, assessment.ErrKindMismatch):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
	case errors.Is(err, assessment.ErrInvalidItem):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
	case errors.Is(err, assessment.ErrIncompleteAttempt):
		httperrors.RespondUnprocessable(w, httperrors.ErrCodeIncompleteAttempt, err.Error())
	case errors.Is(err, assessment.ErrAlreadySubmitted):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeAlreadySubmitted, err.Error())
	default:
		httperrors.RespondInternalError(w, "internal error")
	}
}

// saverFunc adapts a function to the editor's Saver contract.
type saverFunc func(ctx context.Context, it assessment.Item) (string, error)

func (f saverFunc) SaveItem(ctx context.Context, it assessment.Item) (string, error) {
	return f(ctx, it)
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseloop/assessment-platform/internal/assessment"
	"github.com/courseloop/assessment-platform/internal/attempt"
	"github.com/courseloop/assessment-platform/internal/item"
	httperrors "github.com/courseloop/assessment-platform/pkg/http/errors"
)

type stubItems struct {
	items map[string]assessment.Item
}

func newStubItems(items ...assessment.Item) *stubItems {
	s := &stubItems{items: map[string]assessment.Item{}}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *stubItems) Load(_ context.Context, id string) (assessment.Item, error) {
	it, ok := s.items[id]
	if !ok {
		return assessment.Item{}, item.ErrNotFound
	}
	return it, nil
}

func (s *stubItems) SaveItem(_ context.Context, it assessment.Item) (string, error) {
	if err := assessment.Validate(it); err != nil {
		return "", err
	}
	if it.ID == "" {
		it.ID = "generated-id"
	}
	s.items[it.ID] = it
	return it.ID, nil
}

func (s *stubItems) Delete(_ context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return item.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type stubSink struct {
	recorded []attempt.Result
}

func (s *stubSink) Record(res attempt.Result) {
	s.recorded = append(s.recorded, res)
}

func multipleChoiceItem() assessment.Item {
	return assessment.Item{
		ID:        "mc-1",
		Kind:      assessment.KindMultipleChoice,
		Prompt:    "Select the prime numbers",
		MaxPoints: 2,
		Options: []assessment.Option{
			{ID: "a", Text: "2", IsCorrect: true},
			{ID: "b", Text: "4"},
			{ID: "c", Text: "5", IsCorrect: true},
		},
	}
}

func doRequest(h http.HandlerFunc, method, target, body, pathID string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp httperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestGetItemReturnsLearnerView(t *testing.T) {
	h := NewItemHandler(newStubItems(multipleChoiceItem()), zerolog.Nop())

	rec := doRequest(h.Get, http.MethodGet, "/v1/items/mc-1", "", "mc-1")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Select the prime numbers")
	assert.NotContains(t, body, "is_correct")
}

func TestGetSourceReturnsAnswerKey(t *testing.T) {
	h := NewItemHandler(newStubItems(multipleChoiceItem()), zerolog.Nop())

	rec := doRequest(h.GetSource, http.MethodGet, "/v1/items/mc-1/source", "", "mc-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "is_correct")
}

func TestGetUnknownItem(t *testing.T) {
	h := NewItemHandler(newStubItems(), zerolog.Nop())

	rec := doRequest(h.Get, http.MethodGet, "/v1/items/nope", "", "nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httperrors.ErrCodeItemNotFound, errorCode(t, rec))
}

func TestCreateDefaultItem(t *testing.T) {
	items := newStubItems()
	h := NewItemHandler(items, zerolog.Nop())

	rec := doRequest(h.Create, http.MethodPost, "/v1/items", `{"kind":"true_false"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created assessment.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, assessment.KindTrueFalse, created.Kind)
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, items.items, created.ID)
}

func TestCreateUnknownKind(t *testing.T) {
	h := NewItemHandler(newStubItems(), zerolog.Nop())

	rec := doRequest(h.Create, http.MethodPost, "/v1/items", `{"kind":"essay"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeUnknownKind, errorCode(t, rec))
}

func TestCreateMalformedBody(t *testing.T) {
	h := NewItemHandler(newStubItems(), zerolog.Nop())

	rec := doRequest(h.Create, http.MethodPost, "/v1/items", `{"kind":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidPayload, errorCode(t, rec))
}

func TestUpdateRejectsInvalidItem(t *testing.T) {
	items := newStubItems(multipleChoiceItem())
	h := NewItemHandler(items, zerolog.Nop())

	// No correct option left: validation must fail before save.
	body := `{"kind":"multiple_choice","max_points":2,"options":[{"id":"a","text":"2"},{"id":"b","text":"4"}]}`
	rec := doRequest(h.Update, http.MethodPut, "/v1/items/mc-1", body, "mc-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeValidationFailed, errorCode(t, rec))
	assert.True(t, items.items["mc-1"].Options[0].IsCorrect, "stored item must be untouched")
}

func TestDeleteItem(t *testing.T) {
	items := newStubItems(multipleChoiceItem())
	h := NewItemHandler(items, zerolog.Nop())

	rec := doRequest(h.Delete, http.MethodDelete, "/v1/items/mc-1", "", "mc-1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, items.items, "mc-1")
}

func TestSubmitGradesAndRecords(t *testing.T) {
	sink := &stubSink{}
	h := NewAttemptHandler(newStubItems(multipleChoiceItem()), sink, zerolog.Nop())

	body := `{"user_id":"u1","selections":{"option_ids":["a","c"]},"time_spent_seconds":30}`
	rec := doRequest(h.Submit, http.MethodPost, "/v1/items/mc-1/attempts", body, "mc-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp submitAttemptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AttemptID)
	assert.InDelta(t, 2.0, resp.Result.EarnedScore, 1e-9)
	assert.Equal(t, 2, resp.Result.CorrectCount)

	require.Len(t, sink.recorded, 1)
	got := sink.recorded[0]
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "mc-1", got.ItemID)
	assert.InDelta(t, 2.0, got.Score, 1e-9)
	assert.Equal(t, 30, got.TimeSpentSeconds)
	assert.ElementsMatch(t, []string{"a", "c"}, got.Selections.OptionIDs)
}

func TestSubmitPartialCredit(t *testing.T) {
	h := NewAttemptHandler(newStubItems(multipleChoiceItem()), &stubSink{}, zerolog.Nop())

	// One correct and one incorrect selection cancel out.
	body := `{"user_id":"u1","selections":{"option_ids":["a","b"]}}`
	rec := doRequest(h.Submit, http.MethodPost, "/v1/items/mc-1/attempts", body, "mc-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp submitAttemptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Result.EarnedScore)
}

func TestSubmitIncompleteAttempt(t *testing.T) {
	sink := &stubSink{}
	h := NewAttemptHandler(newStubItems(multipleChoiceItem()), sink, zerolog.Nop())

	rec := doRequest(h.Submit, http.MethodPost, "/v1/items/mc-1/attempts", `{"user_id":"u1"}`, "mc-1")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, httperrors.ErrCodeIncompleteAttempt, errorCode(t, rec))
	assert.Empty(t, sink.recorded)
}

func TestSubmitUnknownItem(t *testing.T) {
	h := NewAttemptHandler(newStubItems(), &stubSink{}, zerolog.Nop())

	rec := doRequest(h.Submit, http.MethodPost, "/v1/items/nope/attempts", `{"user_id":"u1"}`, "nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httperrors.ErrCodeItemNotFound, errorCode(t, rec))
}

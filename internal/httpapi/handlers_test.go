package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syla/execution-service/internal/lookup"
	"github.com/syla/execution-service/internal/queue"
	"github.com/syla/execution-service/internal/store"
	"github.com/syla/execution-service/internal/submission"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := store.NewRedisStore(client)
	q := queue.NewRedisQueue(client)
	return NewHandler(submission.NewHandler(s, q), lookup.New(s))
}

func newTestRouter(t *testing.T) chi.Router {
	h := newTestHandler(t)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestHandleCreateRejectsInvalidJSON(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/executions", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateRejectsMissingLanguage(t *testing.T) {
	r := newTestRouter(t)
	body, _ := json.Marshal(map[string]string{"code": "print(1)"})
	req := httptest.NewRequest(http.MethodPost, "/executions", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGetCancelFlow(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"code": "print(1)", "language": "python"})
	createReq := httptest.NewRequest(http.MethodPost, "/executions", bytes.NewBuffer(body))
	createRec := httptest.NewRecorder()
	r.ServeHTTP(createRec, createReq)
	require.Equal(t, http.StatusOK, createRec.Code)

	var created jobView
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))
	assert.Equal(t, "queued", created.Status)

	getReq := httptest.NewRequest(http.MethodGet, "/executions/"+created.ID.String(), nil)
	getRec := httptest.NewRecorder()
	r.ServeHTTP(getRec, getReq)
	assert.Equal(t, http.StatusOK, getRec.Code)

	cancelReq := httptest.NewRequest(http.MethodDelete, "/executions/"+created.ID.String(), nil)
	cancelRec := httptest.NewRecorder()
	r.ServeHTTP(cancelRec, cancelReq)
	require.Equal(t, http.StatusOK, cancelRec.Code)

	var cancelled jobView
	require.NoError(t, json.Unmarshal(cancelRec.Body.Bytes(), &cancelled))
	assert.Equal(t, "cancelled", cancelled.Status)

	// Cancelling again hits the already-terminal path.
	secondCancelRec := httptest.NewRecorder()
	r.ServeHTTP(secondCancelRec, httptest.NewRequest(http.MethodDelete, "/executions/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusConflict, secondCancelRec.Code)
}

func TestHandleGetUnknownIDReturnsNotFound(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/executions/00000000-0000-0000-0000-000000000000", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetInvalidIDReturnsBadRequest(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/executions/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleListFiltersByOwnerHeader(t *testing.T) {
	h := newTestHandler(t)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	for _, owner := range []string{"alice", "bob"} {
		body, _ := json.Marshal(map[string]string{"code": "x", "language": "python"})
		req := httptest.NewRequest(http.MethodPost, "/executions", bytes.NewBuffer(body))
		req.Header.Set("X-Owner", owner)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/executions?owner=alice", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list jobListView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
}

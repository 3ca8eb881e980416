// AngelaMos | 2026
// handler_test.go

package bulk

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/billforge/internal/core"
)

const testDispatchSecret = "dispatch-secret"

func newWebhookServer(t *testing.T) (*fixture, http.Handler) {
	t.Helper()

	f := newFixture(t)
	handler := NewHandler(f.service, testDispatchSecret)

	r := chi.NewRouter()
	handler.RegisterWebhookRoutes(r)
	return f, r
}

func postBatch(
	t *testing.T,
	router http.Handler,
	payload BatchPayload,
	signature string,
) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	r := httptest.NewRequest(
		http.MethodPost, "/webhooks/bulk-batch", bytes.NewReader(body))
	if signature != "" {
		r.Header.Set(SignatureHeader, signature)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	f, router := newWebhookServer(t)
	job := seedJob(f, 1)

	payload := BatchPayload{
		JobID: job.ID,
		Rows:  []Row{{Index: 0, Fields: map[string]string{"name": "alpha"}}},
	}

	rec := postBatch(t, router, payload, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Nothing was processed.
	stored, err := f.repo.GetJobAny(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Processed)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f, router := newWebhookServer(t)
	job := seedJob(f, 1)

	payload := BatchPayload{
		JobID: job.ID,
		Rows:  []Row{{Index: 0, Fields: map[string]string{"name": "alpha"}}},
	}

	rec := postBatch(t, router, payload, "deadbeef")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookProcessesSignedBatch(t *testing.T) {
	f, router := newWebhookServer(t)
	job := seedJob(f, 1)

	payload := BatchPayload{
		JobID: job.ID,
		Rows:  []Row{{Index: 0, Fields: map[string]string{"name": "alpha"}}},
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := postBatch(
		t, router, payload, core.SignHMAC(testDispatchSecret, body))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	stored, err := f.repo.GetJobAny(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
	assert.Equal(t, 1, stored.Succeeded)
}

func TestWebhookUnknownJobIsNotFound(t *testing.T) {
	_, router := newWebhookServer(t)

	payload := BatchPayload{
		JobID: "11111111-1111-4111-8111-111111111111",
		Rows:  []Row{{Index: 0, Fields: map[string]string{"name": "alpha"}}},
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := postBatch(
		t, router, payload, core.SignHMAC(testDispatchSecret, body))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

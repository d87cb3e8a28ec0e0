package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	cases := map[error]int{
		nil:                                   http.StatusOK,
		ErrNotFound:                           http.StatusNotFound,
		fmt.Errorf("load: %w", ErrValidation): http.StatusUnprocessableEntity,
		ErrUnauthorized:                       http.StatusUnauthorized,
		ErrUpstream:                           http.StatusBadGateway,
		fmt.Errorf("boom"):                    http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusOf(err), "error %v", err)
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, fmt.Errorf("dial tcp: secret host"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var problem ProblemDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&problem))
	assert.Empty(t, problem.Detail)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

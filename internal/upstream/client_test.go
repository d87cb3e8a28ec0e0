package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevadhara/console/internal/platform/httpx"
)

type buyer struct {
	ID       string `json:"_id,omitempty"`
	FullName string `json:"FullName"`
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := WithToken(context.Background(), "abc123")
	_, err := NewCollection[buyer](client, "/api/buyers").List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewCollection[buyer](NewClient(srv.URL), "/api/buyers").List(context.Background(), nil)
	require.NoError(t, err)
}

func TestCollectionAcceptsEnvelopeAndBareArrays(t *testing.T) {
	payloads := []string{
		`[{"_id":"1","FullName":"Ramesh"}]`,
		`{"success":true,"data":[{"_id":"1","FullName":"Ramesh"}]}`,
	}
	for _, payload := range payloads {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(payload))
		}))
		items, err := NewCollection[buyer](NewClient(srv.URL), "/api/buyers").List(context.Background(), nil)
		srv.Close()
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Ramesh", items[0].FullName)
	}
}

func TestCollectionCreatePostsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/buyers", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in buyer
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = "new-id"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": in})
	}))
	defer srv.Close()

	created, err := NewCollection[buyer](NewClient(srv.URL), "/api/buyers").Create(context.Background(), buyer{FullName: "Sita"})
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)
	assert.Equal(t, "Sita", created.FullName)
}

func TestCollectionItemPaths(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"_id":"7","FullName":"Gopal"}`))
	}))
	defer srv.Close()

	col := NewCollection[buyer](NewClient(srv.URL), "/api/buyers")
	ctx := context.Background()
	_, err := col.Get(ctx, "7")
	require.NoError(t, err)
	_, err = col.Update(ctx, "7", buyer{FullName: "Gopal"})
	require.NoError(t, err)
	require.NoError(t, col.Delete(ctx, "7"))

	assert.Equal(t, []string{"GET /api/buyers/7", "PUT /api/buyers/7", "DELETE /api/buyers/7"}, seen)
}

func TestClientMapsStatusToSentinels(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:            httpx.ErrNotFound,
		http.StatusUnauthorized:        httpx.ErrUnauthorized,
		http.StatusForbidden:           httpx.ErrForbidden,
		http.StatusBadRequest:          httpx.ErrValidation,
		http.StatusConflict:            httpx.ErrDuplicate,
		http.StatusInternalServerError: httpx.ErrUpstream,
	}
	for status, want := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"nope"}`))
		}))
		err := NewClient(srv.URL).Get(context.Background(), "/api/buyers", nil, &[]buyer{})
		srv.Close()

		require.Error(t, err)
		assert.True(t, errors.Is(err, want), "status %d: %v", status, err)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "nope", apiErr.Message)
	}
}

func TestClientQueryAndMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	client := NewClient(srv.URL, WithMetrics(metrics))
	var out map[string]any
	require.NoError(t, client.Get(context.Background(), "/api/dashboard-stats", url.Values{"date": {"2025-01-01"}}, &out))

	families, err := reg.Gather()
	require.NoError(t, err)
	var counted float64
	for _, family := range families {
		if family.GetName() != "sevadhara_upstream_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			counted += metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), counted)
}

func TestChainTokens(t *testing.T) {
	src := ChainTokens(ContextTokens(), StaticToken("service"))
	assert.Equal(t, "service", src.Token(context.Background()))
	assert.Equal(t, "user", src.Token(WithToken(context.Background(), "user")))
}

func TestUnconfiguredClient(t *testing.T) {
	err := NewClient("").Get(context.Background(), "/api/buyers", nil, nil)
	assert.ErrorIs(t, err, httpx.ErrUpstream)
}

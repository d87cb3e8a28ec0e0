package report

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTMLPostsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "5.83", r.FormValue("paperWidth"))
		assert.Equal(t, "true", r.FormValue("landscape"))
		file, _, err := r.FormFile("files")
		require.NoError(t, err)
		defer file.Close()
		html, _ := io.ReadAll(file)
		assert.Contains(t, string(html), "Receipt")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	opts := A5
	opts.Landscape = true
	pdf, err := NewClient(srv.URL).RenderHTML(context.Background(), "<h1>Receipt</h1>", opts)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(pdf))
}

func TestRenderHTMLSurfacesEngineErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).RenderHTML(context.Background(), "<p/>", A4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chromium crashed")
}

func TestPingRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := chi.NewRouter()
	r.Route("/report", NewHandler(NewClient(srv.URL), slog.Default()).MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "test_session", "secret", time.Hour, false)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	sm := newTestSessions(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetToken("bearer-xyz")
	sess.SetUser("Admin")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, "bearer-xyz", loaded.Token())
	assert.Equal(t, "Admin", loaded.User())

	loaded.SignOut()
	assert.Empty(t, loaded.Token())
	assert.Empty(t, loaded.User())
}

func TestSessionFlashIsPoppedOnce(t *testing.T) {
	sm := newTestSessions(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	ctx := ContextWithSession(context.Background(), sess)
	Flash(ctx, FlashSuccess, "Buyer created")

	msg := sess.PopFlash()
	require.NotNil(t, msg)
	assert.Equal(t, "Buyer created", msg.Message)
	assert.Nil(t, sess.PopFlash())
}

func TestCSRFTokenVerification(t *testing.T) {
	sm := newTestSessions(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	csrf := NewCSRFManager("csrf-secret")
	token, err := csrf.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	again, _ := csrf.EnsureToken(context.Background(), sess)
	assert.Equal(t, token, again)

	assert.NoError(t, csrf.VerifyToken(context.Background(), sess, token))
	assert.ErrorIs(t, csrf.VerifyToken(context.Background(), sess, "forged"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, csrf.VerifyToken(context.Background(), sess, ""), ErrCSRFTokenMissing)
}

func TestCSRFRotateReplacesToken(t *testing.T) {
	sm := newTestSessions(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	csrf := NewCSRFManager("csrf-secret")
	before, err := csrf.EnsureToken(context.Background(), sess)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	after := csrf.Rotate(sess)
	assert.NotEqual(t, before, after)
	assert.ErrorIs(t, csrf.VerifyToken(context.Background(), sess, before), ErrCSRFTokenMismatch)
	assert.NoError(t, csrf.VerifyToken(context.Background(), sess, after))
}

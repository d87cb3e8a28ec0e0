package shared

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

const (
	// CSRFSessionKey is the session value holding the form token.
	CSRFSessionKey = "csrf_token"
	// CSRFFormField is the hidden input every console form posts back.
	CSRFFormField = "csrf_token"
)

// CSRFManager issues form tokens bound to a console session.
type CSRFManager struct {
	secret []byte
}

// NewCSRFManager returns a CSRFManager signing with secret.
func NewCSRFManager(secret string) *CSRFManager {
	return &CSRFManager{secret: []byte(secret)}
}

// EnsureToken returns the session token, minting one on first use.
func (m *CSRFManager) EnsureToken(_ context.Context, sess *Session) (string, error) {
	if sess == nil {
		return "", errors.New("session missing")
	}
	if token := sess.Get(CSRFSessionKey); token != "" {
		return token, nil
	}
	return m.Rotate(sess), nil
}

// Rotate replaces the session token. Called on sign in and sign out so a
// token captured before authentication cannot be replayed after it.
func (m *CSRFManager) Rotate(sess *Session) string {
	if sess == nil {
		return ""
	}
	token := m.sign(sess.ID)
	sess.Set(CSRFSessionKey, token)
	return token
}

// VerifyToken compares token with the one stored in the session.
func (m *CSRFManager) VerifyToken(_ context.Context, sess *Session, token string) error {
	if sess == nil || token == "" {
		return ErrCSRFTokenMissing
	}
	expected := sess.Get(CSRFSessionKey)
	if expected == "" {
		return ErrCSRFTokenMissing
	}
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return ErrCSRFTokenMismatch
	}
	return nil
}

func (m *CSRFManager) sign(sessionID string) string {
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write([]byte(sessionID))
	_, _ = mac.Write([]byte{'|'})
	var stamp [8]byte
	binary.BigEndian.PutUint64(stamp[:], uint64(time.Now().UnixNano()))
	_, _ = mac.Write(stamp[:])
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

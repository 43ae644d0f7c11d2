package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	ErrScoreHashInvalid = errors.New("score hash does not match")
	ErrScoreHashExpired = errors.New("score hash expired")
)

// ScoreSigner mints and verifies tamper-evident score hashes using
// HMAC-SHA256. A hash binds (score, user, timestamp) so the leaderboard
// endpoint can reject client-reported scores it never issued. Hashes are
// derived deterministically from the secret, so no shared state is required.
type ScoreSigner struct {
	secret []byte
	window time.Duration
}

// NewScoreSigner creates a score signer with the given freshness window
func NewScoreSigner(secret string, window time.Duration) *ScoreSigner {
	return &ScoreSigner{secret: []byte(secret), window: window}
}

// Sign returns the score hash for a score, owner and mint time. Anonymous
// sessions sign with user ID 0.
func (s *ScoreSigner) Sign(score int, userID int64, ts time.Time) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d|%d|%d", score, userID, ts.Unix())
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a submitted hash against the claimed score, user and mint
// time, and enforces the freshness window. A mismatch is ErrScoreHashInvalid;
// a stale (or future-dated) timestamp is ErrScoreHashExpired.
func (s *ScoreSigner) Verify(hash string, score int, userID int64, ts time.Time, now time.Time) error {
	expected := s.Sign(score, userID, ts)
	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return ErrScoreHashInvalid
	}

	age := now.Sub(ts)
	if age < 0 || age > s.window {
		return ErrScoreHashExpired
	}

	return nil
}

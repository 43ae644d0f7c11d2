package security

import (
	"errors"
	"testing"
	"time"
)

func TestScoreSignerRoundTrip(t *testing.T) {
	signer := NewScoreSigner("secret", 300*time.Second)
	ts := time.Now()

	hash := signer.Sign(150, 7, ts)
	if err := signer.Verify(hash, 150, 7, ts, ts.Add(10*time.Second)); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
}

func TestScoreSignerRejectsTampering(t *testing.T) {
	signer := NewScoreSigner("secret", 300*time.Second)
	ts := time.Now()
	hash := signer.Sign(150, 7, ts)

	tests := []struct {
		name   string
		score  int
		userID int64
		ts     time.Time
	}{
		{name: "inflated score", score: 9999, userID: 7, ts: ts},
		{name: "different user", score: 150, userID: 8, ts: ts},
		{name: "shifted timestamp", score: 150, userID: 7, ts: ts.Add(time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := signer.Verify(hash, tt.score, tt.userID, tt.ts, ts)
			if !errors.Is(err, ErrScoreHashInvalid) {
				t.Errorf("Verify() error = %v, want ErrScoreHashInvalid", err)
			}
		})
	}
}

func TestScoreSignerFreshnessWindow(t *testing.T) {
	signer := NewScoreSigner("secret", 300*time.Second)
	ts := time.Now()
	hash := signer.Sign(150, 7, ts)

	// Expired beyond the window
	err := signer.Verify(hash, 150, 7, ts, ts.Add(301*time.Second))
	if !errors.Is(err, ErrScoreHashExpired) {
		t.Errorf("stale Verify() error = %v, want ErrScoreHashExpired", err)
	}

	// Future-dated timestamps are rejected too
	err = signer.Verify(hash, 150, 7, ts, ts.Add(-time.Second))
	if !errors.Is(err, ErrScoreHashExpired) {
		t.Errorf("future-dated Verify() error = %v, want ErrScoreHashExpired", err)
	}

	// Edge of the window still passes
	if err := signer.Verify(hash, 150, 7, ts, ts.Add(300*time.Second)); err != nil {
		t.Errorf("edge-of-window Verify() error = %v, want nil", err)
	}
}

func TestScoreSignerDifferentSecrets(t *testing.T) {
	ts := time.Now()
	hash := NewScoreSigner("secret-a", 300*time.Second).Sign(150, 7, ts)

	err := NewScoreSigner("secret-b", 300*time.Second).Verify(hash, 150, 7, ts, ts)
	if !errors.Is(err, ErrScoreHashInvalid) {
		t.Errorf("cross-secret Verify() error = %v, want ErrScoreHashInvalid", err)
	}
}

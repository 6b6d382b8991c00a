// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"
)

var testSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("team-planner-webhook-secret"))

func signedHeaders(t *testing.T, id string, at time.Time, body []byte) http.Header {
	t.Helper()

	ts := strconv.FormatInt(at.Unix(), 10)

	mac := hmac.New(sha256.New, []byte("team-planner-webhook-secret"))
	mac.Write([]byte(id + "." + ts + "."))
	mac.Write(body)

	h := http.Header{}
	h.Set("svix-id", id)
	h.Set("svix-timestamp", ts)
	h.Set("svix-signature", "v1,"+base64.StdEncoding.EncodeToString(mac.Sum(nil)))

	return h
}

func TestVerifier(t *testing.T) {
	now := time.Unix(1767225600, 0)
	body := []byte(`{"type":"user.created","data":{}}`)

	tests := []struct {
		name        string
		headers     func() http.Header
		expectedErr error
	}{
		{
			name:    "valid",
			headers: func() http.Header { return signedHeaders(t, "msg_1", now, body) },
		},
		{
			name: "one of several signatures matches",
			headers: func() http.Header {
				h := signedHeaders(t, "msg_1", now, body)
				h.Set("svix-signature", "v1,bm90LXRoaXMtb25l v2,ignored "+h.Get("svix-signature"))
				return h
			},
		},
		{
			name: "tampered body",
			headers: func() http.Header {
				return signedHeaders(t, "msg_1", now, []byte(`{"type":"user.deleted"}`))
			},
			expectedErr: ErrInvalidSignature,
		},
		{
			name: "different message id",
			headers: func() http.Header {
				h := signedHeaders(t, "msg_1", now, body)
				h.Set("svix-id", "msg_2")
				return h
			},
			expectedErr: ErrInvalidSignature,
		},
		{
			name:        "too old",
			headers:     func() http.Header { return signedHeaders(t, "msg_1", now.Add(-6*time.Minute), body) },
			expectedErr: ErrInvalidTimestamp,
		},
		{
			name:        "too far in the future",
			headers:     func() http.Header { return signedHeaders(t, "msg_1", now.Add(6*time.Minute), body) },
			expectedErr: ErrInvalidTimestamp,
		},
		{
			name: "timestamp not a number",
			headers: func() http.Header {
				h := signedHeaders(t, "msg_1", now, body)
				h.Set("svix-timestamp", "yesterday")
				return h
			},
			expectedErr: ErrInvalidTimestamp,
		},
		{
			name:        "no headers",
			headers:     func() http.Header { return http.Header{} },
			expectedErr: ErrMissingHeaders,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVerifier(testSecret, DefaultTolerance)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			v.now = func() time.Time { return now }

			if err := v.Verify(tt.headers(), body); !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestNewVerifierRejectsBadSecrets(t *testing.T) {
	for _, secret := range []string{"", "whsec_", "whsec_not base64!"} {
		if _, err := NewVerifier(secret, 0); err == nil {
			t.Errorf("expected an error for %q", secret)
		}
	}
}

// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	headerID        = "svix-id"
	headerTimestamp = "svix-timestamp"
	headerSignature = "svix-signature"

	secretPrefix     = "whsec_"
	signatureVersion = "v1"

	DefaultTolerance = 5 * time.Minute
)

var (
	ErrMissingHeaders   = errors.New("missing signature headers")
	ErrInvalidTimestamp = errors.New("timestamp outside tolerance")
	ErrInvalidSignature = errors.New("no matching signature")
)

// Verifier checks Svix style signatures: an HMAC-SHA256 over
// "<id>.<timestamp>.<body>", sent base64 encoded as "v1,<sig>" entries
// separated by spaces.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func (v *Verifier) Verify(h http.Header, body []byte) error {
	id := h.Get(headerID)
	ts := h.Get(headerTimestamp)
	signatures := h.Get(headerSignature)

	if id == "" || ts == "" || signatures == "" {
		return ErrMissingHeaders
	}

	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
	}

	sent := time.Unix(seconds, 0)
	if d := v.now().Sub(sent); d > v.tolerance || d < -v.tolerance {
		return ErrInvalidTimestamp
	}

	expected := v.sign(id, ts, body)

	for _, entry := range strings.Fields(signatures) {
		version, sig, ok := strings.Cut(entry, ",")
		if !ok || version != signatureVersion {
			continue
		}

		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}

	return ErrInvalidSignature
}

func (v *Verifier) sign(id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(id))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// NewVerifier accepts the secret as shown by the provider dashboard,
// "whsec_" followed by base64.
func NewVerifier(secret string, tolerance time.Duration) (*Verifier, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return nil, fmt.Errorf("webhook secret is not base64: %w", err)
	}

	if len(raw) == 0 {
		return nil, errors.New("webhook secret is empty")
	}

	v := new(Verifier)

	v.secret = raw
	v.tolerance = tolerance
	v.now = time.Now

	if v.tolerance <= 0 {
		v.tolerance = DefaultTolerance
	}

	return v, nil
}

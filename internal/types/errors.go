// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import "errors"

// ErrInvalidInput marks a request the caller has to fix before retrying.
var ErrInvalidInput = errors.New("invalid input")

// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package version

const Version = "0.1.0" // x-release-please-version

// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package colors

type UpsertColorRequest struct {
	Color string `json:"color" validate:"required,hexcolor"`
}

// Palette is the ordered set of colors handed out to organization members.
var Palette = []string{
	"#3b82f6",
	"#ef4444",
	"#10b981",
	"#f59e0b",
	"#8b5cf6",
	"#ec4899",
	"#06b6d4",
	"#84cc16",
	"#f97316",
	"#6366f1",
	"#14b8a6",
	"#a855f7",
}

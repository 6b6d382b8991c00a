// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package events

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/canonical/team-planner/internal/types"
)

func at(hour, minute int) int64 {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC).UnixMilli()
}

func event(id string, start, end int64, assignee string) *types.Event {
	return &types.Event{ID: id, StartTime: start, EndTime: end, AssignedTo: assignee, OrganizationID: "o-1"}
}

func pairIDs(pairs []types.ConflictPair) []string {
	ids := make([]string, 0, len(pairs))
	for _, p := range pairs {
		ids = append(ids, p.First.ID+"-"+p.Second.ID)
	}

	return ids
}

func TestDetectConflicts(t *testing.T) {
	tests := []struct {
		name     string
		events   []*types.Event
		expected []string
	}{
		{
			name: "two overlapping and one apart",
			events: []*types.Event{
				event("c", at(12, 0), at(13, 0), "Z"),
				event("b", at(10, 30), at(11, 30), "Y"),
				event("a", at(10, 0), at(11, 0), "X"),
			},
			expected: []string{"a-b"},
		},
		{
			name: "touching intervals do not overlap",
			events: []*types.Event{
				event("a", at(9, 0), at(10, 0), "X"),
				event("b", at(10, 0), at(11, 0), "X"),
			},
			expected: []string{},
		},
		{
			name: "nested intervals",
			events: []*types.Event{
				event("outer", at(8, 0), at(18, 0), "X"),
				event("first", at(9, 0), at(10, 0), "Y"),
				event("second", at(11, 0), at(12, 0), "Y"),
			},
			expected: []string{"outer-first", "outer-second"},
		},
		{
			name: "three way overlap",
			events: []*types.Event{
				event("a", at(9, 0), at(12, 0), "X"),
				event("b", at(10, 0), at(12, 0), "Y"),
				event("c", at(11, 0), at(12, 0), "Z"),
			},
			expected: []string{"a-b", "a-c", "b-c"},
		},
		{
			name: "same start",
			events: []*types.Event{
				event("b", at(9, 0), at(10, 0), "X"),
				event("a", at(9, 0), at(9, 30), "Y"),
			},
			expected: []string{"a-b"},
		},
		{
			name: "duplicate ids are reported once",
			events: []*types.Event{
				event("a", at(9, 0), at(11, 0), "X"),
				event("b", at(10, 0), at(12, 0), "Y"),
				event("b", at(10, 0), at(12, 0), "Y"),
			},
			expected: []string{"a-b"},
		},
		{
			name:     "empty",
			events:   nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pairIDs(DetectConflicts(tt.events))
			sort.Strings(got)

			if fmt.Sprint(got) != fmt.Sprint(tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDetectConflictsDoesNotReorderInput(t *testing.T) {
	events := []*types.Event{
		event("late", at(12, 0), at(13, 0), "X"),
		event("early", at(9, 0), at(10, 0), "X"),
	}

	DetectConflicts(events)

	if events[0].ID != "late" {
		t.Error("input slice was reordered")
	}
}

func TestDetectConflictsMatchesPairwiseScan(t *testing.T) {
	events := make([]*types.Event, 0, 60)
	for i := 0; i < 60; i++ {
		start := int64((i * 37) % 500)
		events = append(events, event(fmt.Sprintf("e%02d", i), start, start+int64(10+(i*13)%90), "X"))
	}

	expected := 0
	for i := range events {
		for j := i + 1; j < len(events); j++ {
			if events[i].StartTime < events[j].EndTime && events[j].StartTime < events[i].EndTime {
				expected++
			}
		}
	}

	pairs := DetectConflicts(events)
	if len(pairs) != expected {
		t.Fatalf("expected %d pairs, got %d", expected, len(pairs))
	}

	for _, p := range pairs {
		if p.First.StartTime > p.Second.StartTime {
			t.Errorf("pair %s-%s is not ordered by start", p.First.ID, p.Second.ID)
		}
	}
}

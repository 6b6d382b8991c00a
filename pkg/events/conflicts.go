// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package events

import (
	"cmp"
	"container/heap"
	"slices"

	"github.com/canonical/team-planner/internal/types"
)

// activeEvents is a min-heap of events ordered by end time.
type activeEvents []*types.Event

func (a activeEvents) Len() int           { return len(a) }
func (a activeEvents) Less(i, j int) bool { return a[i].EndTime < a[j].EndTime }
func (a activeEvents) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

func (a *activeEvents) Push(x any) {
	*a = append(*a, x.(*types.Event))
}

func (a *activeEvents) Pop() any {
	old := *a
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*a = old[:n-1]

	return e
}

// DetectConflicts returns every pair of overlapping events, intervals being
// half open [start, end). Events are swept by start time while a heap keyed
// by end time holds the ones still running: expired events are popped and
// everything left overlaps the current event. Each unordered pair is reported
// once, earlier start first, ordered by the start of the later event. The
// input slice is not modified.
func DetectConflicts(events []*types.Event) []types.ConflictPair {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b *types.Event) int {
		return cmp.Or(
			cmp.Compare(a.StartTime, b.StartTime),
			cmp.Compare(a.ID, b.ID),
		)
	})

	pairs := make([]types.ConflictPair, 0)
	seen := make(map[[2]string]struct{})
	active := make(activeEvents, 0, len(sorted))

	for _, current := range sorted {
		for active.Len() > 0 && active[0].EndTime <= current.StartTime {
			heap.Pop(&active)
		}

		for _, running := range active {
			if running.ID == current.ID {
				continue
			}

			key := pairKey(running.ID, current.ID)
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			pairs = append(pairs, types.ConflictPair{First: running, Second: current})
		}

		heap.Push(&active, current)
	}

	// heap order is arbitrary, report in sweep order
	slices.SortStableFunc(pairs, func(a, b types.ConflictPair) int {
		return cmp.Or(
			cmp.Compare(a.Second.StartTime, b.Second.StartTime),
			cmp.Compare(a.First.StartTime, b.First.StartTime),
			cmp.Compare(a.First.ID, b.First.ID),
		)
	})

	return pairs
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}

	return [2]string{a, b}
}

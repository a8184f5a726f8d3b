package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ensemblefm/ensemble/reconcile"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	universe := []int{1, 2, 3, 4, 5}

	cases := []struct {
		name       string
		current    []int
		requested  []int
		wantAdd    []int
		wantRemove []int
	}{
		{
			name:      "no change",
			current:   []int{2, 4},
			requested: []int{2, 4},
		},
		{
			// musician plays guitar(1), form asks for guitar and piano(3)
			name:      "add new keep existing",
			current:   []int{1},
			requested: []int{1, 3},
			wantAdd:   []int{3},
		},
		{
			name:       "swap membership",
			current:    []int{1, 2},
			requested:  []int{2, 3},
			wantAdd:    []int{3},
			wantRemove: []int{1},
		},
		{
			// unchecked checkboxes aren't submitted at all
			name:       "empty request clears all",
			current:    []int{1, 2},
			requested:  nil,
			wantRemove: []int{1, 2},
		},
		{
			name:      "requested outside universe ignored",
			current:   nil,
			requested: []int{3, 99},
			wantAdd:   []int{3},
		},
		{
			name:      "brand new entity adds all requested",
			current:   nil,
			requested: []int{1, 2, 5},
			wantAdd:   []int{1, 2, 5},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			delta := reconcile.Diff(
				reconcile.KeySet(tc.current),
				reconcile.KeySet(tc.requested),
				universe,
			)
			require.Equal(t, tc.wantAdd, delta.Add)
			require.Equal(t, tc.wantRemove, delta.Remove)
		})
	}
}

func TestDiffIdempotent(t *testing.T) {
	t.Parallel()

	universe := []int{1, 2, 3, 4}
	current := reconcile.KeySet([]int{1, 2})
	requested := reconcile.KeySet([]int{2, 3})

	delta := reconcile.Diff(current, requested, universe)
	require.False(t, delta.Empty())

	// apply the delta, then diff again with the same request
	for _, k := range delta.Add {
		current[k] = struct{}{}
	}
	for _, k := range delta.Remove {
		delete(current, k)
	}

	again := reconcile.Diff(current, requested, universe)
	require.True(t, again.Empty())
}

func TestDiffTotality(t *testing.T) {
	t.Parallel()

	// after applying the delta, membership equals requested ∩ universe
	universe := []int{10, 20, 30, 40}
	current := reconcile.KeySet([]int{10, 40})
	requested := reconcile.KeySet([]int{20, 40, 50})

	delta := reconcile.Diff(current, requested, universe)
	for _, k := range delta.Add {
		current[k] = struct{}{}
	}
	for _, k := range delta.Remove {
		delete(current, k)
	}
	require.Equal(t, reconcile.KeySet([]int{20, 40}), current)
}

func TestDiffSongPerformersCleared(t *testing.T) {
	t.Parallel()

	// song has performances by musicians 1 and 2, submission omits both
	universe := []int{1, 2, 3}
	delta := reconcile.Diff(
		reconcile.KeySet([]int{1, 2}),
		nil,
		universe,
	)
	require.Empty(t, delta.Add)
	require.Equal(t, []int{1, 2}, delta.Remove)
}

func TestParseKeys(t *testing.T) {
	t.Parallel()

	set := reconcile.ParseKeys([]string{"3", "1", "nope", "3"})
	require.Equal(t, reconcile.KeySet([]int{1, 3}), set)
	require.Empty(t, reconcile.ParseKeys(nil))
}

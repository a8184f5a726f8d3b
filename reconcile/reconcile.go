// Package reconcile computes the minimal add/remove set that turns a join
// table's current membership into a requested membership. the same code
// backs both musician<->instrument and song<->musician maintenance
package reconcile

import "strconv"

// Delta is the staged outcome of a Diff. applying it (insert Add rows,
// delete Remove rows) makes current equal requested, restricted to the
// candidate universe
type Delta[K comparable] struct {
	Add    []K
	Remove []K
}

func (d Delta[K]) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

// Diff walks the candidate universe in order and decides, per key, whether
// membership needs creating or dropping. a nil or empty requested set means
// the form came in with every box unchecked, which clears all membership.
// a member that is present and still requested is left alone, so applying
// the delta twice changes nothing and no duplicate rows are ever staged
func Diff[K comparable](current, requested map[K]struct{}, universe []K) Delta[K] {
	var delta Delta[K]
	if len(requested) == 0 {
		for _, k := range universe {
			if _, ok := current[k]; ok {
				delta.Remove = append(delta.Remove, k)
			}
		}
		return delta
	}
	for _, k := range universe {
		_, want := requested[k]
		_, have := current[k]
		switch {
		case want && !have:
			delta.Add = append(delta.Add, k)
		case !want && have:
			delta.Remove = append(delta.Remove, k)
		}
	}
	return delta
}

// KeySet collects keys into a membership set
func KeySet[K comparable](keys []K) map[K]struct{} {
	set := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// ParseKeys parses submitted form tokens into an id set. tokens that
// aren't integers can never match a candidate, so they're dropped
func ParseKeys(tokens []string) map[int]struct{} {
	set := make(map[int]struct{}, len(tokens))
	for _, t := range tokens {
		id, err := strconv.Atoi(t)
		if err != nil {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

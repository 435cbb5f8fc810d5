// internal/submission/feed.go
//
// The merged admin feed: both kinds in one chronological list.

package submission

import (
	"context"
	"sort"
)

// Feed fetches all submissions across both kinds and merges them into one
// list sorted by server timestamp descending, falling back to the
// client-reported timestamp when the server one is absent.
func (s *Store) Feed(ctx context.Context) ([]Submission, error) {
	contacts, err := s.ListKind(ctx, KindContact)
	if err != nil {
		return nil, err
	}
	demos, err := s.ListKind(ctx, KindDemo)
	if err != nil {
		return nil, err
	}
	return MergeFeed(contacts, demos), nil
}

// MergeFeed combines any number of submission slices into one feed,
// newest first.  The sort is stable so same-instant entries keep their
// per-kind order.
func MergeFeed(slices ...[]Submission) []Submission {
	var all []Submission
	for _, s := range slices {
		all = append(all, s...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].EffectiveTime().After(all[j].EffectiveTime())
	})
	return all
}

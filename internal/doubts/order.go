package doubts

import (
	"sort"

	"learnhub/internal/models"
)

// Order returns doubts in display order: pinned first, then oldest first. A doubt whose
// timestamp is unresolved sorts after every resolved one; two unresolved doubts are ordered by
// ID. The input slice is not modified.
func Order(doubts []*models.DoubtMessage) []*models.DoubtMessage {
	ordered := make([]*models.DoubtMessage, len(doubts))
	copy(ordered, doubts)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}

		switch {
		case a.Timestamp == nil && b.Timestamp == nil:
			return a.ID < b.ID
		case a.Timestamp == nil:
			return false
		case b.Timestamp == nil:
			return true
		default:
			return a.Timestamp.Before(*b.Timestamp)
		}
	})
	return ordered
}

// SortReplies sorts replies oldest first, in place. Replies without a timestamp go last.
func SortReplies(replies []*models.DoubtReply) {
	sort.SliceStable(replies, func(i, j int) bool {
		a, b := replies[i].Timestamp, replies[j].Timestamp
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

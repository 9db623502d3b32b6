package doubts

import (
	"testing"
	"time"

	"learnhub/internal/models"

	"github.com/stretchr/testify/assert"
)

func at(sec int64) *time.Time {
	t := time.Unix(sec, 0).UTC()
	return &t
}

func ids(doubts []*models.DoubtMessage) []string {
	out := make([]string, 0, len(doubts))
	for _, d := range doubts {
		out = append(out, d.ID)
	}
	return out
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name     string
		doubts   []*models.DoubtMessage
		expected []string
	}{
		{
			name: "pinned first then oldest",
			doubts: []*models.DoubtMessage{
				{ID: "u5", Pinned: false, Timestamp: at(5)},
				{ID: "p10", Pinned: true, Timestamp: at(10)},
				{ID: "u1", Pinned: false, Timestamp: at(1)},
			},
			expected: []string{"p10", "u1", "u5"},
		},
		{
			name: "unresolved timestamps fall back to id",
			doubts: []*models.DoubtMessage{
				{ID: "b"},
				{ID: "a"},
			},
			expected: []string{"a", "b"},
		},
		{
			name: "unresolved timestamp sorts as newest",
			doubts: []*models.DoubtMessage{
				{ID: "pending"},
				{ID: "late", Timestamp: at(100)},
				{ID: "early", Timestamp: at(1)},
			},
			expected: []string{"early", "late", "pending"},
		},
		{
			name: "pinned unresolved still before unpinned",
			doubts: []*models.DoubtMessage{
				{ID: "u", Timestamp: at(1)},
				{ID: "p", Pinned: true},
			},
			expected: []string{"p", "u"},
		},
		{
			name: "equal timestamps keep input order",
			doubts: []*models.DoubtMessage{
				{ID: "z", Timestamp: at(3)},
				{ID: "y", Timestamp: at(3)},
				{ID: "x", Timestamp: at(3)},
			},
			expected: []string{"z", "y", "x"},
		},
		{
			name:     "empty",
			doubts:   []*models.DoubtMessage{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Order(tt.doubts)))
		})
	}
}

func TestOrderDoesNotModifyInput(t *testing.T) {
	doubts := []*models.DoubtMessage{
		{ID: "u", Timestamp: at(1)},
		{ID: "p", Pinned: true, Timestamp: at(2)},
	}

	ordered := Order(doubts)
	assert.Equal(t, []string{"p", "u"}, ids(ordered))
	assert.Equal(t, []string{"u", "p"}, ids(doubts))

	// Recomputing after an in-place mutation reflects the new state.
	doubts[1].Pinned = false
	assert.Equal(t, []string{"u", "p"}, ids(Order(doubts)))
}

func TestSortReplies(t *testing.T) {
	replies := []*models.DoubtReply{
		{ID: "r3", Timestamp: at(30)},
		{ID: "pending"},
		{ID: "r1", Timestamp: at(10)},
		{ID: "r2", Timestamp: at(20)},
	}

	SortReplies(replies)

	var got []string
	for _, r := range replies {
		got = append(got, r.ID)
	}
	assert.Equal(t, []string{"r1", "r2", "r3", "pending"}, got)
}

package services

import (
	"context"
	"testing"

	"roadweave-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestReact_RejectedWhileReactionsDisabled(t *testing.T) {
	s := NewPublicService(nil, nil, nil, nil)
	trip := &models.Trip{ID: 1, ReactionsEnabled: false}

	_, err := s.React(context.Background(), trip, 10, "like", "add")
	assert.ErrorIs(t, err, ErrReactionsDisabled)
}

func TestReact_RejectsUnknownReactionType(t *testing.T) {
	s := NewPublicService(nil, nil, nil, nil)
	trip := &models.Trip{ID: 1, ReactionsEnabled: true}

	_, err := s.React(context.Background(), trip, 10, "dislike", "add")
	assert.ErrorIs(t, err, ErrInvalidReactionType)
}

func TestFillReactionCounts_ZeroFillsAllTypes(t *testing.T) {
	counts := fillReactionCounts(map[string]int{"like": 3, "funny": 1})

	assert.Len(t, counts, len(models.ReactionTypes))
	assert.Equal(t, 3, counts["like"])
	assert.Equal(t, 1, counts["funny"])
	assert.Equal(t, 0, counts["applause"])
	assert.Equal(t, 0, counts["love"])
}

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lms-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCardsFetcher struct {
	cards []domain.Card
	calls int
	fail  bool
}

func (f *fakeCardsFetcher) FetchCards(context.Context) ([]domain.Card, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("backend API error: 500")
	}
	return f.cards, nil
}

func TestCardsFetchedOnceWhileFresh(t *testing.T) {
	fetcher := &fakeCardsFetcher{cards: []domain.Card{{ID: 1, Name: "Fireball"}}}
	catalog := NewCardCatalog(fetcher, time.Minute)

	for i := 0; i < 3; i++ {
		cards, err := catalog.Cards(context.Background())
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, "Fireball", cards[0].Name)
	}

	assert.Equal(t, 1, fetcher.calls)
}

func TestFetchFailureIsNotCached(t *testing.T) {
	fetcher := &fakeCardsFetcher{fail: true}
	catalog := NewCardCatalog(fetcher, time.Minute)

	_, err := catalog.Cards(context.Background())
	require.Error(t, err)

	fetcher.fail = false
	fetcher.cards = []domain.Card{{ID: 1, Name: "Fireball"}}

	cards, err := catalog.Cards(context.Background())
	require.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, 2, fetcher.calls)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	fetcher := &fakeCardsFetcher{cards: []domain.Card{{ID: 1, Name: "Fireball"}}}
	catalog := NewCardCatalog(fetcher, time.Minute)

	_, err := catalog.Cards(context.Background())
	require.NoError(t, err)

	fetcher.cards = append(fetcher.cards, domain.Card{ID: 2, Name: "Frost Nova"})
	catalog.Invalidate()

	cards, err := catalog.Cards(context.Background())
	require.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.Equal(t, 2, fetcher.calls)
}

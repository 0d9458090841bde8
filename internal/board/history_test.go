package board

import (
	"errors"
	"testing"
	"time"
)

// completeAt creates a card and moves it into the terminal column with the
// store clock pinned to the given instant.
func completeAt(t *testing.T, store *CardStore, title, description string, at time.Time) string {
	t.Helper()
	store.now = fixed(at)
	card, err := store.Create(CardInput{Title: title, Description: description, Tags: []string{"t"}})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	if _, err := store.Move(card.ID, "done"); err != nil {
		t.Fatalf("complete %q: %v", title, err)
	}
	return card.ID
}

func TestHistoryOnlyCompletedCards(t *testing.T) {
	store := newTestStore(t)
	store.now = fixed(noon)

	if _, err := store.Create(CardInput{Title: "open"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	completeAt(t, store, "closed", "", noon)

	cards, err := store.QueryHistory(HistoryFilter{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(cards) != 1 || cards[0].Title != "closed" {
		t.Fatalf("expected only the completed card, got %d", len(cards))
	}
	if len(cards[0].TagNames) != 1 {
		t.Fatalf("expected tags attached, got %v", cards[0].TagNames)
	}
}

func TestHistoryExactDate(t *testing.T) {
	store := newTestStore(t)

	day1 := time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2025, 1, 11, 9, 0, 0, 0, time.Local)
	early := completeAt(t, store, "early", "", day1)
	late := completeAt(t, store, "late", "", day1.Add(5*time.Hour))
	completeAt(t, store, "other day", "", day2)

	cards, err := store.QueryHistory(HistoryFilter{Date: "2025-01-10"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards completed on 2025-01-10, got %d", len(cards))
	}
	if cards[0].ID != late || cards[1].ID != early {
		t.Fatal("expected most recently completed first")
	}
}

func TestHistoryDateRange(t *testing.T) {
	store := newTestStore(t)

	completeAt(t, store, "jan 9", "", time.Date(2025, 1, 9, 9, 0, 0, 0, time.Local))
	completeAt(t, store, "jan 10", "", time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local))
	completeAt(t, store, "jan 12", "", time.Date(2025, 1, 12, 9, 0, 0, 0, time.Local))

	cards, err := store.QueryHistory(HistoryFilter{From: "2025-01-10", To: "2025-01-12"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards in range, got %d", len(cards))
	}

	// open-ended lower bound
	cards, err = store.QueryHistory(HistoryFilter{To: "2025-01-09"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(cards) != 1 || cards[0].Title != "jan 9" {
		t.Fatalf("expected only jan 9, got %d", len(cards))
	}

	// open-ended upper bound
	cards, err = store.QueryHistory(HistoryFilter{From: "2025-01-12"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(cards) != 1 || cards[0].Title != "jan 12" {
		t.Fatalf("expected only jan 12, got %d", len(cards))
	}
}

// Search is a case-insensitive substring match against either the title or
// the description.
func TestHistorySearch(t *testing.T) {
	store := newTestStore(t)

	completeAt(t, store, "Deploy Release", "", noon)
	completeAt(t, store, "misc", "release notes for the deploy", noon.Add(time.Minute))
	completeAt(t, store, "unrelated", "nothing here", noon.Add(2*time.Minute))

	cards, err := store.QueryHistory(HistoryFilter{Search: "RELEASE"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(cards))
	}
}

func TestHistoryNoMatchesIsEmptyNotError(t *testing.T) {
	store := newTestStore(t)

	cards, err := store.QueryHistory(HistoryFilter{Date: "2030-01-01"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected empty result, got %d", len(cards))
	}
}

func TestHistoryRejectsMalformedDate(t *testing.T) {
	store := newTestStore(t)

	_, err := store.QueryHistory(HistoryFilter{Date: "January 10"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

package board

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hkato/kanban/internal/models"
)

// ReplaceTags swaps the card's entire tag set for the given one. Delete all,
// insert all: the prior set is never diffed against the new one.
func (s *CardStore) ReplaceTags(cardID string, tags []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return replaceTags(tx, cardID, tags)
	})
}

func replaceTags(tx *gorm.DB, cardID string, tags []string) error {
	if err := tx.Where("card_id = ?", cardID).Delete(&models.Tag{}).Error; err != nil {
		return fmt.Errorf("delete tags of card %s: %w", cardID, err)
	}
	for _, name := range normalizeTags(tags) {
		if err := tx.Create(&models.Tag{CardID: cardID, Name: name}).Error; err != nil {
			return fmt.Errorf("insert tag %q: %w", name, err)
		}
	}
	return nil
}

// normalizeTags trims whitespace, drops empties and deduplicates, keeping the
// first occurrence's position so the stored order is stable.
func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func flattenTags(cards []models.Card) {
	for i := range cards {
		cards[i].TagNames = tagNames(cards[i].Tags)
	}
}

package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/hkato/kanban/internal/models"
)

// HistoryFilter narrows the completed-card history. All fields are optional
// and combine with AND. Dates are calendar days in "2006-01-02" form; From/To
// are inclusive and may be open-ended on either side. Search is a
// case-insensitive substring match against title or description.
type HistoryFilter struct {
	Date   string
	From   string
	To     string
	Search string
}

// QueryHistory returns completed cards matching the filter, most recently
// completed first, with tags attached. No matches is an empty slice, not an
// error.
func (s *CardStore) QueryHistory(f HistoryFilter) ([]models.Card, error) {
	q := s.db.Preload("Tags", tagOrder).Where("completed_at IS NOT NULL")

	if f.Date != "" {
		day, err := parseDay("date", f.Date)
		if err != nil {
			return nil, err
		}
		q = q.Where("completed_at >= ? AND completed_at < ?", day, day.AddDate(0, 0, 1))
	}
	if f.From != "" {
		day, err := parseDay("from", f.From)
		if err != nil {
			return nil, err
		}
		q = q.Where("completed_at >= ?", day)
	}
	if f.To != "" {
		day, err := parseDay("to", f.To)
		if err != nil {
			return nil, err
		}
		q = q.Where("completed_at < ?", day.AddDate(0, 0, 1))
	}
	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", needle, needle)
	}

	var cards []models.Card
	if err := q.Order("completed_at DESC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	flattenTags(cards)
	return cards, nil
}

func parseDay(field, value string) (time.Time, error) {
	day, err := time.ParseInLocation(dayLayout, value, time.Local)
	if err != nil {
		return time.Time{}, validationErr(field, fmt.Sprintf("%q is not a %s date", value, dayLayout))
	}
	return day, nil
}

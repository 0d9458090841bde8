package board

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hkato/kanban/internal/models"
)

// CardStore owns the card lifecycle: creation, field updates, column moves,
// deletion and the completion-timestamp rule. All methods are synchronous and
// safe to call from concurrent request handlers; last write wins.
type CardStore struct {
	db  *gorm.DB
	cfg Config
	now func() time.Time
}

func NewCardStore(db *gorm.DB, cfg Config) *CardStore {
	return &CardStore{db: db, cfg: cfg, now: time.Now}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *CardStore) WithTx(tx *gorm.DB) *CardStore {
	return &CardStore{db: tx, cfg: s.cfg, now: s.now}
}

// CardInput carries the caller-supplied card fields. Update treats it as a
// full replacement, not a patch.
type CardInput struct {
	Title       string
	Description string
	Column      string
	DueDate     *string
	Tags        []string
}

// ListActive returns the cards shown on the board: everything not yet
// completed, plus cards completed earlier on the current calendar day so they
// stay visible until tomorrow. Most recently created first.
func (s *CardStore) ListActive() ([]models.Card, error) {
	dayStart := startOfDay(s.now())

	var cards []models.Card
	err := s.db.
		Preload("Tags", tagOrder).
		Where("completed_at IS NULL OR completed_at >= ?", dayStart).
		Order("created_at DESC").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("list active cards: %w", err)
	}
	flattenTags(cards)
	return cards, nil
}

// All returns every card on the board, active and completed, with tags and
// comments attached. Used by the snapshot exporter.
func (s *CardStore) All() ([]models.Card, error) {
	var cards []models.Card
	err := s.db.
		Preload("Tags", tagOrder).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Order("created_at ASC").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("list all cards: %w", err)
	}
	flattenTags(cards)
	return cards, nil
}

// GetByID returns the card with its tags and comments, comments newest first.
func (s *CardStore) GetByID(id string) (*models.Card, error) {
	var card models.Card
	err := s.db.
		Preload("Tags", tagOrder).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		First(&card, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get card %s: %w", id, err)
	}
	card.TagNames = tagNames(card.Tags)
	return &card, nil
}

// Exists reports whether a card with the given id is present.
func (s *CardStore) Exists(id string) (bool, error) {
	var n int64
	if err := s.db.Model(&models.Card{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check card %s: %w", id, err)
	}
	return n > 0, nil
}

// Create inserts a new card. The column defaults to the first configured
// workflow state; creating straight into the terminal column stamps
// CompletedAt so the completion invariant holds from the start.
func (s *CardStore) Create(in CardInput) (*models.Card, error) {
	title, err := requireTitle(in.Title)
	if err != nil {
		return nil, err
	}
	column, err := s.resolveColumn(in.Column)
	if err != nil {
		return nil, err
	}
	due, err := normalizeDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	card := models.Card{
		ID:          uuid.NewString(),
		Title:       title,
		Description: in.Description,
		Column:      column,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
		CompletedAt: s.completionFor(column),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&card).Error; err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		return replaceTags(tx, card.ID, in.Tags)
	})
	if err != nil {
		return nil, err
	}

	card.TagNames = normalizeTags(in.Tags)
	return &card, nil
}

// Update replaces every mutable field of the card. CompletedAt is recomputed
// from the target column: stamped when it is the terminal column, cleared
// otherwise, so a card moved out of the terminal column loses its completion
// timestamp. The tag set is wiped and re-inserted in the same transaction.
func (s *CardStore) Update(id string, in CardInput) (*models.Card, error) {
	title, err := requireTitle(in.Title)
	if err != nil {
		return nil, err
	}
	column, err := s.resolveColumn(in.Column)
	if err != nil {
		return nil, err
	}
	due, err := normalizeDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Card{}).Where("id = ?", id).Updates(map[string]any{
			"title":        title,
			"description":  in.Description,
			"column_name":  column,
			"due_date":     due,
			"completed_at": s.completionFor(column),
			"updated_at":   s.now(),
		})
		if res.Error != nil {
			return fmt.Errorf("update card %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return replaceTags(tx, id, in.Tags)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Move changes only the card's column, recomputing CompletedAt with the same
// rule as Update. Title, description, due date and tags are untouched.
func (s *CardStore) Move(id, column string) (*models.Card, error) {
	if column == "" {
		return nil, validationErr("column", "must not be empty")
	}
	if !s.cfg.hasColumn(column) {
		return nil, validationErr("column", fmt.Sprintf("unknown column %q", column))
	}

	res := s.db.Model(&models.Card{}).Where("id = ?", id).Updates(map[string]any{
		"column_name":  column,
		"completed_at": s.completionFor(column),
		"updated_at":   s.now(),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("move card %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}

// Delete removes the card together with its tags and comments and reports how
// many cards were removed (0 or 1). The caller decides whether 0 is an error.
func (s *CardStore) Delete(id string) (int64, error) {
	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ?", id).Delete(&models.Tag{}).Error; err != nil {
			return fmt.Errorf("delete tags of card %s: %w", id, err)
		}
		if err := tx.Where("card_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of card %s: %w", id, err)
		}
		res := tx.Delete(&models.Card{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete card %s: %w", id, res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

// DeleteAll wipes every card, tag and comment. Used by the replace-mode
// importer, always inside its transaction.
func (s *CardStore) DeleteAll() error {
	if err := s.db.Where("1 = 1").Delete(&models.Tag{}).Error; err != nil {
		return fmt.Errorf("delete all tags: %w", err)
	}
	if err := s.db.Where("1 = 1").Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("delete all comments: %w", err)
	}
	if err := s.db.Where("1 = 1").Delete(&models.Card{}).Error; err != nil {
		return fmt.Errorf("delete all cards: %w", err)
	}
	return nil
}

// Restore inserts a card from a snapshot document entry under a fresh id.
// Document timestamps are kept when parseable; the completion timestamp is
// derived from the column so the completion invariant survives the import.
func (s *CardStore) Restore(entry models.SnapshotCard) (*models.Card, error) {
	title, err := requireTitle(entry.Title)
	if err != nil {
		return nil, err
	}
	column, err := s.resolveColumn(entry.Column)
	if err != nil {
		return nil, err
	}
	due, err := normalizeDueDate(entry.DueDate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	card := models.Card{
		ID:          uuid.NewString(),
		Title:       title,
		Description: entry.Description,
		Column:      column,
		DueDate:     due,
		CreatedAt:   parseTimeOr(entry.CreatedAt, now),
		UpdatedAt:   now,
	}
	if column == s.cfg.Terminal {
		completed := now
		if entry.CompletedAt != nil {
			completed = parseTimeOr(*entry.CompletedAt, now)
		}
		card.CompletedAt = &completed
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&card).Error; err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		return replaceTags(tx, card.ID, entry.Tags)
	})
	if err != nil {
		return nil, err
	}

	card.TagNames = normalizeTags(entry.Tags)
	return &card, nil
}

func (s *CardStore) completionFor(column string) *time.Time {
	if column != s.cfg.Terminal {
		return nil
	}
	now := s.now()
	return &now
}

func (s *CardStore) resolveColumn(column string) (string, error) {
	if column == "" {
		return s.cfg.DefaultColumn(), nil
	}
	if !s.cfg.hasColumn(column) {
		return "", validationErr("column", fmt.Sprintf("unknown column %q", column))
	}
	return column, nil
}

func requireTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", validationErr("title", "must not be empty")
	}
	return trimmed, nil
}

func normalizeDueDate(due *string) (*string, error) {
	if due == nil || *due == "" {
		return nil, nil
	}
	if _, err := time.ParseInLocation(dayLayout, *due, time.Local); err != nil {
		return nil, validationErr("due_date", fmt.Sprintf("%q is not a %s date", *due, dayLayout))
	}
	return due, nil
}

func parseTimeOr(value string, fallback time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return fallback
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func tagOrder(db *gorm.DB) *gorm.DB {
	return db.Order("tags.id ASC")
}

const dayLayout = "2006-01-02"

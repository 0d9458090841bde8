package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hkato/kanban/internal/models"
)

// CommentStore is the card-scoped comment CRUD. Comments belong to exactly
// one card and are removed with it.
type CommentStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db, now: time.Now}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *CommentStore) WithTx(tx *gorm.DB) *CommentStore {
	return &CommentStore{db: tx, now: s.now}
}

// ListByCard returns the card's comments, newest first. A card with no
// comments (or no card at all) yields an empty slice.
func (s *CommentStore) ListByCard(cardID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.
		Where("card_id = ?", cardID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments of card %s: %w", cardID, err)
	}
	return comments, nil
}

// Create attaches a new comment to an existing card. The parent card is
// checked explicitly so a missing card is always reported as ErrNotFound
// rather than a driver-specific constraint failure.
func (s *CommentStore) Create(cardID, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, validationErr("content", "must not be empty")
	}

	var n int64
	if err := s.db.Model(&models.Card{}).Where("id = ?", cardID).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check card %s: %w", cardID, err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		CardID:    cardID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// Update replaces the comment's content. ErrNotFound when no row matched.
func (s *CommentStore) Update(id, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, validationErr("content", "must not be empty")
	}

	res := s.db.Model(&models.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return nil, fmt.Errorf("update comment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload comment %s: %w", id, err)
	}
	return &comment, nil
}

// Delete removes a single comment. ErrNotFound when no row matched.
func (s *CommentStore) Delete(id string) error {
	res := s.db.Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete comment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllForCard removes every comment of the card. Zero matches is fine;
// the card-deletion cascade calls this unconditionally.
func (s *CommentStore) DeleteAllForCard(cardID string) (int64, error) {
	res := s.db.Where("card_id = ?", cardID).Delete(&models.Comment{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete comments of card %s: %w", cardID, res.Error)
	}
	return res.RowsAffected, nil
}

// Restore inserts a comment from a snapshot document entry under a fresh id,
// keeping the document's creation time when parseable.
func (s *CommentStore) Restore(cardID string, entry models.SnapshotComment) (*models.Comment, error) {
	if strings.TrimSpace(entry.Content) == "" {
		return nil, validationErr("content", "must not be empty")
	}
	comment := models.Comment{
		ID:        uuid.NewString(),
		CardID:    cardID,
		Content:   entry.Content,
		CreatedAt: parseTimeOr(entry.CreatedAt, s.now()),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

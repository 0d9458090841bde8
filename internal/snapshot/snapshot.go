// Package snapshot serializes the whole board to a portable JSON document and
// re-hydrates such documents under merge or replace policy.
package snapshot

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hkato/kanban/internal/board"
	"github.com/hkato/kanban/internal/models"
)

// Import modes.
const (
	ModeMerge   = "merge"
	ModeReplace = "replace"
)

// Service composes the card and comment stores to export and import board
// snapshots.
type Service struct {
	db       *gorm.DB
	cards    *board.CardStore
	comments *board.CommentStore
	now      func() time.Time
}

func NewService(db *gorm.DB, cards *board.CardStore, comments *board.CommentStore) *Service {
	return &Service{db: db, cards: cards, comments: comments, now: time.Now}
}

// Summary reports the outcome of an import. Errors holds one message per
// failed card, keyed by the card's title.
type Summary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// Export produces the whole-board document: every card, active and completed,
// with its tags and full comment list.
func (s *Service) Export() (*models.Snapshot, error) {
	cards, err := s.cards.All()
	if err != nil {
		return nil, err
	}

	entries := make([]models.SnapshotCard, 0, len(cards))
	for _, card := range cards {
		entry := models.SnapshotCard{
			ID:          card.ID,
			Title:       card.Title,
			Description: card.Description,
			Column:      card.Column,
			DueDate:     card.DueDate,
			CreatedAt:   card.CreatedAt.Format(time.RFC3339),
			Tags:        card.TagNames,
			Comments:    make([]models.SnapshotComment, 0, len(card.Comments)),
		}
		if card.CompletedAt != nil {
			completed := card.CompletedAt.Format(time.RFC3339)
			entry.CompletedAt = &completed
		}
		for _, comment := range card.Comments {
			entry.Comments = append(entry.Comments, models.SnapshotComment{
				Content:   comment.Content,
				CreatedAt: comment.CreatedAt.Format(time.RFC3339),
			})
		}
		entries = append(entries, entry)
	}

	return &models.Snapshot{
		Version:   models.SnapshotVersion,
		Timestamp: s.now().Format(time.RFC3339),
		Cards:     entries,
	}, nil
}

// Import re-hydrates a snapshot document.
//
// Replace mode wipes the board and inserts every document card as a new
// record, all inside one transaction so a failure mid-sequence cannot leave
// the board half-deleted. Merge mode keeps existing data: a document card
// whose id is already present is skipped, everything else is inserted as new.
// In both modes each card is restored under a fresh id and individual card
// failures are recorded in the summary without aborting the rest.
func (s *Service) Import(doc *models.Snapshot, mode string) (*Summary, error) {
	if doc == nil || doc.Cards == nil {
		return nil, board.NewValidationError("cards", "document has no cards array")
	}
	if mode == "" {
		mode = ModeMerge
	}

	summary := &Summary{Errors: []string{}}

	switch mode {
	case ModeReplace:
		err := s.db.Transaction(func(tx *gorm.DB) error {
			cards := s.cards.WithTx(tx)
			comments := s.comments.WithTx(tx)
			if err := cards.DeleteAll(); err != nil {
				return err
			}
			for _, entry := range doc.Cards {
				s.restore(cards, comments, entry, summary)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("replace import: %w", err)
		}

	case ModeMerge:
		for _, entry := range doc.Cards {
			if entry.ID != "" {
				exists, err := s.cards.Exists(entry.ID)
				if err != nil {
					summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", entry.Title, err))
					continue
				}
				if exists {
					summary.Skipped++
					continue
				}
			}
			s.restore(s.cards, s.comments, entry, summary)
		}

	default:
		return nil, board.NewValidationError("mode", fmt.Sprintf("unknown import mode %q", mode))
	}

	zap.L().Info("Snapshot import finished",
		zap.String("mode", mode),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", len(summary.Errors)))

	return summary, nil
}

// restore inserts one document card plus its comments, folding any failure
// into the summary instead of propagating it.
func (s *Service) restore(cards *board.CardStore, comments *board.CommentStore, entry models.SnapshotCard, summary *Summary) {
	card, err := cards.Restore(entry)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", entry.Title, err))
		return
	}
	for _, c := range entry.Comments {
		if _, err := comments.Restore(card.ID, c); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", entry.Title, err))
		}
	}
	summary.Imported++
}

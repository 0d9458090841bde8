package models

import "time"

// Card is a single kanban card. Tags and Comments are owned by the card and
// removed with it.
type Card struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Column      string     `gorm:"column:column_name;not null" json:"column"`
	DueDate     *string    `json:"due_date"` // calendar date, "2006-01-02"
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Tags     []Tag     `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`

	// TagNames is the flattened tag list exposed over the API, in the order
	// the tags were stored.
	TagNames []string `gorm:"-" json:"tags"`
}

// Tag attaches a label to a card. A card's tag set is always replaced
// wholesale, never patched.
type Tag struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	CardID string `gorm:"index;uniqueIndex:idx_card_tag_name;not null" json:"-"`
	Name   string `gorm:"uniqueIndex:idx_card_tag_name;not null" json:"name"`
}

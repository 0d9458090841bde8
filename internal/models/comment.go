package models

import "time"

// Comment is a markdown note attached to a card. It cannot outlive its card.
type Comment struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CardID    string    `gorm:"index;not null" json:"card_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

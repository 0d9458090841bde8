package models

// SnapshotVersion identifies the export document format.
const SnapshotVersion = "1.0"

// Snapshot is the portable whole-board document produced by export and
// consumed by import. It carries every card, active and completed.
type Snapshot struct {
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"` // RFC3339
	Cards     []SnapshotCard `json:"cards"`
}

type SnapshotCard struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Column      string            `json:"column"`
	DueDate     *string           `json:"due_date"`
	CreatedAt   string            `json:"created_at"`
	CompletedAt *string           `json:"completed_at"`
	Tags        []string          `json:"tags"`
	Comments    []SnapshotComment `json:"comments"`
}

type SnapshotComment struct {
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

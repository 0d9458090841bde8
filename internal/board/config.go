package board

// Config names the workflow columns of the board. Columns are free states: a
// card may move from any column to any other. The terminal column is the only
// one with special behaviour, it stamps CompletedAt.
type Config struct {
	Columns  []string
	Terminal string
}

// DefaultConfig is the original three-column board.
func DefaultConfig() Config {
	return Config{
		Columns:  []string{"todo", "today", "done"},
		Terminal: "done",
	}
}

// DefaultColumn is the column assigned to new cards when none is given.
func (c Config) DefaultColumn() string {
	if len(c.Columns) == 0 {
		return c.Terminal
	}
	return c.Columns[0]
}

func (c Config) hasColumn(name string) bool {
	for _, col := range c.Columns {
		if col == name {
			return true
		}
	}
	return false
}

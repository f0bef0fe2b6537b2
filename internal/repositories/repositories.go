package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/songdeck/internal/shared"
)

// sequenceTables maps an entity table to the single-row counter that numbers its rows.
var sequenceTables = map[string]string{
	"folders": "folders_sequence",
	"listens": "listens_sequence",
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// NextSequence bumps the counter for table and returns the new value.
//
// Sequence numbers order folders and listens for display; they are not identifiers.
func NextSequence(q rowQuerier, table string) (int, error) {
	counter, ok := sequenceTables[table]
	if !ok {
		return 0, fmt.Errorf("%w: no sequence for table %q", shared.ErrInvalidArgument, table)
	}

	var sequence int
	query := fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1 RETURNING value", counter)
	if err := q.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to advance %s: %w", counter, err)
	}
	return sequence, nil
}

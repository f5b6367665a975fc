package store

import (
	"strings"

	"github.com/google/uuid"
)

// TodoQuery selects todos of one owner.
type TodoQuery struct {
	OwnerID   uuid.UUID
	Completed *bool
	// Search is a case-insensitive substring of the description.
	Search string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}

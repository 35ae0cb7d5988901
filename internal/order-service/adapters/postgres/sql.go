package postgres

import (
	"strings"

	"github.com/google/uuid"
)

func whereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// isUUID guards id columns; a malformed id is simply absent.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

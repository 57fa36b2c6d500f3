package history

import (
	"strings"
	"testing"
)

// pgx's extended protocol rejects multi-statement Exec calls, so the
// schema must stay one statement per entry.
func TestPostgresSchemaSingleStatements(t *testing.T) {
	if len(postgresSchema) == 0 {
		t.Fatal("postgres schema is empty")
	}
	for i, stmt := range postgresSchema {
		trimmed := strings.TrimRight(strings.TrimSpace(stmt), ";")
		if strings.Contains(trimmed, ";") {
			t.Errorf("schema[%d] contains multiple statements:\n%s", i, stmt)
		}
		if !strings.HasPrefix(trimmed, "CREATE ") {
			t.Errorf("schema[%d] is not a CREATE statement:\n%s", i, stmt)
		}
	}
}

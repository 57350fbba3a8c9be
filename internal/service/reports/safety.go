package reports

import (
	"fmt"
	"regexp"
	"strings"
)

// allowedTables is the full reporting schema. A synthesized query may
// only read from these; anything else is rejected before execution.
var allowedTables = map[string]bool{
	"workspaces":    true,
	"embed_configs": true,
	"embed_users":   true,
	"embed_chats":   true,
}

var forbiddenVerbs = []string{
	"insert", "update", "delete", "drop", "alter", "create",
	"replace", "truncate", "attach", "detach", "pragma", "vacuum", "reindex",
}

var tableRefPattern = regexp.MustCompile(`(?i)\b(?:from|join)\s+([a-zA-Z_][a-zA-Z0-9_]*)`)

// ValidateReadQuery statically checks a model-proposed query before it
// is allowed anywhere near the database. The model is untrusted: the
// query must be a single SELECT statement, free of write or schema
// verbs, and may only reference tables from the reporting schema.
// Returns ErrUnsafeQuery (wrapped with the reason) on any violation.
func ValidateReadQuery(query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return fmt.Errorf("%w: empty query", ErrUnsafeQuery)
	}

	// A single statement only. A trailing semicolon is tolerated,
	// anything after it is not.
	q = strings.TrimSuffix(q, ";")
	if strings.Contains(q, ";") {
		return fmt.Errorf("%w: multiple statements", ErrUnsafeQuery)
	}

	lowered := strings.ToLower(q)
	if !strings.HasPrefix(lowered, "select") {
		return fmt.Errorf("%w: not a SELECT statement", ErrUnsafeQuery)
	}

	for _, verb := range forbiddenVerbs {
		if containsWord(lowered, verb) {
			return fmt.Errorf("%w: forbidden keyword %q", ErrUnsafeQuery, verb)
		}
	}

	refs := tableRefPattern.FindAllStringSubmatch(q, -1)
	if len(refs) == 0 {
		return fmt.Errorf("%w: no table reference", ErrUnsafeQuery)
	}
	for _, ref := range refs {
		table := strings.ToLower(ref[1])
		if !allowedTables[table] {
			return fmt.Errorf("%w: table %q is not in the reporting schema", ErrUnsafeQuery, table)
		}
	}
	return nil
}

func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i == -1 {
			return false
		}
		i += idx
		before := i == 0 || !isWordByte(s[i-1])
		afterIdx := i + len(word)
		after := afterIdx >= len(s) || !isWordByte(s[afterIdx])
		if before && after {
			return true
		}
		idx = i + len(word)
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

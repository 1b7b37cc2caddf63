package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// formatTime formats t as RFC3339 with nanoseconds. The zero time is
// stored as an empty string.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a timestamp written by formatTime.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseTime(value, fieldName string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// encodeJSON marshals v for a TEXT column.
func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeJSON unmarshals a TEXT column into v. Empty columns leave v untouched.
func decodeJSON(value, fieldName string, v any) error {
	if value == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(value), v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return nil
}

// appendInClause appends " AND column IN (?, ?, ...)" for values.
func appendInClause(query *strings.Builder, args *[]any, column string, values []string) {
	query.WriteString(" AND ")
	query.WriteString(column)
	query.WriteString(" IN (")
	for i, v := range values {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString("?")
		*args = append(*args, v)
	}
	query.WriteString(")")
}

// appendLimit appends a LIMIT clause to a query builder if limit is > 0.
func appendLimit(query *strings.Builder, args *[]any, limit int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
}

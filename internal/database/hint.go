package database

import "strings"

// Hint turns common connection failures into an operator-facing suggestion.
// It returns "" when there is nothing useful to add.
func Hint(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "password"):
		return "check the database password"
	case strings.Contains(msg, "timeout"):
		return "connection timed out, check the network or try another connection string"
	case strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"):
		return "table is missing, initialize the database schema first"
	}
	return ""
}

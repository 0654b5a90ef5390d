package model

// DBQuery pairs a stable identifier with a SQL statement. The identifier is
// used in logs and diagnostics instead of the raw query text.
type DBQuery struct {
	ID    string
	Query string
}

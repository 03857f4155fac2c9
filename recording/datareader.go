package recording

import (
	"database/sql"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteReader reads tables back from a recorded database.
type SQLiteReader struct {
	*sql.DB

	dbName string
}

// NewSQLiteReader creates a reader for the database at the given path
// (without the .sqlite3 suffix).
func NewSQLiteReader(path string) *SQLiteReader {
	return &SQLiteReader{dbName: path}
}

// Init establishes a connection to the database.
func (r *SQLiteReader) Init() {
	db, err := sql.Open("sqlite3", r.dbName+".sqlite3")
	if err != nil {
		panic(err)
	}

	r.DB = db
}

// ListTables returns the names of all tables in the database.
func (r *SQLiteReader) ListTables() ([]string, error) {
	rows, err := r.Query(
		"SELECT name FROM sqlite_master WHERE type='table'")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// Executions returns the recorded execution entries in execution order.
func (r *SQLiteReader) Executions(tableName string) ([]ExecutionEntry, error) {
	rows, err := r.Query(
		"SELECT EventID, Time, Context, Outcome FROM " + tableName +
			" ORDER BY Time")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ExecutionEntry
	for rows.Next() {
		var e ExecutionEntry
		err := rows.Scan(&e.EventID, &e.Time, &e.Context, &e.Outcome)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

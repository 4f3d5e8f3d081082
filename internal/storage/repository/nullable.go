// Package repository provides the data-access objects for HoopLog tables.
package repository

import "database/sql"

// nullableID lets SQLite assign a rowid when the record has no id yet.
func nullableID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

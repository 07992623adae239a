package sqlutil

import (
	"database/sql"
	"time"
)

// Helpers for converting between Go types and sql.Null* types.

// ToSqlTime converts a Go time pointer to sql.NullTime.
func ToSqlTime(val *time.Time) sql.NullTime {
	if val == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *val, Valid: true}
}

// FromSqlTime converts sql.NullTime to a Go time pointer.
func FromSqlTime(val sql.NullTime) *time.Time {
	if !val.Valid {
		return nil
	}
	return &val.Time
}

// ToSqlString converts a Go string pointer to sql.NullString.
func ToSqlString(val *string) sql.NullString {
	if val == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *val, Valid: true}
}

// FromSqlStringPtr converts sql.NullString to a Go string pointer.
func FromSqlStringPtr(val sql.NullString) *string {
	if !val.Valid {
		return nil
	}
	return &val.String
}

// FromSqlInt32 converts sql.NullInt32 to a Go int with zero default.
func FromSqlInt32(val sql.NullInt32) int {
	if !val.Valid {
		return 0
	}
	return int(val.Int32)
}

package repo

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func toStrPtr(t pgtype.Text) *string {
	if t.Valid {
		return &t.String
	}
	return nil
}

func toTimePtr(ts pgtype.Timestamptz) *time.Time {
	if ts.Valid {
		t := ts.Time
		return &t
	}
	return nil
}

func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

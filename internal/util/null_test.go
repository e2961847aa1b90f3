package util

import (
	"database/sql"
	"testing"
)

func TestNullStringPtr(t *testing.T) {
	if got := NullStringPtr(nil); got.Valid {
		t.Errorf("NullStringPtr(nil) = %+v, want invalid", got)
	}

	s := "hello"
	got := NullStringPtr(&s)
	if !got.Valid || got.String != "hello" {
		t.Errorf("NullStringPtr(&s) = %+v, want valid hello", got)
	}
}

func TestNullStringToPtr(t *testing.T) {
	if got := NullStringToPtr(sql.NullString{}); got != nil {
		t.Errorf("NullStringToPtr(invalid) = %v, want nil", got)
	}

	got := NullStringToPtr(sql.NullString{String: "world", Valid: true})
	if got == nil || *got != "world" {
		t.Errorf("NullStringToPtr(valid) = %v, want world", got)
	}
}

func TestBoolToInt64(t *testing.T) {
	if got := BoolToInt64(true); got != 1 {
		t.Errorf("BoolToInt64(true) = %d, want 1", got)
	}
	if got := BoolToInt64(false); got != 0 {
		t.Errorf("BoolToInt64(false) = %d, want 0", got)
	}
}

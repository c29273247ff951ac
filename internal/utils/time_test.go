package util_test

import (
	"encoding/json"
	"testing"
	"time"

	util "github.com/taskpilot/taskpilot-api/internal/utils"
)

func TestLocalDateTimeJSON(t *testing.T) {
	t.Run("NaiveTimestamp", func(t *testing.T) {
		var ldt util.LocalDateTime
		if err := json.Unmarshal([]byte(`"2026-09-01T10:30:00"`), &ldt); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if ldt.Hour() != 10 || ldt.Minute() != 30 {
			t.Errorf("wrong wall-clock time: %v", ldt.Time)
		}

		out, err := json.Marshal(ldt)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(out) != `"2026-09-01T10:30:00"` {
			t.Errorf("wrong serialization: %s", out)
		}
	})

	t.Run("RFC3339Timestamp", func(t *testing.T) {
		var ldt util.LocalDateTime
		if err := json.Unmarshal([]byte(`"2026-09-01T10:30:00Z"`), &ldt); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		want := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
		if !ldt.Time.Equal(want) {
			t.Errorf("got %v, want %v", ldt.Time, want)
		}
	})

	t.Run("Null", func(t *testing.T) {
		var ldt util.LocalDateTime
		if err := json.Unmarshal([]byte(`null`), &ldt); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if !ldt.IsZero() {
			t.Errorf("null should leave the zero value, got %v", ldt.Time)
		}

		out, err := json.Marshal(ldt)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(out) != "null" {
			t.Errorf("zero value should serialize as null, got %s", out)
		}
	})
}

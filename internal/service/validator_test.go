package service

import (
	"encoding/json"
	"testing"
	"time"

	"logsify/internal/models"
)

// decode mirrors the gateway: candidates arrive as decoded JSON values.
func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("test fixture is not valid JSON: %v", err)
	}
	return v
}

func TestValidateRecord(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{"minimal valid", `{"message":"hello"}`, true},
		{"all fields valid", `{"message":"m","level":"warn","namespace":"api","metadata":{"a":{"b":[1,2]}},"timestamp":"2025-08-01T10:00:00Z"}`, true},
		{"not an object", `"hello"`, false},
		{"array is not a record", `[{"message":"m"}]`, false},
		{"null", `null`, false},
		{"missing message", `{"level":"info"}`, false},
		{"empty message", `{"message":""}`, false},
		{"message not a string", `{"message":42}`, false},
		{"unknown level", `{"message":"m","level":"verbose"}`, false},
		{"level case-sensitive", `{"message":"m","level":"INFO"}`, false},
		{"level not a string", `{"message":"m","level":3}`, false},
		{"namespace not a string", `{"message":"m","namespace":7}`, false},
		{"metadata not an object", `{"message":"m","metadata":[1,2]}`, false},
		{"metadata string rejected", `{"message":"m","metadata":"notes"}`, false},
		{"nested metadata ok", `{"message":"m","metadata":{"deep":{"deeper":{"x":null}}}}`, true},
		{"timestamp rfc3339", `{"message":"m","timestamp":"2025-08-01T10:00:00Z"}`, true},
		{"timestamp date only", `{"message":"m","timestamp":"2025-08-01"}`, true},
		{"timestamp epoch millis", `{"message":"m","timestamp":1754042400000}`, true},
		// present but unparsable rejects; only an absent timestamp defaults
		{"timestamp unparsable", `{"message":"m","timestamp":"yesterday"}`, false},
		{"timestamp wrong type", `{"message":"m","timestamp":true}`, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidateRecord(decode(t, tc.raw)); got != tc.want {
				t.Fatalf("ValidateRecord(%s) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestStampRecord_Defaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.August, 1, 10, 0, 0, 0, time.UTC)
	candidate := decode(t, `{"message":"hello"}`).(map[string]any)

	rec := StampRecord(candidate, 3, 9, now)

	if rec.AccountID != 3 || rec.TokenID != 9 {
		t.Fatalf("attribution not stamped: %+v", rec)
	}
	if rec.Level != models.LevelInfo {
		t.Fatalf("expected default level %q, got %q", models.LevelInfo, rec.Level)
	}
	if rec.Namespace != models.DefaultNamespace {
		t.Fatalf("expected default namespace, got %q", rec.Namespace)
	}
	meta, ok := rec.Metadata.(map[string]any)
	if !ok || len(meta) != 0 {
		t.Fatalf("expected empty metadata object, got %#v", rec.Metadata)
	}
	if !rec.Timestamp.Equal(now) || !rec.CreatedAt.Equal(now) {
		t.Fatalf("expected receipt time stamping, got ts=%v created=%v", rec.Timestamp, rec.CreatedAt)
	}
}

func TestStampRecord_ClientFieldsPreserved(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.August, 1, 10, 0, 0, 0, time.UTC)
	candidate := decode(t, `{"message":"m","level":"fatal","namespace":"billing","metadata":{"k":"v"},"timestamp":"2025-07-31T09:00:00Z"}`).(map[string]any)

	rec := StampRecord(candidate, 1, 1, now)

	if rec.Level != models.LevelFatal || rec.Namespace != "billing" {
		t.Fatalf("client fields overridden: %+v", rec)
	}
	want := time.Date(2025, time.July, 31, 9, 0, 0, 0, time.UTC)
	if !rec.Timestamp.Equal(want) {
		t.Fatalf("expected client event time %v, got %v", want, rec.Timestamp)
	}
	if !rec.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt must stay server-assigned, got %v", rec.CreatedAt)
	}
	meta, _ := rec.Metadata.(map[string]any)
	if meta["k"] != "v" {
		t.Fatalf("metadata lost: %#v", rec.Metadata)
	}
}

// Stamping is idempotent: defaulting twice yields the same result and
// empty metadata never accumulates state between calls.
func TestStampRecord_DefaultingIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.August, 1, 10, 0, 0, 0, time.UTC)
	candidate := decode(t, `{"message":"hello"}`).(map[string]any)

	first := StampRecord(candidate, 2, 4, now)
	if m := first.Metadata.(map[string]any); len(m) != 0 {
		t.Fatalf("first stamp metadata not empty: %#v", m)
	}
	// mutate the first result's metadata; the second stamp must not see it
	first.Metadata.(map[string]any)["leak"] = true

	second := StampRecord(candidate, 2, 4, now)
	if m := second.Metadata.(map[string]any); len(m) != 0 {
		t.Fatalf("second stamp accumulated metadata: %#v", m)
	}
	if second.Level != first.Level || second.Namespace != first.Namespace {
		t.Fatalf("stamping not idempotent: %+v vs %+v", first, second)
	}
}

func Test_parseEventTime(t *testing.T) {
	t.Parallel()

	if ts, ok := parseEventTime("2025-08-01 12:30:00"); !ok || ts != time.Date(2025, time.August, 1, 12, 30, 0, 0, time.UTC) {
		t.Fatalf("datetime layout: got %v ok=%v", ts, ok)
	}
	if ts, ok := parseEventTime(float64(0)); !ok || !ts.Equal(time.UnixMilli(0).UTC()) {
		t.Fatalf("epoch millis: got %v ok=%v", ts, ok)
	}
	if _, ok := parseEventTime("not-a-time"); ok {
		t.Fatal("expected unparsable string to fail")
	}
	if _, ok := parseEventTime(nil); ok {
		t.Fatal("expected nil to fail")
	}
}

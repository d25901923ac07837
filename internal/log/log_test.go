package log

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestLoggerWritesThroughSetOutput(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Logger().Info().Str("action", "seed.hospitals").Msg("inserting")
	Logger().Warn().Str("action", "order.notify.fail").Send()

	dec := json.NewDecoder(&buf)
	var got []map[string]any
	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, m)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 lines, got %d", len(got))
	}
	if got[0]["level"] != "info" || got[0]["action"] != "seed.hospitals" || got[0]["ts"] == nil {
		t.Fatalf("first line: %v", got[0])
	}
	if got[1]["level"] != "warn" || got[1]["action"] != "order.notify.fail" {
		t.Fatalf("second line: %v", got[1])
	}
}

func TestAuditUsesAuditLevel(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Audit(nil, "hospital.beds.update", map[string]any{"icu": 4})
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m["level"] != "audit" || m["action"] != "hospital.beds.update" {
		t.Fatalf("audit line: %v", m)
	}
}

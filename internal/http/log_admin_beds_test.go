package handlers_test

import (
	"testing"
)

func TestAdminActionsAreAudited(t *testing.T) {
	app := newAdminAPI(t)

	denied := captureLogs(t, func() { putBeds(t, app, "nope", `{"ICU":1,"General":1,"Special":1}`) })
	if e, ok := findLog(denied, "access.denied.admin"); !ok || e.Level != "warn" {
		t.Fatalf("expected warn access.denied.admin, got %+v (found=%v)", e, ok)
	}

	entries := captureLogs(t, func() { putBeds(t, app, adminToken, `{"ICU":4,"General":10,"Special":2}`) })
	e, ok := findLog(entries, "hospital.beds.update")
	if !ok {
		t.Fatal("hospital.beds.update audit log not found")
	}
	if e.Level != "audit" {
		t.Fatalf("level = %q, want audit", e.Level)
	}
	if e.Fields["hospital_id"] != "h-sunset" || e.Fields["icu"] != float64(4) {
		t.Fatalf("audit fields = %+v", e.Fields)
	}
}

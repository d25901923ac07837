package domain

import "testing"

func TestBedStatusAndClass(t *testing.T) {
	cases := []struct {
		beds          BedAvailability
		status, class string
	}{
		{BedAvailability{}, "No beds", "no-beds"},
		{BedAvailability{ICU: 3, General: 6}, "Limited", "limited"},
		{BedAvailability{ICU: 3, General: 18, Special: 5}, "Available", "available"},
	}
	for _, tc := range cases {
		if got := tc.beds.Status(); got != tc.status {
			t.Fatalf("Status(%+v) = %q, want %q", tc.beds, got, tc.status)
		}
		if got := tc.beds.StatusClass(); got != tc.class {
			t.Fatalf("StatusClass(%+v) = %q, want %q", tc.beds, got, tc.class)
		}
	}
}

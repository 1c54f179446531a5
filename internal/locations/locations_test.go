package locations

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		location string
		want     string
		found    bool
	}{
		{location: "New Delhi, Delhi", want: "New Delhi", found: true},
		{location: "  jaipur ,  RAJASTHAN ", want: "Jaipur", found: true},
		{location: "Varanasi", want: "Varanasi", found: true},
		{location: "Jaipur, Kerala", found: false},
		{location: "Atlantis", found: false},
		{location: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, ok := Lookup(tt.location)
			if ok != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.location, ok, tt.found)
			}
			if ok && got.Name != tt.want {
				t.Fatalf("Lookup(%q) = %q, want %q", tt.location, got.Name, tt.want)
			}
		})
	}
}

func TestCities_FilterAndSort(t *testing.T) {
	got := Cities("rajasthan")
	want := []string{"Jaipur", "Jodhpur", "Udaipur"}
	if len(got) != len(want) {
		t.Fatalf("Cities(rajasthan) returned %d cities, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.Name != want[i] {
			t.Errorf("Cities(rajasthan)[%d] = %q, want %q", i, c.Name, want[i])
		}
	}

	if all := Cities(""); len(all) != len(cities) {
		t.Fatalf("Cities(\"\") returned %d, want %d", len(all), len(cities))
	}
}

func TestCitiesBelongToKnownStates(t *testing.T) {
	known := make(map[string]bool)
	for _, s := range States() {
		known[s.Name] = true
	}
	for _, c := range cities {
		if !known[c.State] {
			t.Errorf("city %q references unknown state %q", c.Name, c.State)
		}
		if c.Latitude < 6 || c.Latitude > 37 || c.Longitude < 68 || c.Longitude > 98 {
			t.Errorf("city %q has coordinates outside India: %v,%v", c.Name, c.Latitude, c.Longitude)
		}
	}
}

func TestCity_Label(t *testing.T) {
	c, _ := Lookup("Kochi")
	if c.Label() != "Kochi, Kerala" {
		t.Fatalf("Label() = %q", c.Label())
	}
}

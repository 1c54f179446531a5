package models

import "testing"

func TestPhonePlaceholderEmail(t *testing.T) {
	if got := PhonePlaceholderEmail("+919876543210"); got != "+919876543210@example.local" {
		t.Fatalf("PhonePlaceholderEmail() = %q", got)
	}
}

func TestIsValidAccommodationKind(t *testing.T) {
	tests := []struct {
		name string
		kind AccommodationKind
		want bool
	}{
		{name: "hotel", kind: AccommodationHotel, want: true},
		{name: "dharamshala", kind: AccommodationDharamshala, want: true},
		{name: "empty", kind: "", want: false},
		{name: "hostel", kind: AccommodationKind("hostel"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAccommodationKind(tt.kind); got != tt.want {
				t.Fatalf("IsValidAccommodationKind(%q) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

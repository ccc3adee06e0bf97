package mains

import "testing"

func TestFrequencyForTimezone(t *testing.T) {
	tests := []struct {
		timezone string
		want     float64
	}{
		// 50 Hz grids
		{"Europe/London", Hz50},
		{"Europe/Berlin", Hz50},
		{"Africa/Lagos", Hz50},
		{"Australia/Sydney", Hz50},
		{"Asia/Kolkata", Hz50},
		{"Asia/Tokyo", Hz50}, // Japan defaults to the Tokyo-region grid

		// 60 Hz grids
		{"America/New_York", Hz60},
		{"America/Mexico_City", Hz60},
		{"America/Bogota", Hz60},
		{"America/Sao_Paulo", Hz60},
		{"Asia/Seoul", Hz60},
		{"Asia/Manila", Hz60},

		// No country association
		{"UTC", Hz50},
		{"GMT", Hz50},
		{"Etc/UTC", Hz50},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			got := FrequencyForTimezone(tt.timezone)
			if got != tt.want {
				t.Errorf("FrequencyForTimezone(%q) = %.0f, want %.0f", tt.timezone, got, tt.want)
			}
		})
	}
}

func TestFrequency(t *testing.T) {
	freq := Frequency()
	if freq != Hz50 && freq != Hz60 {
		t.Errorf("Frequency() = %.0f, want 50 or 60", freq)
	}
}

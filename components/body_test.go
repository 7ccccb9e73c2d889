package components

import "testing"

func TestBodyShrink(t *testing.T) {
	tests := []struct {
		name string
		size float64
		rate float64
		want float64
	}{
		{"normal", 3, 0.5, 2.5},
		{"floors at zero", 0.2, 0.5, 0},
		{"stays at zero", 0, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Body{Size: tt.size, BaseSize: 5}
			b.Shrink(tt.rate)
			if b.Size != tt.want {
				t.Errorf("Shrink(%v) from %v = %v, want %v", tt.rate, tt.size, b.Size, tt.want)
			}
			if b.BaseSize != 5 {
				t.Errorf("base size changed to %v", b.BaseSize)
			}
		})
	}
}

func TestBodyRegrow(t *testing.T) {
	tests := []struct {
		name string
		size float64
		want float64
	}{
		{"below base", 2, 2.5},
		{"caps at base", 4.8, 5},
		{"at base", 5, 5},
		{"above base after merge", 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Body{Size: tt.size, BaseSize: 5}
			b.Regrow(0.5)
			if b.Size != tt.want {
				t.Errorf("Regrow from %v = %v, want %v", tt.size, b.Size, tt.want)
			}
		})
	}
}

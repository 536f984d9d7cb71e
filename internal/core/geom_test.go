package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"right edge exclusive", 30, 15, false},
		{"bottom edge exclusive", 15, 30, false},
		{"outside left", 5, 15, false},
		{"outside above", 15, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := Clamp(tt.val, tt.min, tt.max); got != tt.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tt.val, tt.min, tt.max, got, tt.expected)
		}
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		a, n, expected int
	}{
		{0, 32, 0},
		{31, 32, 31},
		{32, 32, 0},
		{33, 32, 1},
		{-1, 32, 31},
		{-32, 32, 0},
		{-65, 32, 31},
		{-1, 24, 23},
	}

	for _, tt := range tests {
		if got := Mod(tt.a, tt.n); got != tt.expected {
			t.Errorf("Mod(%d, %d) = %d, expected %d", tt.a, tt.n, got, tt.expected)
		}
	}
}

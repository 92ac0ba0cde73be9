package utils

import "testing"

func TestInRect(t *testing.T) {
	tests := []struct {
		name   string
		px, py int
		want   bool
	}{
		{"内部", 50, 20, true},
		{"左上角", 10, 10, true},
		{"右下角", 110, 40, true},
		{"右侧外", 111, 20, false},
		{"上方外", 50, 9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InRect(tt.px, tt.py, 10, 10, 100, 30); got != tt.want {
				t.Errorf("InRect(%d, %d) = %v, want %v", tt.px, tt.py, got, tt.want)
			}
		})
	}
}

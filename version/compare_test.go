package version

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		v1       string
		v2       string
		expected int // -1, 0, 1
	}{
		{"equal", "3.3.3.0", "3.3.3.0", 0},
		{"major less", "1.0.0.0", "2.0.0.0", -1},
		{"major greater", "2.0.0.0", "1.0.0.0", 1},
		{"minor less", "1.0.0.0", "1.1.0.0", -1},
		{"build greater", "1.0.2.0", "1.0.1.0", 1},
		{"revision less", "1.0.0.0", "1.0.0.1", -1},

		// Component count
		{"trailing zeros equal", "1.0", "1.0.0.0", 0},
		{"short less", "1", "1.0.0.1", -1},
		{"short greater", "2", "1.9.9.9", 1},

		// Numeric, not lexical
		{"numeric ordering", "1.10.0.0", "1.9.0.0", 1},
		{"leading zeros", "1.01", "1.1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v1 := MustParse(tt.v1)
			v2 := MustParse(tt.v2)

			got := v1.Compare(v2)
			if got != tt.expected {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.v1, tt.v2, got, tt.expected)
			}
		})
	}
}

func TestEquals(t *testing.T) {
	tests := []struct {
		v1       string
		v2       string
		expected bool
	}{
		{"1.0.0.0", "1.0.0.0", true},
		{"1.0.0.0", "2.0.0.0", false},
		{"1", "1.0.0.0", true},
	}

	for _, tt := range tests {
		v1 := MustParse(tt.v1)
		v2 := MustParse(tt.v2)

		got := v1.Equals(v2)
		if got != tt.expected {
			t.Errorf("Equals(%s, %s) = %v, want %v", tt.v1, tt.v2, got, tt.expected)
		}
	}
}

func TestLessAndGreater(t *testing.T) {
	low := MustParse("1.0.0.0")
	high := MustParse("1.0.1.0")

	if !low.LessThan(high) {
		t.Errorf("%s.LessThan(%s) = false, want true", low, high)
	}
	if !high.GreaterThan(low) {
		t.Errorf("%s.GreaterThan(%s) = false, want true", high, low)
	}
	if low.GreaterThan(low) {
		t.Errorf("%s.GreaterThan(itself) = true, want false", low)
	}
}

func TestMax(t *testing.T) {
	if got := Max(nil); got != nil {
		t.Errorf("Max(nil) = %v, want nil", got)
	}

	versions := []*Version{
		MustParse("1.0.0.0"),
		MustParse("3.3.3.0"),
		MustParse("2.9"),
	}
	if got := Max(versions); got.String() != "3.3.3.0" {
		t.Errorf("Max() = %s, want 3.3.3.0", got)
	}
}

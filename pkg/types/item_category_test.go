package types

import "testing"

func TestParseItemCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    ItemCategory
		wantErr bool
	}{
		{"common", CategoryCommon, false},
		{"Food", CategoryCommon, false},
		{"uncommon", CategoryUncommon, false},
		{"trash", CategoryUncommon, false},
		{" rare ", CategoryRare, false},
		{"collectible", CategoryRare, false},
		{"", CategoryNone, false},
		{"none", CategoryNone, false},
		{"legendary", CategoryNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseItemCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseItemCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseItemCategory(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestItemCategory_StringRoundTrip(t *testing.T) {
	for _, c := range AllItemCategories {
		parsed, err := ParseItemCategory(c.String())
		if err != nil {
			t.Fatalf("ParseItemCategory(%q) failed: %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("Round trip of %v gave %v", c, parsed)
		}
		if !c.IsValid() {
			t.Errorf("%v should be valid", c)
		}
	}
	if CategoryNone.IsValid() {
		t.Error("CategoryNone should not be valid")
	}
}

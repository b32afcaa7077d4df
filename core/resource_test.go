package core

import "testing"

func TestParseResourceType(t *testing.T) {
	tests := []struct {
		in      string
		want    ResourceType
		wantErr bool
	}{
		{"Metal", ResourceMetal, false},
		{"wood", ResourceWood, false},
		{" STONE ", ResourceStone, false},
		{"food", ResourceFood, false},
		{"rock", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseResourceType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseResourceType(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseResourceType(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseResourceType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResourceTypeValid(t *testing.T) {
	for _, rt := range ResourceTypes() {
		if !rt.Valid() {
			t.Errorf("%v should be valid", rt)
		}
	}
	if ResourceCount.Valid() {
		t.Error("ResourceCount sentinel must not be valid")
	}
	if ResourceType(-1).Valid() {
		t.Error("negative type must not be valid")
	}
	if got := ResourceType(9).String(); got != "ResourceType(9)" {
		t.Errorf("unexpected String for invalid type: %q", got)
	}
}

func TestSoundTypeString(t *testing.T) {
	if SoundFanfare.String() != "fanfare" {
		t.Errorf("got %q", SoundFanfare.String())
	}
	if SoundTypeCount.String() != "unknown" {
		t.Errorf("sentinel should be unknown, got %q", SoundTypeCount.String())
	}
}

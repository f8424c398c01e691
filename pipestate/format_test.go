package pipestate

import "testing"

func TestMakeResourceFormat(t *testing.T) {
	tests := []struct {
		vk   uint32
		want ResourceFormat
	}{
		{0, UnknownFormat},
		{37, ResourceFormat{Name: "R8G8B8A8_UNORM", ComponentCount: 4, ComponentWidth: 1, CompType: CompTypeUNorm}},
		{43, ResourceFormat{Name: "R8G8B8A8_SRGB", ComponentCount: 4, ComponentWidth: 1, CompType: CompTypeUNorm, SRGB: true}},
		{44, ResourceFormat{Name: "B8G8R8A8_UNORM", ComponentCount: 4, ComponentWidth: 1, CompType: CompTypeUNorm}},
		{97, ResourceFormat{Name: "R16G16B16A16_SFLOAT", ComponentCount: 4, ComponentWidth: 2, CompType: CompTypeFloat}},
		{109, ResourceFormat{Name: "R32G32B32A32_SFLOAT", ComponentCount: 4, ComponentWidth: 4, CompType: CompTypeFloat}},
		{126, ResourceFormat{Name: "D32_SFLOAT", ComponentCount: 1, ComponentWidth: 4, CompType: CompTypeDepth}},
	}
	for _, tt := range tests {
		got, ok := MakeResourceFormat(tt.vk)
		if !ok || got != tt.want {
			t.Errorf("format %d: got %+v (%v), want %+v", tt.vk, got, ok, tt.want)
		}
	}
}

func TestMakeResourceFormatUnknown(t *testing.T) {
	got, ok := MakeResourceFormat(1000156000)
	if ok || got != UnknownFormat {
		t.Fatalf("got %+v, %v", got, ok)
	}
}

func TestEnumTableLookup(t *testing.T) {
	if name, ok := cullModes.lookup(3); !ok || name != "FrontAndBack" {
		t.Fatalf("got %q, %v", name, ok)
	}
	if name, ok := cullModes.lookup(0x7fffffff); ok || name != "None" {
		t.Fatalf("got %q, %v", name, ok)
	}
	if name, ok := compareOps.lookup(0xffffffff); ok || name != "Never" {
		t.Fatalf("got %q, %v", name, ok)
	}
}

func TestStageString(t *testing.T) {
	if StageFragment.String() != "Fragment" || Stage(9).String() != "Unknown" {
		t.Fatal("unexpected stage names")
	}
}

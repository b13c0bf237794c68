package physics

import "testing"

func TestKindForTag(t *testing.T) {
	for _, tag := range []Tag{TagBlackHole, TagStar, TagGasPlanet, TagTerrestrialPlanet, TagDwarfPlanet, TagComet} {
		k, ok := KindForTag(tag)
		if !ok {
			t.Errorf("no kind for %v", tag)
			continue
		}
		if k.Tag != tag {
			t.Errorf("KindForTag(%v) returned %v", tag, k.Tag)
		}
	}

	if _, ok := KindForTag(TagEmpty); ok {
		t.Error("empty tag should not map to a kind")
	}
	if _, ok := KindForTag(Tag(42)); ok {
		t.Error("unknown tag should not map to a kind")
	}
}

func TestKindByName(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
	}{
		{"star", TagStar},
		{"Planet", TagTerrestrialPlanet},
		{"terrestrial_planet", TagTerrestrialPlanet},
		{" black_hole ", TagBlackHole},
		{"comet", TagComet},
	}
	for _, tt := range tests {
		k, ok := KindByName(tt.name)
		if !ok || k.Tag != tt.tag {
			t.Errorf("KindByName(%q) = %v, %v", tt.name, k.Tag, ok)
		}
	}
	if _, ok := KindByName("moon"); ok {
		t.Error("expected unknown kind")
	}
}

func TestTagString(t *testing.T) {
	if TagStar.String() != "star" || Tag(9).String() != "tag(9)" {
		t.Errorf("unexpected names: %s %s", TagStar, Tag(9))
	}
}

package theme

import "testing"

func TestByName(t *testing.T) {
	for _, name := range Names() {
		if got := ByName(name).Name; got != name {
			t.Fatalf("ByName(%q).Name = %q", name, got)
		}
	}
	if got := ByName("nope").Name; got != FlexokiDark.Name {
		t.Fatalf("ByName(unknown) = %q, want %q", got, FlexokiDark.Name)
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)
	SetActive("flexoki-light")
	if Active.Name != "flexoki-light" {
		t.Fatalf("Active = %q, want flexoki-light", Active.Name)
	}
}

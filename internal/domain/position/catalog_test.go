package position

import "testing"

func TestCatalog_StartersAndBench(t *testing.T) {
	items := Catalog()
	if len(items) != 20 {
		t.Fatalf("expected 20 positions, got %d", len(items))
	}

	starters, bench := 0, 0
	for _, item := range items {
		switch {
		case item.IsStarting():
			starters++
		case item.IsSubstitute():
			bench++
		default:
			t.Fatalf("position %s is neither starter nor substitute", item.ID)
		}
		if item.Disabled {
			t.Fatalf("position %s starts disabled", item.ID)
		}
	}
	if starters != 15 || bench != 5 {
		t.Fatalf("expected 15 starters and 5 substitutes, got %d and %d", starters, bench)
	}
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	first := Catalog()
	first[0].Disabled = true
	first[0].Name = "Changed"

	if again := Catalog(); again[0].Disabled || again[0].Name != "Loosehead Prop" {
		t.Fatalf("catalog mutated through returned slice: %+v", again[0])
	}
}

func TestMerge_KeepsOnlyDisabledFlags(t *testing.T) {
	got := Merge([]Position{
		{ID: "16", Name: "Renamed", Disabled: true},
		{ID: "99", Name: "Ghost", Disabled: true},
	})

	if len(got) != 20 {
		t.Fatalf("expected 20 positions, got %d", len(got))
	}
	if !got[15].Disabled || got[15].Name != "Substitute" {
		t.Fatalf("unexpected merged position 16: %+v", got[15])
	}
	for _, item := range got {
		if item.ID == "99" {
			t.Fatalf("unknown position leaked into catalog")
		}
	}
}

func TestSortByNumber(t *testing.T) {
	items := []Position{{ID: "10"}, {ID: "2"}, {ID: "20"}, {ID: "1"}}
	SortByNumber(items)

	want := []string{"1", "2", "10", "20"}
	for i, item := range items {
		if item.ID != want[i] {
			t.Fatalf("position %d: got %s want %s", i, item.ID, want[i])
		}
	}
}

func TestNumber_NonNumeric(t *testing.T) {
	p := Position{ID: "bench"}
	if p.Number() != 0 || p.IsStarting() || p.IsSubstitute() {
		t.Fatalf("non-numeric id should be neither starter nor substitute")
	}
}

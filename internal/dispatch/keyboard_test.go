package dispatch

import (
	"context"
	"testing"

	"fleetops_backend/internal/geo"
)

func resultsPlanner(t *testing.T, names ...string) *Planner {
	t.Helper()

	geocoder := geocoderFunc(func(context.Context, string, int) ([]geo.Suggestion, error) {
		return makeSuggestions(names...), nil
	})
	p := newTestPlanner(geocoder, noRouter())
	t.Cleanup(p.Close)

	if err := p.Input(FieldOrigin, "query"); err != nil {
		t.Fatalf("input failed: %v", err)
	}
	waitFor(t, "results", func() bool {
		return p.Snapshot().Origin.State == StateResults
	})
	return p
}

func pressKeys(t *testing.T, p *Planner, keys ...Key) {
	t.Helper()
	for _, key := range keys {
		if err := p.Key(FieldOrigin, key); err != nil {
			t.Fatalf("key %s failed: %v", key, err)
		}
	}
}

func TestArrowDownWrapsModuloLength(t *testing.T) {
	p := resultsPlanner(t, "a", "b", "c", "d", "e")

	if idx := p.Snapshot().Origin.ActiveIndex; idx != -1 {
		t.Fatalf("expected no active suggestion initially, got %d", idx)
	}

	pressKeys(t, p, KeyArrowDown)
	if idx := p.Snapshot().Origin.ActiveIndex; idx != 0 {
		t.Fatalf("expected first ArrowDown to land on 0, got %d", idx)
	}

	pressKeys(t, p, KeyArrowDown, KeyArrowDown, KeyArrowDown, KeyArrowDown)
	if idx := p.Snapshot().Origin.ActiveIndex; idx != 4 {
		t.Fatalf("expected index 4 after five downs, got %d", idx)
	}

	pressKeys(t, p, KeyArrowDown)
	if idx := p.Snapshot().Origin.ActiveIndex; idx != 0 {
		t.Fatalf("expected ArrowDown from the last item to wrap to 0, got %d", idx)
	}
}

func TestArrowUpWrapsModuloLength(t *testing.T) {
	p := resultsPlanner(t, "a", "b", "c", "d", "e")

	pressKeys(t, p, KeyArrowDown)
	pressKeys(t, p, KeyArrowUp)
	if idx := p.Snapshot().Origin.ActiveIndex; idx != 4 {
		t.Fatalf("expected ArrowUp from 0 to wrap to 4, got %d", idx)
	}
}

func TestEnterSelectsActiveSuggestion(t *testing.T) {
	p := resultsPlanner(t, "First Place, District, Country", "Second Place, District, Country")

	pressKeys(t, p, KeyArrowDown, KeyArrowDown, KeyEnter)

	snap := p.Snapshot().Origin
	if snap.Resolved == nil || snap.Resolved.Name != "Second Place, District, Country" {
		t.Fatalf("expected Enter to select the highlighted suggestion, got %+v", snap.Resolved)
	}
	if snap.IsOpen {
		t.Fatalf("expected dropdown closed after Enter selection")
	}
}

func TestEnterWithoutHighlightDoesNothing(t *testing.T) {
	p := resultsPlanner(t, "a", "b")

	pressKeys(t, p, KeyEnter)

	snap := p.Snapshot().Origin
	if snap.Resolved != nil {
		t.Fatalf("expected no selection when nothing is highlighted, got %+v", snap.Resolved)
	}
	if !snap.IsOpen || len(snap.Suggestions) != 2 {
		t.Fatalf("expected dropdown untouched, got %+v", snap)
	}
}

func TestEscapeClosesWithoutMutating(t *testing.T) {
	p := resultsPlanner(t, "a", "b", "c")

	pressKeys(t, p, KeyArrowDown, KeyEscape)

	snap := p.Snapshot().Origin
	if snap.IsOpen {
		t.Fatalf("expected Escape to close the dropdown")
	}
	if snap.QueryText != "query" || len(snap.Suggestions) != 3 || snap.Resolved != nil {
		t.Fatalf("expected Escape to leave text, suggestions and resolution intact, got %+v", snap)
	}
}

func TestClosedDropdownIgnoresNavigation(t *testing.T) {
	p := resultsPlanner(t, "a", "b")

	pressKeys(t, p, KeyEscape)
	pressKeys(t, p, KeyArrowDown, KeyArrowUp, KeyEnter)

	snap := p.Snapshot().Origin
	if snap.ActiveIndex != -1 || snap.Resolved != nil || snap.IsOpen {
		t.Fatalf("expected navigation to be inert with a closed dropdown, got %+v", snap)
	}
}

func TestHoverHighlightsWithoutSelecting(t *testing.T) {
	p := resultsPlanner(t, "a", "b", "c")

	if err := p.Hover(FieldOrigin, 2); err != nil {
		t.Fatalf("hover failed: %v", err)
	}

	snap := p.Snapshot().Origin
	if snap.ActiveIndex != 2 {
		t.Fatalf("expected hover to set the active index, got %d", snap.ActiveIndex)
	}
	if snap.Resolved != nil {
		t.Fatalf("expected hover not to select")
	}

	if err := p.Hover(FieldOrigin, 3); err != ErrIndexOutOfRange {
		t.Fatalf("expected ErrIndexOutOfRange for hover past the list, got %v", err)
	}
}

func TestOutsideClickClosesWithoutMutating(t *testing.T) {
	p := resultsPlanner(t, "a", "b")

	if err := p.CloseDropdown(FieldOrigin); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	snap := p.Snapshot().Origin
	if snap.IsOpen {
		t.Fatalf("expected dropdown closed")
	}
	if snap.QueryText != "query" || len(snap.Suggestions) != 2 {
		t.Fatalf("expected outside click to keep text and suggestions, got %+v", snap)
	}
}

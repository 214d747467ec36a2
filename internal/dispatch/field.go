package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetops_backend/internal/geo"
)

// noResultsMessage is shown when a search completes with zero candidates.
const noResultsMessage = "Location not found — try a different search."

// genericSearchFailure is shown when the provider fails without a usable message.
const genericSearchFailure = "Location search failed. Please try again."

// field is the per-input state machine. All access happens under the owning
// planner's lock; the only escape hatches are the debounce timer callback and
// provider completions, both of which re-acquire the lock and re-check their
// generation/token before touching anything.
type field struct {
	id FieldID

	search      tokenSource
	debounce    *time.Timer
	debounceGen uint64

	state       State
	queryText   string
	suggestions []geo.Suggestion
	activeIndex int
	isOpen      bool
	isLoading   bool
	errMsg      string
	displayErr  string
	resolved    *ResolvedLocation
}

func newField(id FieldID) *field {
	return &field{id: id, state: StateIdle, activeIndex: -1}
}

// inputLocked handles one keystroke's worth of text. Editing a resolved field nulls
// the resolution before anything else happens, so a stale coordinate pair can
// never outlive text it no longer matches.
func (p *Planner) inputLocked(f *field, text string) {
	f.queryText = text

	if f.resolved != nil {
		f.resolved = nil
		p.observeRouteLocked()
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		// Empty query short-circuits: no network call, nothing left pending.
		p.stopDebounceLocked(f)
		f.search.supersede()
		f.suggestions = nil
		f.activeIndex = -1
		f.isOpen = false
		f.isLoading = false
		f.errMsg = ""
		f.state = StateIdle
		return
	}

	f.state = StateSearching
	p.restartDebounceLocked(f, trimmed)
}

// restartDebounceLocked (re)starts the quiet-period timer. Last keystroke
// wins: each call bumps the generation so an already-fired callback from a
// superseded timer finds itself stale and does nothing.
func (p *Planner) restartDebounceLocked(f *field, query string) {
	f.debounceGen++
	gen := f.debounceGen

	if f.debounce != nil {
		f.debounce.Stop()
	}
	f.debounce = time.AfterFunc(p.opts.DebounceInterval, func() {
		p.fireSearch(f, gen, query)
	})
}

func (p *Planner) stopDebounceLocked(f *field) {
	f.debounceGen++
	if f.debounce != nil {
		f.debounce.Stop()
		f.debounce = nil
	}
}

// fireSearch runs when the quiet period elapses. It supersedes the previous
// search token and issues the lookup for the latest text.
func (p *Planner) fireSearch(f *field, gen uint64, query string) {
	p.mu.Lock()

	if p.closed || gen != f.debounceGen {
		p.mu.Unlock()
		return
	}

	tok := f.search.next()
	f.isLoading = true
	f.errMsg = ""
	f.state = StateSearching
	limit := p.opts.SuggestionLimit
	p.broadcastLocked()
	p.mu.Unlock()

	issue(p, tok, func(ctx context.Context) ([]geo.Suggestion, error) {
		return p.geocoder.SearchLocations(ctx, query, limit)
	}, func(suggestions []geo.Suggestion, err error) {
		f.isLoading = false
		switch {
		case err != nil:
			f.showErrorLocked(searchFailureMessage(err))
		case len(suggestions) == 0:
			f.showErrorLocked(noResultsMessage)
		default:
			// The limit is requested from the provider, but not trusted.
			if len(suggestions) > limit {
				suggestions = suggestions[:limit]
			}
			f.showResultsLocked(suggestions)
		}
	})
}

// showResultsLocked enters the results phase. Clearing the error here is what
// keeps "results visible" and "error visible" mutually exclusive.
func (f *field) showResultsLocked(suggestions []geo.Suggestion) {
	f.suggestions = suggestions
	f.activeIndex = -1
	f.errMsg = ""
	f.isOpen = true
	f.state = StateResults
}

// showErrorLocked enters the error phase, replacing any prior suggestions.
// The dropdown stays open so the error is visible where results would be.
func (f *field) showErrorLocked(message string) {
	f.suggestions = nil
	f.activeIndex = -1
	f.errMsg = message
	f.isOpen = true
	f.state = StateError
}

// selectLocked is the sole path into the resolved state. It shortens the
// display name, rewrites the query text to match, closes the dropdown, and
// abandons any pending or in-flight search for this field.
func (p *Planner) selectLocked(f *field, s geo.Suggestion) {
	p.stopDebounceLocked(f)
	f.search.supersede()

	name := shortenDisplayName(s.DisplayName)
	f.resolved = &ResolvedLocation{Name: name, Lat: s.Lat, Lon: s.Lon}
	f.queryText = name
	f.suggestions = nil
	f.activeIndex = -1
	f.isOpen = false
	f.isLoading = false
	f.errMsg = ""
	f.state = StateResolved

	p.observeRouteLocked()
}

// clearLocked resets the field to its initial state.
func (p *Planner) clearLocked(f *field) {
	p.stopDebounceLocked(f)
	f.search.supersede()

	f.queryText = ""
	f.resolved = nil
	f.suggestions = nil
	f.activeIndex = -1
	f.isOpen = false
	f.isLoading = false
	f.errMsg = ""
	f.displayErr = ""
	f.state = StateIdle

	p.observeRouteLocked()
}

// snapshotLocked renders the field for consumers. An external display error
// takes precedence over internally generated errors for display only.
func (f *field) snapshotLocked() FieldSnapshot {
	errMsg := f.errMsg
	if f.displayErr != "" {
		errMsg = f.displayErr
	}

	suggestions := make([]geo.Suggestion, len(f.suggestions))
	copy(suggestions, f.suggestions)

	var resolved *ResolvedLocation
	if f.resolved != nil {
		clone := *f.resolved
		resolved = &clone
	}

	return FieldSnapshot{
		QueryText:   f.queryText,
		State:       f.state,
		Suggestions: suggestions,
		ActiveIndex: f.activeIndex,
		IsOpen:      f.isOpen,
		IsLoading:   f.isLoading,
		Error:       errMsg,
		Resolved:    resolved,
	}
}

// shortenDisplayName keeps the first three comma segments of a provider
// display name, which are the most specific ones.
func shortenDisplayName(displayName string) string {
	parts := strings.Split(displayName, ",")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

func searchFailureMessage(err error) string {
	var geoErr *geo.Error
	if errors.As(err, &geoErr) && geoErr.Message != "" {
		return geoErr.Message
	}
	return genericSearchFailure
}

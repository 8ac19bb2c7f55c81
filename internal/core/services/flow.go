package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
	"github.com/custodia-labs/ragplay/internal/logger"
)

// Page is one step of a Flow.
type Page struct {
	// Name identifies the page in logs and views.
	Name string

	// CanAdvance reports whether the user may move past this page.
	// A nil predicate always allows advancing.
	CanAdvance func() bool

	// Action runs once each time the user advances past this page. Optional.
	Action func(ctx context.Context) error
}

// FailurePolicy decides what happens to the page index when an action fails.
type FailurePolicy int

const (
	// AdvanceOnFailure moves on even when the action fails.
	AdvanceOnFailure FailurePolicy = iota

	// StayOnFailure keeps the flow on the page whose action failed.
	StayOnFailure
)

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithFailurePolicy sets the failure policy. The default is AdvanceOnFailure.
func WithFailurePolicy(p FailurePolicy) FlowOption {
	return func(f *Flow) {
		f.policy = p
	}
}

// Flow drives an ordered sequence of pages. Moving forward is gated by the
// current page's predicate; leaving a page runs its action first.
type Flow struct {
	pages  []Page
	policy FailurePolicy

	mu    sync.Mutex
	index int
	busy  bool
	epoch uint64
}

// NewFlow creates a flow positioned on the first page.
func NewFlow(pages []Page, opts ...FlowOption) *Flow {
	f := &Flow{pages: pages}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Index returns the current page index.
func (f *Flow) Index() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index
}

// Len returns the number of pages.
func (f *Flow) Len() int {
	return len(f.pages)
}

// Current returns the current page.
func (f *Flow) Current() Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pages) == 0 {
		return Page{}
	}
	return f.pages[f.index]
}

// Busy reports whether a page action is running.
func (f *Flow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// CanAdvance reports whether Advance would be accepted right now.
func (f *Flow) CanAdvance() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canAdvanceLocked()
}

func (f *Flow) canAdvanceLocked() bool {
	if len(f.pages) == 0 || f.busy {
		return false
	}
	page := f.pages[f.index]
	return page.CanAdvance == nil || page.CanAdvance()
}

// Advance runs the current page's action, then moves to the next page.
// On the last page the action runs again but the index stays put.
// It blocks while the action runs.
func (f *Flow) Advance(ctx context.Context) driving.AdvanceOutcome {
	f.mu.Lock()
	from := f.index
	if !f.canAdvanceLocked() {
		f.mu.Unlock()
		return driving.AdvanceOutcome{Status: driving.AdvanceBlocked, From: from, To: from}
	}
	page := f.pages[from]
	epoch := f.epoch
	if page.Action != nil {
		f.busy = true
	}
	f.mu.Unlock()

	var err error
	if page.Action != nil {
		err = page.Action(ctx)
		if err != nil {
			logger.Debug("flow: action of page %q failed: %v", page.Name, err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if f.epoch != epoch {
		return driving.AdvanceOutcome{Status: driving.AdvanceDiscarded, From: from, To: f.index, Err: err}
	}
	if err != nil && f.policy == StayOnFailure {
		return driving.AdvanceOutcome{Status: driving.AdvanceHeld, From: from, To: from, Err: err}
	}
	f.index = min(from+1, len(f.pages)-1)
	return driving.AdvanceOutcome{Status: driving.AdvanceMoved, From: from, To: f.index, Err: err}
}

// Retreat moves to the previous page without running any action.
// Returns false when already on the first page. Like Reset, it drops a
// transition pending on an in-flight action.
func (f *Flow) Retreat() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.index == 0 {
		return false
	}
	f.index--
	f.epoch++
	return true
}

// Reset returns to the first page without running any action.
// A transition pending on an in-flight action is dropped.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index = 0
	f.epoch++
}

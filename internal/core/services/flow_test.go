package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

func TestFlow_BlockedByPredicate(t *testing.T) {
	var ran atomic.Int32
	flow := NewFlow([]Page{
		{
			Name:       "first",
			CanAdvance: func() bool { return false },
			Action: func(context.Context) error {
				ran.Add(1)
				return nil
			},
		},
		{Name: "second"},
	})

	out := flow.Advance(context.Background())

	assert.Equal(t, driving.AdvanceBlocked, out.Status)
	assert.Equal(t, 0, flow.Index())
	assert.Equal(t, int32(0), ran.Load())
}

func TestFlow_AdvanceRunsActionOnce(t *testing.T) {
	var ran atomic.Int32
	var (
		flow          *Flow
		indexInAction int
		busyInAction  bool
	)
	flow = NewFlow([]Page{
		{
			Name:       "first",
			CanAdvance: func() bool { return true },
			Action: func(context.Context) error {
				ran.Add(1)
				indexInAction = flow.Index()
				busyInAction = flow.Busy()
				return nil
			},
		},
		{Name: "second"},
	})

	out := flow.Advance(context.Background())

	assert.Equal(t, driving.AdvanceMoved, out.Status)
	assert.Equal(t, 0, out.From)
	assert.Equal(t, 1, out.To)
	assert.Equal(t, 1, flow.Index())
	assert.Equal(t, int32(1), ran.Load())
	assert.False(t, flow.Busy())
	assert.Equal(t, 0, indexInAction, "the index moves only after the action returns")
	assert.True(t, busyInAction)
}

func TestFlow_LastPageStays(t *testing.T) {
	var ran atomic.Int32
	flow := NewFlow([]Page{
		{Name: "first"},
		{Name: "last", Action: func(context.Context) error {
			ran.Add(1)
			return nil
		}},
	})

	flow.Advance(context.Background())
	out := flow.Advance(context.Background())

	assert.Equal(t, driving.AdvanceMoved, out.Status)
	assert.Equal(t, 1, out.To)
	assert.Equal(t, 1, flow.Index())
	assert.Equal(t, int32(1), ran.Load())
}

func TestFlow_ActionFailure(t *testing.T) {
	errBoom := errors.New("boom")
	pages := func() []Page {
		return []Page{
			{Name: "first", Action: func(context.Context) error { return errBoom }},
			{Name: "second"},
		}
	}

	t.Run("advance on failure", func(t *testing.T) {
		flow := NewFlow(pages())
		out := flow.Advance(context.Background())
		assert.Equal(t, driving.AdvanceMoved, out.Status)
		assert.ErrorIs(t, out.Err, errBoom)
		assert.Equal(t, 1, flow.Index())
		assert.False(t, flow.Busy())
	})

	t.Run("stay on failure", func(t *testing.T) {
		flow := NewFlow(pages(), WithFailurePolicy(StayOnFailure))
		out := flow.Advance(context.Background())
		assert.Equal(t, driving.AdvanceHeld, out.Status)
		assert.ErrorIs(t, out.Err, errBoom)
		assert.Equal(t, 0, flow.Index())
		assert.False(t, flow.Busy())
	})
}

func TestFlow_BusyRefusesAdvance(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	flow := NewFlow([]Page{
		{Name: "first", Action: func(context.Context) error {
			close(started)
			<-release
			return nil
		}},
		{Name: "second"},
	})

	done := make(chan driving.AdvanceOutcome)
	go func() { done <- flow.Advance(context.Background()) }()
	<-started

	assert.True(t, flow.Busy())
	assert.False(t, flow.CanAdvance())
	assert.Equal(t, driving.AdvanceBlocked, flow.Advance(context.Background()).Status)

	close(release)
	out := <-done
	assert.Equal(t, driving.AdvanceMoved, out.Status)
	assert.Equal(t, 1, flow.Index())
}

func TestFlow_ResetDiscardsPendingTransition(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	flow := NewFlow([]Page{
		{Name: "first", Action: func(context.Context) error {
			close(started)
			<-release
			return nil
		}},
		{Name: "second"},
	})

	done := make(chan driving.AdvanceOutcome)
	go func() { done <- flow.Advance(context.Background()) }()
	<-started

	flow.Reset()
	close(release)
	out := <-done

	assert.Equal(t, driving.AdvanceDiscarded, out.Status)
	assert.Equal(t, 0, flow.Index())
	assert.False(t, flow.Busy())
}

func TestFlow_RetreatDiscardsPendingTransition(t *testing.T) {
	var flow *Flow
	flow = NewFlow([]Page{
		{Name: "a"},
		{Name: "b", Action: func(context.Context) error {
			assert.True(t, flow.Retreat())
			return nil
		}},
		{Name: "c"},
	})
	flow.Advance(context.Background())
	require.Equal(t, 1, flow.Index())

	out := flow.Advance(context.Background())

	assert.Equal(t, driving.AdvanceDiscarded, out.Status)
	assert.Equal(t, 0, out.To)
	assert.Equal(t, 0, flow.Index())
	assert.False(t, flow.Busy())
}

func TestFlow_RetreatAndReset(t *testing.T) {
	flow := NewFlow([]Page{{Name: "a"}, {Name: "b"}, {Name: "c"}})

	assert.False(t, flow.Retreat())

	flow.Advance(context.Background())
	flow.Advance(context.Background())
	require.Equal(t, 2, flow.Index())
	assert.Equal(t, "c", flow.Current().Name)

	assert.True(t, flow.Retreat())
	assert.Equal(t, 1, flow.Index())

	flow.Reset()
	assert.Equal(t, 0, flow.Index())
	assert.Equal(t, 3, flow.Len())
}

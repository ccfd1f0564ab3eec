package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	"github.com/aquaerp/aqua-accounting/internal/core/services"
)

func feedingEvent() domain.FeedingRecorded {
	return domain.FeedingRecorded{
		FeedingLogID: "fl-1",
		BatchID:      "b-1",
		QuantityKg:   decimal.RequireFromString("10"),
		UnitPrice:    decimal.RequireFromString("2.00"),
	}
}

func TestDispatcher_RoutesToRegisteredHandler(t *testing.T) {
	dispatcher := services.NewEventDispatcher()

	var received domain.Event
	dispatcher.Register(domain.EventFeedingRecorded, func(ctx context.Context, event domain.Event) error {
		received = event
		return nil
	})

	err := dispatcher.Dispatch(context.Background(), feedingEvent())

	require.NoError(t, err)
	require.NotNil(t, received)
	assert.Equal(t, domain.EventFeedingRecorded, received.EventType())
}

func TestDispatcher_NoHandlerIsNoOp(t *testing.T) {
	dispatcher := services.NewEventDispatcher()

	err := dispatcher.Dispatch(context.Background(), feedingEvent())

	assert.NoError(t, err)
}

func TestDispatcher_HandlerErrorIsReturnedNotPropagated(t *testing.T) {
	dispatcher := services.NewEventDispatcher()
	handlerErr := errors.New("posting failed")

	dispatcher.Register(domain.EventFeedingRecorded, func(ctx context.Context, event domain.Event) error {
		return handlerErr
	})
	mortalityCalled := false
	dispatcher.Register(domain.EventMortalityRecorded, func(ctx context.Context, event domain.Event) error {
		mortalityCalled = true
		return nil
	})

	err := dispatcher.Dispatch(context.Background(), feedingEvent())
	assert.ErrorIs(t, err, handlerErr)

	// An earlier failure must not affect other event types.
	err = dispatcher.Dispatch(context.Background(), domain.MortalityRecorded{MortalityLogID: "ml-1"})
	assert.NoError(t, err)
	assert.True(t, mortalityCalled)
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	dispatcher := services.NewEventDispatcher()

	dispatcher.Register(domain.EventFeedingRecorded, func(ctx context.Context, event domain.Event) error {
		panic("mapper bug")
	})

	var err error
	assert.NotPanics(t, func() {
		err = dispatcher.Dispatch(context.Background(), feedingEvent())
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestDispatcher_ReRegisterReplacesHandler(t *testing.T) {
	dispatcher := services.NewEventDispatcher()

	firstCalled := false
	dispatcher.Register(domain.EventFeedingRecorded, func(ctx context.Context, event domain.Event) error {
		firstCalled = true
		return nil
	})
	secondCalled := false
	dispatcher.Register(domain.EventFeedingRecorded, func(ctx context.Context, event domain.Event) error {
		secondCalled = true
		return nil
	})

	err := dispatcher.Dispatch(context.Background(), feedingEvent())

	require.NoError(t, err)
	assert.False(t, firstCalled)
	assert.True(t, secondCalled)
}

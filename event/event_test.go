// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/blinklabs-io/condo/event"
	"github.com/blinklabs-io/condo/governance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestEventBusSingleSubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, subCh := eb.Subscribe(event.VoteCastEventType)
	eb.Publish(
		event.VoteCastEventType,
		event.NewEvent(event.VoteCastEventType, event.VoteCastEvent{
			Title:     "Repaint",
			Residence: 1101,
			Option:    governance.OptionYes,
		}),
	)
	select {
	case evt, ok := <-subCh:
		require.True(t, ok, "event channel closed unexpectedly")
		data, ok := evt.Data.(event.VoteCastEvent)
		require.True(t, ok, "unexpected event data type %T", evt.Data)
		assert.Equal(t, "Repaint", data.Title)
		assert.Equal(t, governance.ResidenceID(1101), data.Residence)
		assert.NotEmpty(t, evt.ID)
	case <-time.After(1 * time.Second):
		t.Fatalf("timeout waiting for event")
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, sub1Ch := eb.Subscribe(event.TopicAddedEventType)
	_, sub2Ch := eb.Subscribe(event.TopicAddedEventType)
	evt := event.NewEvent(event.TopicAddedEventType, "x")
	eb.Publish(event.TopicAddedEventType, evt)
	for _, ch := range []<-chan event.Event{sub1Ch, sub2Ch} {
		select {
		case got := <-ch:
			assert.Equal(t, evt.ID, got.ID)
		case <-time.After(1 * time.Second):
			t.Fatalf("timeout waiting for event")
		}
	}
}

func TestEventIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		evt := event.NewEvent(event.QuotaPaidEventType, nil)
		_, dup := seen[evt.ID]
		require.False(t, dup)
		seen[evt.ID] = struct{}{}
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	subId, subCh := eb.Subscribe(event.TopicRemovedEventType)
	eb.Unsubscribe(event.TopicRemovedEventType, subId)
	eb.Publish(event.TopicRemovedEventType, event.NewEvent(event.TopicRemovedEventType, 1))
	select {
	case _, ok := <-subCh:
		assert.False(t, ok, "received unexpected event")
	case <-time.After(1 * time.Second):
		t.Fatalf("subscriber channel was not closed after Unsubscribe")
	}
}

func TestEventBusStopAndReuse(t *testing.T) {
	defer goleak.VerifyNone(t)
	eb := event.NewEventBus(nil, nil)
	var received atomic.Int32
	eb.SubscribeFunc(event.VotingOpenedEventType, func(event.Event) {
		received.Add(1)
	})
	eb.Publish(event.VotingOpenedEventType, event.NewEvent(event.VotingOpenedEventType, "before"))
	require.Eventually(t, func() bool {
		return received.Load() == 1
	}, time.Second, 5*time.Millisecond)

	eb.Stop()
	eb.Publish(event.VotingOpenedEventType, event.NewEvent(event.VotingOpenedEventType, "after"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), received.Load())

	// The bus keeps working after Stop
	_, subCh := eb.Subscribe(event.VotingOpenedEventType)
	eb.Publish(event.VotingOpenedEventType, event.NewEvent(event.VotingOpenedEventType, "new"))
	select {
	case _, ok := <-subCh:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("new subscriber did not receive event")
	}
	eb.Stop()
}

func TestSubscribeFuncPanicRecovery(t *testing.T) {
	defer goleak.VerifyNone(t)
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	var received atomic.Int32
	eb.SubscribeFunc(event.FundsTransferredEventType, func(event.Event) {
		if received.Add(1) == 1 {
			panic("intentional test panic")
		}
	})
	eb.Publish(event.FundsTransferredEventType, event.NewEvent(event.FundsTransferredEventType, "panic"))
	eb.Publish(event.FundsTransferredEventType, event.NewEvent(event.FundsTransferredEventType, "after-panic"))
	require.Eventually(t, func() bool {
		return received.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond,
		"handler should continue processing events after a panic",
	)
}

func TestPublishAsync(t *testing.T) {
	defer goleak.VerifyNone(t)
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	_, subCh := eb.Subscribe(event.RouterUpgradedEventType)
	require.True(t, eb.PublishAsync(
		event.RouterUpgradedEventType,
		event.NewEvent(event.RouterUpgradedEventType, event.RouterUpgradedEvent{Version: "v2"}),
	))
	select {
	case evt := <-subCh:
		data, ok := evt.Data.(event.RouterUpgradedEvent)
		require.True(t, ok)
		assert.Equal(t, "v2", data.Version)
	case <-time.After(time.Second):
		t.Fatal("async event was not delivered")
	}
}

func TestEventMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	eb := event.NewEventBus(registry, nil)
	defer eb.Stop()
	eb.Subscribe(event.QuotaChangedEventType)
	eb.Publish(event.QuotaChangedEventType, event.NewEvent(event.QuotaChangedEventType, nil))
	eb.Publish(event.QuotaChangedEventType, event.NewEvent(event.QuotaChangedEventType, nil))
	count, err := testutil.GatherAndCount(registry, "condo_event_published_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, event.GovernanceEventTypes, 14)
}

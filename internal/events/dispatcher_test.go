package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingObserver struct {
	name    string
	accepts string
	fail    bool

	mu     sync.Mutex
	events []Event
}

func (o *recordingObserver) OnEvent(event Event) error {
	o.mu.Lock()
	o.events = append(o.events, event)
	o.mu.Unlock()
	if o.fail {
		return errors.New("boom")
	}
	return nil
}

func (o *recordingObserver) GetName() string { return o.name }

func (o *recordingObserver) ShouldHandle(eventType string) bool {
	return o.accepts == "" || o.accepts == eventType
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}

func TestDispatch_FiltersByShouldHandle(t *testing.T) {
	d := NewEventDispatcher(nil)
	all := &recordingObserver{name: "all"}
	goalsOnly := &recordingObserver{name: "goals", accepts: ChangedType(TableGoals)}
	d.Register(all)
	d.Register(goalsOnly)

	ctx := context.Background()
	d.Dispatch(NewTableChanged(ctx, TableEvents, OpInsert, 1))
	d.Dispatch(NewTableChanged(ctx, TableGoals, OpUpdate, 2))

	assert.Equal(t, 2, all.count())
	assert.Equal(t, 1, goalsOnly.count())
}

func TestDispatch_ContinuesAfterObserverError(t *testing.T) {
	d := NewEventDispatcher(nil)
	failing := &recordingObserver{name: "failing", fail: true}
	healthy := &recordingObserver{name: "healthy"}
	d.Register(failing)
	d.Register(healthy)

	d.Dispatch(NewTableChanged(context.Background(), TablePlayers, OpDelete, 3))

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestUnregister(t *testing.T) {
	d := NewEventDispatcher(nil)
	obs := &recordingObserver{name: "obs"}
	d.Register(obs)
	assert.Equal(t, 1, d.ObserverCount())

	d.Unregister(obs)
	assert.Equal(t, 0, d.ObserverCount())

	d.Dispatch(NewTableChanged(context.Background(), TableEvents, OpInsert, 1))
	assert.Equal(t, 0, obs.count())
}

func TestTableChangedPayload(t *testing.T) {
	event := NewTableChanged(context.Background(), TablePerformanceSheets, OpInsert, 42)

	assert.Equal(t, "performance_sheets:changed", event.Type)

	change, ok := GetTypedData[TableChanged](event)
	assert.True(t, ok)
	assert.Equal(t, TableChanged{Table: TablePerformanceSheets, Operation: OpInsert, ID: 42}, change)

	_, ok = GetTypedData[string](event)
	assert.False(t, ok)

	table, ok := TableOf(event.Type)
	assert.True(t, ok)
	assert.Equal(t, TablePerformanceSheets, table)

	_, ok = TableOf("daemon:status")
	assert.False(t, ok)
}

func TestPublishChange_NilPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		PublishChange(context.Background(), nil, TableEvents, OpInsert, 1)
	})
}

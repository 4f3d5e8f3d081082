package gui

import (
	"context"
	"time"

	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// EventFacade handles the event list, detail and entry screens.
type EventFacade struct {
	services *Services
	location *time.Location
}

// NewEventFacade creates a new EventFacade. Form dates are read in loc;
// nil means UTC.
func NewEventFacade(services *Services, loc *time.Location) *EventFacade {
	if loc == nil {
		loc = time.UTC
	}
	return &EventFacade{services: services, location: loc}
}

// ObserveEvents streams the player's events, most recent first.
func (f *EventFacade) ObserveEvents(ctx context.Context) (*events.Subscription[[]*models.Event], error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	return f.services.Storage.ObserveEventsByPlayer(ctx, playerID), nil
}

// ListEvents returns the player's events, most recent first.
func (f *EventFacade) ListEvents(ctx context.Context) ([]*models.Event, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	return f.services.Storage.GetEventsByPlayer(ctx, playerID)
}

// GetEvent returns one of the player's events.
func (f *EventFacade) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}

	event, err := f.services.Storage.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil || !ownedBy(playerID, event.PlayerID) {
		return nil, notFound("el evento", id)
	}
	return event, nil
}

// Save parses form and inserts it, or replaces event id when id is non-zero.
func (f *EventFacade) Save(ctx context.Context, id int64, form EventForm) FormState {
	event, err := f.parse(form)
	if err != nil {
		return StateFor(0, err)
	}
	return StateFor(f.store(ctx, id, event))
}

// SaveAsync validates form now and writes it in the background on scope.
func (f *EventFacade) SaveAsync(scope *Scope, id int64, form EventForm) FormState {
	event, err := f.parse(form)
	if err != nil {
		return StateFor(0, err)
	}
	scope.Launch("save event", func(ctx context.Context) error {
		_, err := f.store(ctx, id, event)
		return err
	})
	return FormState{}
}

// SaveWithSheet stores a new event and a sheet for it. The writes are not
// atomic: a failed sheet leaves the event in place.
func (f *EventFacade) SaveWithSheet(ctx context.Context, eventForm EventForm, sheetForm SheetForm) FormState {
	event, err := f.parse(eventForm)
	if err != nil {
		return StateFor(0, err)
	}
	if sheetForm.Date == "" {
		sheetForm.Date = event.Timestamp.Format(DateLayout)
	}
	sheet, err := sheetForm.Parse(*event.PlayerID, nil)
	if err != nil {
		return StateFor(0, err)
	}

	eventID, _, err := f.services.Storage.SaveEventWithSheet(ctx, event, sheet)
	return StateFor(eventID, err)
}

// Delete removes one of the player's events. Sheets pointing at it are kept.
func (f *EventFacade) Delete(ctx context.Context, id int64) error {
	event, err := f.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	return f.services.Storage.DeleteEvent(ctx, event)
}

// DeleteAsync deletes in the background on scope.
func (f *EventFacade) DeleteAsync(scope *Scope, id int64) {
	scope.Launch("delete event", func(ctx context.Context) error {
		return f.Delete(ctx, id)
	})
}

func (f *EventFacade) parse(form EventForm) (*models.Event, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	return form.Parse(playerID, f.location)
}

func (f *EventFacade) store(ctx context.Context, id int64, event *models.Event) (int64, error) {
	if id == 0 {
		return f.services.Storage.InsertEvent(ctx, event)
	}
	if _, err := f.GetEvent(ctx, id); err != nil {
		return 0, err
	}
	event.ID = id
	return id, f.services.Storage.UpdateEvent(ctx, event)
}

package handlers

import (
	"net/http"
	"time"

	"github.com/ramonehamilton/hooplog/internal/api/response"
	"github.com/ramonehamilton/hooplog/internal/gui"
	"github.com/ramonehamilton/hooplog/internal/stats"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// EventHandler handles match and training event requests.
type EventHandler struct {
	base
	location *time.Location
}

// NewEventHandler creates a new EventHandler. Form dates are read in loc.
func NewEventHandler(services *gui.Services, loc *time.Location) *EventHandler {
	return &EventHandler{base: base{services: services}, location: loc}
}

func (h *EventHandler) facade(r *http.Request) *gui.EventFacade {
	return gui.NewEventFacade(h.scoped(r), h.location)
}

// EventWithSheetRequest creates an event and its sheet in one call.
type EventWithSheetRequest struct {
	Event gui.EventForm `json:"event"`
	Sheet gui.SheetForm `json:"sheet"`
}

// GetEvents returns the caller's events, most recent first. The optional
// period query (week, month, season, all) filters by timestamp.
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	period, filtered, err := stats.ParsePeriod(r.URL.Query().Get("period"), time.Now().In(h.location))
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	evs, err := h.facade(r).ListEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if filtered {
		kept := evs[:0]
		for _, e := range evs {
			if period.Contains(e.Timestamp) {
				kept = append(kept, e)
			}
		}
		evs = kept
	}
	if evs == nil {
		evs = []*models.Event{}
	}
	response.Success(w, evs)
}

// GetEvent returns one event.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "eventID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	event, err := h.facade(r).GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, event)
}

// CreateEvent stores a new event.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var form gui.EventForm
	if err := decode(r, &form); err != nil {
		response.BadRequest(w, err)
		return
	}

	facade := h.facade(r)
	state := facade.Save(r.Context(), 0, form)
	writeState(w, state, true, func() (interface{}, error) {
		return facade.GetEvent(r.Context(), state.ID)
	})
}

// CreateEventWithSheet stores a new event and a sheet linked to it.
func (h *EventHandler) CreateEventWithSheet(w http.ResponseWriter, r *http.Request) {
	var req EventWithSheetRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	facade := h.facade(r)
	state := facade.SaveWithSheet(r.Context(), req.Event, req.Sheet)
	writeState(w, state, true, func() (interface{}, error) {
		return facade.GetEvent(r.Context(), state.ID)
	})
}

// UpdateEvent replaces an event.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "eventID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var form gui.EventForm
	if err := decode(r, &form); err != nil {
		response.BadRequest(w, err)
		return
	}

	facade := h.facade(r)
	state := facade.Save(r.Context(), id, form)
	writeState(w, state, false, func() (interface{}, error) {
		return facade.GetEvent(r.Context(), id)
	})
}

// DeleteEvent removes an event. Its sheets are kept.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "eventID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.facade(r).Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

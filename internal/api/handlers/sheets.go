package handlers

import (
	"net/http"

	"github.com/ramonehamilton/hooplog/internal/api/response"
	"github.com/ramonehamilton/hooplog/internal/gui"
	"github.com/ramonehamilton/hooplog/internal/stats"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// SheetHandler handles performance sheet requests.
type SheetHandler struct {
	base
}

// NewSheetHandler creates a new SheetHandler.
func NewSheetHandler(services *gui.Services) *SheetHandler {
	return &SheetHandler{base: base{services: services}}
}

func (h *SheetHandler) facade(r *http.Request) *gui.SheetFacade {
	return gui.NewSheetFacade(h.scoped(r))
}

// SheetRequest is a sheet form plus the optional event it belongs to.
type SheetRequest struct {
	gui.SheetForm
	EventID *int64 `json:"event_id,omitempty"`
}

func writeSheets(w http.ResponseWriter, sheets []*models.PerformanceSheet, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	if sheets == nil {
		sheets = []*models.PerformanceSheet{}
	}
	response.Success(w, sheets)
}

// GetSheets returns the caller's sheets, most recent first.
func (h *SheetHandler) GetSheets(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.facade(r).ListSheets(r.Context())
	writeSheets(w, sheets, err)
}

// GetRecentSheets returns the caller's most recent sheets. limit defaults
// to the summary screen window.
func (h *SheetHandler) GetRecentSheets(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", stats.DefaultRecentWindow)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	sheets, err := h.facade(r).RecentSheets(r.Context(), limit)
	writeSheets(w, sheets, err)
}

// GetEventSheets returns the caller's sheets for one event.
func (h *SheetHandler) GetEventSheets(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	sheets, err := h.facade(r).ListEventSheets(r.Context(), eventID)
	writeSheets(w, sheets, err)
}

// GetSheet returns one sheet.
func (h *SheetHandler) GetSheet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sheetID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	sheet, err := h.facade(r).GetSheet(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, sheet)
}

// CreateSheet stores a new sheet.
func (h *SheetHandler) CreateSheet(w http.ResponseWriter, r *http.Request) {
	var req SheetRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	facade := h.facade(r)
	state := facade.Save(r.Context(), 0, req.EventID, req.SheetForm)
	writeState(w, state, true, func() (interface{}, error) {
		return facade.GetSheet(r.Context(), state.ID)
	})
}

// UpdateSheet replaces a sheet.
func (h *SheetHandler) UpdateSheet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sheetID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var req SheetRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	facade := h.facade(r)
	state := facade.Save(r.Context(), id, req.EventID, req.SheetForm)
	writeState(w, state, false, func() (interface{}, error) {
		return facade.GetSheet(r.Context(), id)
	})
}

// DeleteSheet removes a sheet.
func (h *SheetHandler) DeleteSheet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "sheetID")
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

package gui

import (
	"context"

	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/stats"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// SheetFacade handles the performance sheet screens.
type SheetFacade struct {
	services *Services
}

// NewSheetFacade creates a new SheetFacade.
func NewSheetFacade(services *Services) *SheetFacade {
	return &SheetFacade{services: services}
}

// ObserveSheets streams the player's sheets, most recent first.
func (f *SheetFacade) ObserveSheets(ctx context.Context) (*events.Subscription[[]*models.PerformanceSheet], error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	return f.services.Storage.ObserveSheetsByPlayer(ctx, playerID), nil
}

// ObserveEventSheets streams the player's sheets for one event.
func (f *SheetFacade) ObserveEventSheets(ctx context.Context, eventID int64) (*events.Subscription[[]*models.PerformanceSheet], error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	all := f.services.Storage.ObserveSheetsByEvent(ctx, eventID)
	return events.Map(all, func(sheets []*models.PerformanceSheet) []*models.PerformanceSheet {
		return onlyPlayer(sheets, playerID)
	}), nil
}

// ListSheets returns the player's sheets, most recent first.
func (f *SheetFacade) ListSheets(ctx context.Context) ([]*models.PerformanceSheet, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	return f.services.Storage.GetSheetsByPlayer(ctx, playerID)
}

// ListEventSheets returns the player's sheets for one event.
func (f *SheetFacade) ListEventSheets(ctx context.Context, eventID int64) ([]*models.PerformanceSheet, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	sheets, err := f.services.Storage.GetSheetsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return onlyPlayer(sheets, playerID), nil
}

// RecentSheets returns the player's limit most recent sheets.
func (f *SheetFacade) RecentSheets(ctx context.Context, limit int) ([]*models.PerformanceSheet, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = stats.DefaultRecentWindow
	}
	return f.services.Storage.GetRecentSheets(ctx, playerID, limit)
}

func onlyPlayer(sheets []*models.PerformanceSheet, playerID int64) []*models.PerformanceSheet {
	mine := make([]*models.PerformanceSheet, 0, len(sheets))
	for _, s := range sheets {
		if s.PlayerID == playerID {
			mine = append(mine, s)
		}
	}
	return mine
}

// GetSheet returns one of the player's sheets.
func (f *SheetFacade) GetSheet(ctx context.Context, id int64) (*models.PerformanceSheet, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}

	sheet, err := f.services.Storage.GetSheet(ctx, id)
	if err != nil {
		return nil, err
	}
	if sheet == nil || sheet.PlayerID != playerID {
		return nil, notFound("la hoja de estadísticas", id)
	}
	return sheet, nil
}

// Save parses form and inserts it, or replaces sheet id when id is non-zero.
// eventID links the sheet to an event and may be nil.
func (f *SheetFacade) Save(ctx context.Context, id int64, eventID *int64, form SheetForm) FormState {
	sheet, err := f.parse(form, eventID)
	if err != nil {
		return StateFor(0, err)
	}
	return StateFor(f.store(ctx, id, sheet))
}

// SaveAsync validates form now and writes it in the background on scope.
func (f *SheetFacade) SaveAsync(scope *Scope, id int64, eventID *int64, form SheetForm) FormState {
	sheet, err := f.parse(form, eventID)
	if err != nil {
		return StateFor(0, err)
	}
	scope.Launch("save sheet", func(ctx context.Context) error {
		_, err := f.store(ctx, id, sheet)
		return err
	})
	return FormState{}
}

// Delete removes one of the player's sheets.
func (f *SheetFacade) Delete(ctx context.Context, id int64) error {
	sheet, err := f.GetSheet(ctx, id)
	if err != nil {
		return err
	}
	return f.services.Storage.DeleteSheet(ctx, sheet)
}

// DeleteAsync deletes in the background on scope.
func (f *SheetFacade) DeleteAsync(scope *Scope, id int64) {
	scope.Launch("delete sheet", func(ctx context.Context) error {
		return f.Delete(ctx, id)
	})
}

func (f *SheetFacade) parse(form SheetForm, eventID *int64) (*models.PerformanceSheet, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	return form.Parse(playerID, eventID)
}

func (f *SheetFacade) store(ctx context.Context, id int64, sheet *models.PerformanceSheet) (int64, error) {
	if id == 0 {
		return f.services.Storage.InsertSheet(ctx, sheet)
	}
	if _, err := f.GetSheet(ctx, id); err != nil {
		return 0, err
	}
	sheet.ID = id
	return id, f.services.Storage.UpdateSheet(ctx, sheet)
}

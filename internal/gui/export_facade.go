package gui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ramonehamilton/hooplog/internal/export"
)

// ExportFacade writes the signed-in player's journal as CSV or JSON.
type ExportFacade struct {
	services *Services
}

// NewExportFacade creates a new ExportFacade.
func NewExportFacade(services *Services) *ExportFacade {
	return &ExportFacade{services: services}
}

// Export writes one kind of record, in the order the list screens show it.
func (f *ExportFacade) Export(ctx context.Context, w io.Writer, kind export.Kind, format export.Format) error {
	playerID, err := f.services.ready()
	if err != nil {
		return err
	}

	var rows interface{}
	var count int
	switch kind {
	case export.KindEvents:
		evs, err := f.services.Storage.GetEventsByPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		rows, count = export.EventRows(evs), len(evs)
	case export.KindSheets:
		sheets, err := f.services.Storage.GetSheetsByPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		rows, count = export.SheetRows(sheets), len(sheets)
	case export.KindGoals:
		goals, err := f.services.Storage.Goals().GetByPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		rows, count = export.GoalRows(goals), len(goals)
	default:
		return &AppError{
			Message: InvalidInputMessage,
			Err:     &FieldError{Field: "kind", Value: string(kind)},
		}
	}

	if err := export.Write(w, format, rows); err != nil {
		return &AppError{Message: "No se ha podido exportar", Err: errors.Join(ErrInvalidInput, err)}
	}
	f.services.logger().Debug("journal exported",
		zap.Int64("player_id", playerID),
		zap.String("kind", string(kind)),
		zap.String("format", string(format)),
		zap.Int("rows", count))
	return nil
}

// ExportFile writes the export to path. An empty path picks a timestamped
// name in the working directory. Returns the path written.
func (f *ExportFacade) ExportFile(ctx context.Context, path string, overwrite bool, kind export.Kind, format export.Format) (string, error) {
	if path == "" {
		path = export.Filename(kind, format, time.Now())
	}
	err := export.WriteFile(path, overwrite, func(w io.Writer) error {
		return f.Export(ctx, w, kind, format)
	})
	if err != nil {
		return "", fmt.Errorf("export %s: %w", kind, err)
	}
	return path, nil
}

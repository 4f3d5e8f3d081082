package storage

import "github.com/ramonehamilton/hooplog/internal/storage/models"

// Aliases so callers of the storage facade need not import models directly.
type (
	Event            = models.Event
	PerformanceSheet = models.PerformanceSheet
	Player           = models.Player
	Goal             = models.Goal
)

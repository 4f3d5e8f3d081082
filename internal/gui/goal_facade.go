package gui

import (
	"context"
	"time"

	"github.com/ramonehamilton/hooplog/internal/events"
	"github.com/ramonehamilton/hooplog/internal/storage/models"
)

// GoalFacade handles the goal list and goal editor.
type GoalFacade struct {
	services *Services
	now      func() time.Time
}

// NewGoalFacade creates a new GoalFacade.
func NewGoalFacade(services *Services) *GoalFacade {
	return &GoalFacade{services: services, now: time.Now}
}

// ObserveGoals streams the player's goals, newest first.
func (f *GoalFacade) ObserveGoals(ctx context.Context) (*events.Subscription[[]*models.Goal], error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	return f.services.Storage.Goals().ObserveByPlayer(ctx, playerID), nil
}

// GetGoals returns the player's goals, optionally filtered by status.
func (f *GoalFacade) GetGoals(ctx context.Context, status models.GoalStatus) ([]*models.Goal, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	if status == "" {
		return f.services.Storage.Goals().GetByPlayer(ctx, playerID)
	}
	return f.services.Storage.Goals().GetByPlayerAndStatus(ctx, playerID, status)
}

// GetGoal returns one of the player's goals.
func (f *GoalFacade) GetGoal(ctx context.Context, id int64) (*models.Goal, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}

	goal, err := f.services.Storage.Goals().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal == nil || goal.PlayerID != playerID {
		return nil, notFound("el objetivo", id)
	}
	return goal, nil
}

// Create parses form and stores a new goal.
func (f *GoalFacade) Create(ctx context.Context, form GoalForm) FormState {
	goal, err := f.parse(form)
	if err != nil {
		return StateFor(0, err)
	}
	return StateFor(f.services.Storage.Goals().Insert(ctx, goal))
}

// CreateAsync validates form now and stores it in the background on scope.
func (f *GoalFacade) CreateAsync(scope *Scope, form GoalForm) FormState {
	goal, err := f.parse(form)
	if err != nil {
		return StateFor(0, err)
	}
	scope.Launch("create goal", func(ctx context.Context) error {
		_, err := f.services.Storage.Goals().Insert(ctx, goal)
		return err
	})
	return FormState{}
}

// Edit replaces the type, quantity, frequency and notes of a goal and
// regenerates its description. Status and progress are kept.
func (f *GoalFacade) Edit(ctx context.Context, id int64, form GoalForm) FormState {
	existing, err := f.GetGoal(ctx, id)
	if err != nil {
		return StateFor(0, err)
	}
	parsed, err := f.parse(form)
	if err != nil {
		return StateFor(0, err)
	}

	parsed.ID = existing.ID
	parsed.CreatedAt = existing.CreatedAt
	parsed.Status = existing.Status
	parsed.CompletedAt = existing.CompletedAt
	parsed.CurrentProgress = existing.CurrentProgress
	return StateFor(id, f.services.Storage.Goals().Update(ctx, parsed))
}

// SetStatus changes a goal's status. Completing a goal stamps CompletedAt;
// any other status clears it.
func (f *GoalFacade) SetStatus(ctx context.Context, id int64, status models.GoalStatus) error {
	if !status.Valid() {
		return &AppError{Message: InvalidInputMessage, Err: &FieldError{Field: "status", Value: string(status)}}
	}

	goal, err := f.GetGoal(ctx, id)
	if err != nil {
		return err
	}

	goal.Status = status
	goal.CompletedAt = nil
	if status == models.GoalStatusCompleted {
		now := f.now()
		goal.CompletedAt = &now
	}
	return f.services.Storage.Goals().Update(ctx, goal)
}

// SetProgress records the progress value entered by the player.
func (f *GoalFacade) SetProgress(ctx context.Context, id int64, progress float64) error {
	goal, err := f.GetGoal(ctx, id)
	if err != nil {
		return err
	}
	goal.CurrentProgress = progress
	return f.services.Storage.Goals().Update(ctx, goal)
}

// Delete removes one of the player's goals.
func (f *GoalFacade) Delete(ctx context.Context, id int64) error {
	goal, err := f.GetGoal(ctx, id)
	if err != nil {
		return err
	}
	return f.services.Storage.Goals().Delete(ctx, goal)
}

func (f *GoalFacade) parse(form GoalForm) (*models.Goal, error) {
	playerID, err := f.services.ready()
	if err != nil {
		return nil, err
	}
	return form.Parse(playerID, f.now())
}

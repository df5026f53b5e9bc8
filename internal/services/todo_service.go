package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/betterlifeboard/lifeboard-api/internal/models"
	"github.com/betterlifeboard/lifeboard-api/internal/schedule"
)

type todoServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTodoService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TodoService {
	return &todoServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *todoServiceImpl) CreateTodo(ctx context.Context, todo *models.Todo, alarmTokens []string) (*models.Todo, error) {
	if !models.IsValidKind(todo.Kind) {
		return nil, ErrInvalidTodoKind
	}
	if todo.Status == "" {
		todo.Status = models.StatusPlanned
	} else if !models.IsValidStatus(todo.Status) {
		return nil, ErrInvalidTodoStatus
	}

	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	coerceActiveRange(todo, now)

	todoUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate todo uuid")
		return nil, err
	}
	todo.ID = todoUUID.String()

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertTodoQuery = `
INSERT INTO todos (id,
                   user_id,
                   title,
                   kind,
                   status,
                   repeat_days,
                   active_from,
                   active_until,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err = tx.Exec(
		ctx,
		insertTodoQuery,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Kind,
		todo.Status,
		todo.RepeatDays,
		nullableText(todo.ActiveFrom),
		nullableText(todo.ActiveUntil),
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert todo")
		return nil, err
	}
	s.logger.Debug().
		Str("todo_id", todo.ID).
		Str("kind", todo.Kind).
		Msg("inserted todo")

	if todo.Kind == models.KindSchedule {
		err = replaceAlarmsTx(ctx, tx, todo.ID, schedule.ParseTokens(alarmTokens))
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("todo_id", todo.ID).
				Msg("failed to write alarms")
			return nil, err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("todo_id", todo.ID).
		Str("user_id", todo.UserID).
		Msg("created todo")
	return todo, nil
}

func (s *todoServiceImpl) GetTodosForDate(ctx context.Context, userID string, date time.Time) ([]*models.Todo, error) {
	todos, err := s.selectTodos(ctx, userID, selectTodosByUserIDQuery)
	if err != nil {
		return nil, err
	}

	active := todos[:0]
	for _, todo := range todos {
		if schedule.ActiveOn(todo.ActiveFrom, todo.ActiveUntil, todo.RepeatDays, date) {
			active = append(active, todo)
		}
	}

	s.logger.Info().
		Int("count", len(active)).
		Str("user_id", userID).
		Str("date", date.Format(schedule.DateOnlyFormat)).
		Msg("fetched todos for date")
	return active, nil
}

func (s *todoServiceImpl) GetRecurringTodos(ctx context.Context, userID string) ([]*models.Todo, error) {
	todos, err := s.selectTodos(ctx, userID, selectRecurringTodosQuery)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("count", len(todos)).
		Str("user_id", userID).
		Msg("fetched recurring todos")
	return todos, nil
}

func (s *todoServiceImpl) GetScheduleTodosForMonth(ctx context.Context, userID string, monthStart time.Time) ([]*models.Todo, error) {
	// Any day of the month selects the whole month.
	first := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, monthStart.Location())
	windowStart := first.Format(schedule.DateOnlyFormat)
	windowEnd := first.AddDate(0, 1, -1).Format(schedule.DateOnlyFormat)

	todos, err := s.selectTodos(ctx, userID, selectScheduleTodosQuery)
	if err != nil {
		return nil, err
	}

	overlapping := todos[:0]
	for _, todo := range todos {
		if schedule.OverlapsDates(todo.ActiveFrom, todo.ActiveUntil, windowStart, windowEnd) {
			overlapping = append(overlapping, todo)
		}
	}

	s.logger.Info().
		Int("count", len(overlapping)).
		Str("user_id", userID).
		Str("month", windowStart).
		Msg("fetched schedule todos for month")
	return overlapping, nil
}

func (s *todoServiceImpl) UpdateTodo(ctx context.Context, params UpdateTodoParams) (*models.Todo, error) {
	if !models.IsValidKind(params.Kind) {
		return nil, ErrInvalidTodoKind
	}
	if !models.IsValidStatus(params.Status) {
		return nil, ErrInvalidTodoStatus
	}

	todo := &models.Todo{
		ID:     params.ID,
		UserID: params.UserID,
	}

	const selectTodoQuery = `
SELECT title,
       kind,
       status,
       repeat_days,
       active_from,
       active_until,
       created_at
FROM todos
WHERE id = $1 AND user_id = $2
`
	var activeFrom, activeUntil *string
	err := s.pgPool.QueryRow(
		ctx,
		selectTodoQuery,
		todo.ID,
		todo.UserID,
	).Scan(
		&todo.Title,
		&todo.Kind,
		&todo.Status,
		&todo.RepeatDays,
		&activeFrom,
		&activeUntil,
		&todo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("todo_id", todo.ID).
				Str("user_id", todo.UserID).
				Msg("todo not found")
			return nil, ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", todo.ID).
			Msg("failed to select todo")
		return nil, err
	}

	previousKind := todo.Kind

	todo.Title = params.Title
	todo.Kind = params.Kind
	todo.Status = params.Status
	todo.ActiveFrom = params.ActiveFrom
	todo.ActiveUntil = params.ActiveUntil
	todo.UpdatedAt = time.Now()
	if params.RepeatDays != nil {
		todo.RepeatDays = *params.RepeatDays & schedule.AllWeekdays
	}
	coerceActiveRange(todo, todo.UpdatedAt)

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const updateTodoQuery = `
UPDATE todos
SET title = $1,
    kind = $2,
    status = $3,
    repeat_days = $4,
    active_from = $5,
    active_until = $6,
    updated_at = $7
WHERE id = $8 AND user_id = $9
`
	_, err = tx.Exec(
		ctx,
		updateTodoQuery,
		todo.Title,
		todo.Kind,
		todo.Status,
		todo.RepeatDays,
		nullableText(todo.ActiveFrom),
		nullableText(todo.ActiveUntil),
		todo.UpdatedAt,
		todo.ID,
		todo.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("todo_id", todo.ID).
			Msg("failed to update todo")
		return nil, err
	}

	switch {
	case todo.Kind == models.KindSchedule && params.AlarmTokens != nil:
		// Schedule saves replace the alarm set wholesale.
		err = replaceAlarmsTx(ctx, tx, todo.ID, schedule.ParseTokens(params.AlarmTokens))
	case todo.Kind != models.KindSchedule && previousKind == models.KindSchedule:
		// Leaving the schedule kind drops the alarm set.
		err = deleteAlarmsTx(ctx, tx, todo.ID)
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("todo_id", todo.ID).
			Msg("failed to reconcile alarms")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("todo_id", todo.ID).
		Str("user_id", todo.UserID).
		Msg("updated todo")
	return todo, nil
}

func (s *todoServiceImpl) UpdateRepeatTodo(ctx context.Context, params UpdateRepeatTodoParams) (*models.Todo, error) {
	if !models.IsValidKind(params.Kind) || params.Kind == models.KindSchedule {
		// Schedules never carry a repeat mask.
		return nil, ErrInvalidTodoKind
	}

	todo := &models.Todo{
		ID:         params.ID,
		UserID:     params.UserID,
		Title:      params.Title,
		Kind:       params.Kind,
		RepeatDays: params.RepeatDays & schedule.AllWeekdays,
		UpdatedAt:  time.Now(),
	}

	const updateRepeatTodoQuery = `
UPDATE todos
SET title = $1,
    kind = $2,
    repeat_days = $3,
    updated_at = $4
WHERE id = $5 AND user_id = $6
RETURNING status, active_from, active_until, created_at
`
	var activeFrom, activeUntil *string
	err := s.pgPool.QueryRow(
		ctx,
		updateRepeatTodoQuery,
		todo.Title,
		todo.Kind,
		todo.RepeatDays,
		todo.UpdatedAt,
		todo.ID,
		todo.UserID,
	).Scan(
		&todo.Status,
		&activeFrom,
		&activeUntil,
		&todo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("todo_id", todo.ID).
				Str("user_id", todo.UserID).
				Msg("todo not found")
			return nil, ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", todo.ID).
			Msg("failed to update repeat todo")
		return nil, err
	}
	todo.ActiveFrom = textOrEmpty(activeFrom)
	todo.ActiveUntil = textOrEmpty(activeUntil)

	s.logger.Info().
		Str("todo_id", todo.ID).
		Str("user_id", todo.UserID).
		Int("repeat_days", todo.RepeatDays).
		Msg("updated repeat todo")
	return todo, nil
}

func (s *todoServiceImpl) DeleteTodo(ctx context.Context, userID, todoID string) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = deleteAlarmsTx(ctx, tx, todoID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("todo_id", todoID).
			Msg("failed to delete alarms")
		return err
	}

	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = $1 AND user_id = $2
`
	tag, err := tx.Exec(
		ctx,
		deleteTodoQuery,
		todoID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("todo_id", todoID).
			Msg("failed to delete todo")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("todo_id", todoID).
			Str("user_id", userID).
			Msg("todo not found")
		return ErrTodoNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Str("todo_id", todoID).
		Str("user_id", userID).
		Msg("deleted todo")
	return nil
}

const selectTodosByUserIDQuery = `
SELECT id,
       title,
       kind,
       status,
       repeat_days,
       active_from,
       active_until,
       created_at,
       updated_at
FROM todos
WHERE user_id = $1
ORDER BY created_at DESC
`

const selectScheduleTodosQuery = `
SELECT id,
       title,
       kind,
       status,
       repeat_days,
       active_from,
       active_until,
       created_at,
       updated_at
FROM todos
WHERE user_id = $1 AND kind = 'SCHEDULE'
ORDER BY active_from
`

const selectRecurringTodosQuery = `
SELECT id,
       title,
       kind,
       status,
       repeat_days,
       active_from,
       active_until,
       created_at,
       updated_at
FROM todos
WHERE user_id = $1 AND repeat_days <> 0
ORDER BY created_at DESC
`

func (s *todoServiceImpl) selectTodos(ctx context.Context, userID, query string) ([]*models.Todo, error) {
	rows, err := s.pgPool.Query(
		ctx,
		query,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select todos")
		return nil, err
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		todo := &models.Todo{UserID: userID}
		var activeFrom, activeUntil *string
		err = rows.Scan(
			&todo.ID,
			&todo.Title,
			&todo.Kind,
			&todo.Status,
			&todo.RepeatDays,
			&activeFrom,
			&activeUntil,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan todo")
			return nil, err
		}
		todo.ActiveFrom = textOrEmpty(activeFrom)
		todo.ActiveUntil = textOrEmpty(activeUntil)
		todos = append(todos, todo)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return todos, nil
}

// coerceActiveRange forces the active range into the storage shape for the
// todo's kind: schedules carry date-times with the 09:00/10:00 defaults and
// never a repeat mask, other kinds carry bare dates. Date-only values expand
// to day bounds here, at the storage boundary.
func coerceActiveRange(todo *models.Todo, now time.Time) {
	today := now.Format(schedule.DateOnlyFormat)

	if todo.Kind == models.KindSchedule {
		todo.RepeatDays = 0
		if todo.ActiveFrom != "" {
			todo.ActiveFrom = schedule.EnsureDateTime(todo.ActiveFrom, today, schedule.DefaultStartTime)
		}
		if todo.ActiveUntil != "" {
			todo.ActiveUntil = schedule.EnsureDateTime(todo.ActiveUntil, today, schedule.DefaultEndTime)
		}
	} else {
		if todo.ActiveFrom != "" {
			todo.ActiveFrom = schedule.EnsureDateOnly(todo.ActiveFrom, today)
		}
		if todo.ActiveUntil != "" {
			todo.ActiveUntil = schedule.EnsureDateOnly(todo.ActiveUntil, today)
		}
	}

	todo.ActiveFrom, todo.ActiveUntil = schedule.ClampRange(todo.ActiveFrom, todo.ActiveUntil)
	todo.ActiveFrom, todo.ActiveUntil = schedule.NormalizeRange(todo.ActiveFrom, todo.ActiveUntil)
}

func nullableText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func textOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

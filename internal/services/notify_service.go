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

type notifyServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewNotifyService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) NotifyService {
	return &notifyServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *notifyServiceImpl) GetAlarms(ctx context.Context, userID, todoID string) ([]string, error) {
	const selectAlarmsQuery = `
SELECT a.id, a.anchor, a.offset_label, a.sent_at, a.added_at
FROM alarms a
JOIN todos t ON t.id = a.todo_id
WHERE a.todo_id = $1 AND t.user_id = $2
`
	rows, err := s.pgPool.Query(
		ctx,
		selectAlarmsQuery,
		todoID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("todo_id", todoID).
			Msg("failed to select alarms")
		return nil, err
	}
	defer rows.Close()

	var set schedule.AlarmSet
	for rows.Next() {
		alarm := models.Alarm{TodoID: todoID}
		err = rows.Scan(&alarm.ID, &alarm.Anchor, &alarm.Offset, &alarm.SentAt, &alarm.AddedAt)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan alarm")
			return nil, err
		}
		if alarm.Anchor == anchorDeadline {
			set.End = append(set.End, alarm.Offset)
		} else {
			set.Start = append(set.Start, alarm.Offset)
		}
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	tokens := set.Tokens()
	s.logger.Debug().
		Str("todo_id", todoID).
		Int("count", len(tokens)).
		Msg("selected alarms")
	return tokens, nil
}

func (s *notifyServiceImpl) ReplaceAlarms(ctx context.Context, todoID string, set schedule.AlarmSet) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = replaceAlarmsTx(ctx, tx, todoID, set)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("todo_id", todoID).
			Msg("failed to replace alarms")
		return err
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
		Msg("replaced alarms")
	return nil
}

func (s *notifyServiceImpl) GetFeed(ctx context.Context, userID string) ([]*models.Notify, error) {
	const selectFeedQuery = `
SELECT id,
       todo_id,
       event_type,
       title,
       body,
       remain_time,
       send_at,
       link
FROM notifies
WHERE user_id = $1
ORDER BY send_at DESC
`
	rows, err := s.pgPool.Query(
		ctx,
		selectFeedQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select feed")
		return nil, err
	}
	defer rows.Close()

	var entries []*models.Notify
	for rows.Next() {
		entry := &models.Notify{UserID: userID}
		err = rows.Scan(
			&entry.ID,
			&entry.TodoID,
			&entry.EventType,
			&entry.Title,
			&entry.Body,
			&entry.RemainTime,
			&entry.SendAt,
			&entry.Link,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan feed entry")
			return nil, err
		}
		entries = append(entries, entry)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Info().
		Int("count", len(entries)).
		Str("user_id", userID).
		Msg("fetched feed")
	return entries, nil
}

func (s *notifyServiceImpl) RegisterPushToken(ctx context.Context, token *models.PushToken) error {
	token.UpdatedAt = time.Now()

	const upsertPushTokenQuery = `
INSERT INTO push_tokens (user_id,
                         device_type,
                         browser_type,
                         endpoint,
                         p256dh,
                         auth,
                         enabled,
                         updated_at)
VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
ON CONFLICT (user_id, device_type, browser_type)
DO UPDATE SET endpoint = EXCLUDED.endpoint,
              p256dh = EXCLUDED.p256dh,
              auth = EXCLUDED.auth,
              enabled = TRUE,
              updated_at = EXCLUDED.updated_at
`
	_, err := s.pgPool.Exec(
		ctx,
		upsertPushTokenQuery,
		token.UserID,
		token.DeviceType,
		token.BrowserType,
		token.Endpoint,
		token.P256dh,
		token.Auth,
		token.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", token.UserID).
			Msg("failed to upsert push token")
		return err
	}

	s.logger.Info().
		Str("user_id", token.UserID).
		Str("device_type", token.DeviceType).
		Msg("registered push token")
	return nil
}

func (s *notifyServiceImpl) GetPushToken(ctx context.Context, userID, deviceType, browserType string) (*models.PushToken, error) {
	token := &models.PushToken{
		UserID:      userID,
		DeviceType:  deviceType,
		BrowserType: browserType,
	}

	const selectPushTokenQuery = `
SELECT endpoint,
       p256dh,
       auth,
       enabled,
       updated_at
FROM push_tokens
WHERE user_id = $1 AND device_type = $2 AND browser_type = $3
`
	err := s.pgPool.QueryRow(
		ctx,
		selectPushTokenQuery,
		userID,
		deviceType,
		browserType,
	).Scan(
		&token.Endpoint,
		&token.P256dh,
		&token.Auth,
		&token.Enabled,
		&token.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("user_id", userID).
				Msg("push token not found")
			return nil, ErrPushTokenNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select push token")
		return nil, err
	}

	return token, nil
}

const (
	anchorReminder = "reminder"
	anchorDeadline = "deadline"
)

// replaceAlarmsTx swaps a todo's stored alarm set for the given one inside
// the caller's transaction: delete everything, insert the new rows.
func replaceAlarmsTx(ctx context.Context, tx pgx.Tx, todoID string, set schedule.AlarmSet) error {
	err := deleteAlarmsTx(ctx, tx, todoID)
	if err != nil {
		return err
	}

	const insertAlarmQuery = `
INSERT INTO alarms (id, todo_id, anchor, offset_label, added_at)
VALUES ($1, $2, $3, $4, $5)
`
	now := time.Now()
	insert := func(anchor string, offsets []string) error {
		for _, offset := range offsets {
			alarmUUID, err := uuid.NewV7()
			if err != nil {
				return err
			}
			_, err = tx.Exec(
				ctx,
				insertAlarmQuery,
				alarmUUID.String(),
				todoID,
				anchor,
				offset,
				now,
			)
			if err != nil {
				return err
			}
		}
		return nil
	}

	err = insert(anchorReminder, set.Start)
	if err != nil {
		return err
	}
	return insert(anchorDeadline, set.End)
}

func deleteAlarmsTx(ctx context.Context, tx pgx.Tx, todoID string) error {
	const deleteAlarmsQuery = `
DELETE FROM alarms
WHERE todo_id = $1
`
	_, err := tx.Exec(
		ctx,
		deleteAlarmsQuery,
		todoID,
	)
	return err
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/betterlifeboard/lifeboard-api/internal/models"
	"github.com/betterlifeboard/lifeboard-api/internal/schedule"
)

// PushService delivers due schedule alarms as web-push messages.
type PushService interface {
	// SendDue scans for alarms whose fire time has arrived and pushes them
	// to every enabled registration of the todo's owner. A Redis guard keyed
	// by alarm ID keeps restarts and multiple instances from re-sending.
	SendDue(ctx context.Context, now time.Time) error
}

type PushOptions struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	DedupTTL        time.Duration
	TTLSeconds      int
}

type pushServiceImpl struct {
	logger  zerolog.Logger
	pgPool  *pgxpool.Pool
	redis   *redis.Client
	options PushOptions
}

func NewPushService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	redisClient *redis.Client,
	options PushOptions,
) PushService {
	return &pushServiceImpl{
		logger:  logger,
		pgPool:  pgPool,
		redis:   redisClient,
		options: options,
	}
}

type pushMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Link  string `json:"link"`
}

type dueAlarm struct {
	AlarmID     string
	TodoID      string
	UserID      string
	Title       string
	Anchor      string
	Offset      string
	AnchorStamp string
	FireAt      time.Time
}

func (s *pushServiceImpl) SendDue(ctx context.Context, now time.Time) error {
	due, err := s.collectDue(ctx, now)
	if err != nil {
		return err
	}

	for _, alarm := range due {
		claimed, err := s.claim(ctx, alarm.AlarmID)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("alarm_id", alarm.AlarmID).
				Msg("failed to claim alarm")
			continue
		}
		if !claimed {
			continue
		}

		err = s.deliver(ctx, alarm)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("alarm_id", alarm.AlarmID).
				Msg("failed to deliver alarm")
		}
	}
	return nil
}

func (s *pushServiceImpl) collectDue(ctx context.Context, now time.Time) ([]dueAlarm, error) {
	const selectScheduleAlarmsQuery = `
SELECT a.id,
       a.todo_id,
       a.anchor,
       a.offset_label,
       t.user_id,
       t.title,
       t.active_from,
       t.active_until
FROM alarms a
JOIN todos t ON t.id = a.todo_id
WHERE t.kind = 'SCHEDULE' AND a.sent_at IS NULL
`
	rows, err := s.pgPool.Query(ctx, selectScheduleAlarmsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select schedule alarms")
		return nil, err
	}
	defer rows.Close()

	var due []dueAlarm
	for rows.Next() {
		var alarm dueAlarm
		var activeFrom, activeUntil *string
		err = rows.Scan(
			&alarm.AlarmID,
			&alarm.TodoID,
			&alarm.Anchor,
			&alarm.Offset,
			&alarm.UserID,
			&alarm.Title,
			&activeFrom,
			&activeUntil,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan alarm")
			return nil, err
		}

		if alarm.Anchor == anchorDeadline {
			alarm.AnchorStamp = textOrEmpty(activeUntil)
		} else {
			alarm.AnchorStamp = textOrEmpty(activeFrom)
		}

		offsetSeconds, ok := schedule.OffsetSeconds(alarm.Offset)
		if !ok {
			continue
		}
		anchorTime, ok := schedule.ParseStamp(alarm.AnchorStamp)
		if !ok {
			continue
		}

		alarm.FireAt = anchorTime.Add(-time.Duration(offsetSeconds) * time.Second)
		if alarm.FireAt.After(now) {
			continue
		}
		// Alarms whose window passed long ago stay silent; the dedup TTL
		// bounds how stale a delivery may be.
		if now.Sub(alarm.FireAt) > s.options.DedupTTL {
			continue
		}
		due = append(due, alarm)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return due, nil
}

func claimKey(alarmID string) string {
	return "push:sent:" + alarmID
}

func (s *pushServiceImpl) claim(ctx context.Context, alarmID string) (bool, error) {
	return s.redis.SetNX(ctx, claimKey(alarmID), 1, s.options.DedupTTL).Result()
}

func (s *pushServiceImpl) release(ctx context.Context, alarmID string) {
	err := s.redis.Del(ctx, claimKey(alarmID)).Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("alarm_id", alarmID).
			Msg("failed to release alarm claim")
	}
}

func (s *pushServiceImpl) deliver(ctx context.Context, alarm dueAlarm) error {
	eventType := models.EventReminder
	if alarm.Anchor == anchorDeadline {
		eventType = models.EventDeadline
	}

	offsetSeconds, _ := schedule.OffsetSeconds(alarm.Offset)
	remainTime := fmt.Sprintf("%ds", offsetSeconds)

	message, err := json.Marshal(pushMessage{
		Title: alarm.Title,
		Body:  fmt.Sprintf("%s in %s", eventType, alarm.Offset),
		Link:  "/calendar",
	})
	if err != nil {
		return err
	}

	tokens, err := s.enabledTokens(ctx, alarm.UserID)
	if err != nil {
		return err
	}

	delivered := 0
	for _, token := range tokens {
		err = s.pushToSubscription(ctx, token, message)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("user_id", alarm.UserID).
				Str("device_type", token.DeviceType).
				Msg("failed to push to subscription")
			continue
		}
		delivered++
	}

	if !shouldRecordDelivery(len(tokens), delivered) {
		// Every push failed, so the alarm stays unsent and its claim is
		// released for the next scan to retry.
		s.release(ctx, alarm.AlarmID)
		return fmt.Errorf("all %d subscription pushes failed", len(tokens))
	}

	return s.recordDelivery(ctx, alarm, eventType, remainTime)
}

// shouldRecordDelivery decides whether an alarm counts as sent. A user with
// no enabled subscriptions still gets the feed entry; a user whose every
// push failed does not, so the alarm can retry.
func shouldRecordDelivery(subscriptions, delivered int) bool {
	return subscriptions == 0 || delivered > 0
}

func (s *pushServiceImpl) enabledTokens(ctx context.Context, userID string) ([]*models.PushToken, error) {
	const selectEnabledTokensQuery = `
SELECT device_type,
       browser_type,
       endpoint,
       p256dh,
       auth
FROM push_tokens
WHERE user_id = $1 AND enabled
`
	rows, err := s.pgPool.Query(
		ctx,
		selectEnabledTokensQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select push tokens")
		return nil, err
	}
	defer rows.Close()

	var tokens []*models.PushToken
	for rows.Next() {
		token := &models.PushToken{UserID: userID}
		err = rows.Scan(
			&token.DeviceType,
			&token.BrowserType,
			&token.Endpoint,
			&token.P256dh,
			&token.Auth,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan push token")
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (s *pushServiceImpl) pushToSubscription(ctx context.Context, token *models.PushToken, message []byte) error {
	sub := webpush.Subscription{
		Endpoint: token.Endpoint,
		Keys: webpush.Keys{
			Auth:   token.Auth,
			P256dh: token.P256dh,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, message, &sub, &webpush.Options{
		Subscriber:      s.options.Subscriber,
		VAPIDPublicKey:  s.options.VAPIDPublicKey,
		VAPIDPrivateKey: s.options.VAPIDPrivateKey,
		TTL:             s.options.TTLSeconds,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Gone or unknown subscriptions are disabled so the next
	// registration refresh can replace them.
	if resp.StatusCode == 404 || resp.StatusCode == 410 {
		const disableTokenQuery = `
UPDATE push_tokens
SET enabled = FALSE
WHERE user_id = $1 AND endpoint = $2
`
		_, err = s.pgPool.Exec(
			ctx,
			disableTokenQuery,
			token.UserID,
			token.Endpoint,
		)
		if err != nil {
			return err
		}
		s.logger.Info().
			Str("user_id", token.UserID).
			Msg("disabled stale push token")
	}
	return nil
}

// recordDelivery marks the alarm sent and appends a feed entry carrying the
// offset as a duration string, which the feed reconciler maps back to the
// canonical label.
func (s *pushServiceImpl) recordDelivery(ctx context.Context, alarm dueAlarm, eventType, remainTime string) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const markAlarmSentQuery = `
UPDATE alarms
SET sent_at = $1
WHERE id = $2
`
	now := time.Now()
	_, err = tx.Exec(
		ctx,
		markAlarmSentQuery,
		now,
		alarm.AlarmID,
	)
	if err != nil {
		return err
	}

	notifyUUID, err := uuid.NewV7()
	if err != nil {
		return err
	}

	const insertNotifyQuery = `
INSERT INTO notifies (id, user_id, todo_id, event_type, title, body, remain_time, send_at, link)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err = tx.Exec(
		ctx,
		insertNotifyQuery,
		notifyUUID.String(),
		alarm.UserID,
		alarm.TodoID,
		eventType,
		alarm.Title,
		fmt.Sprintf("%s in %s", eventType, alarm.Offset),
		remainTime,
		now,
		"/calendar",
	)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("alarm_id", alarm.AlarmID).
		Str("todo_id", alarm.TodoID).
		Str("event_type", eventType).
		Msg("delivered alarm")
	return nil
}

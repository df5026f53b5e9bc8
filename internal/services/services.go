package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/betterlifeboard/lifeboard-api/internal/models"
	"github.com/betterlifeboard/lifeboard-api/internal/schedule"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrTodoNotFound         = errors.New("todo not found")
	ErrInvalidTodoKind      = errors.New("invalid todo kind")
	ErrInvalidTodoStatus    = errors.New("invalid todo status")
	ErrPushTokenNotFound    = errors.New("push token not found")
)

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given name, email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// GetUser returns the user's profile or ErrUserNotFound.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type TodoService interface {
	// CreateTodo stores a todo after coercing its active range into the
	// canonical shape for its kind. Schedule todos additionally get their
	// alarm set written from the request tokens.
	CreateTodo(ctx context.Context, todo *models.Todo, alarmTokens []string) (*models.Todo, error)

	// GetTodosForDate returns the user's todos active on the given day,
	// including recurring todos whose repeat mask covers its weekday.
	GetTodosForDate(ctx context.Context, userID string, date time.Time) ([]*models.Todo, error)

	// GetRecurringTodos returns the user's todos with a non-zero repeat mask.
	GetRecurringTodos(ctx context.Context, userID string) ([]*models.Todo, error)

	// GetScheduleTodosForMonth returns the user's schedule todos whose active
	// range overlaps the calendar month containing monthStart.
	GetScheduleTodosForMonth(ctx context.Context, userID string, monthStart time.Time) ([]*models.Todo, error)

	// UpdateTodo applies a full update. Switching kind to or from SCHEDULE
	// re-derives the range shape; leaving SCHEDULE clears the alarm set, and
	// schedule saves replace the alarm set wholesale.
	UpdateTodo(ctx context.Context, params UpdateTodoParams) (*models.Todo, error)

	// UpdateRepeatTodo updates only title, kind and repeat mask.
	UpdateRepeatTodo(ctx context.Context, params UpdateRepeatTodoParams) (*models.Todo, error)

	DeleteTodo(ctx context.Context, userID, todoID string) error
}

type NotifyService interface {
	// GetAlarms returns the stored alarm tokens of a schedule todo,
	// start-anchored tokens first.
	GetAlarms(ctx context.Context, userID, todoID string) ([]string, error)

	// ReplaceAlarms swaps the todo's alarm set for the one encoded in the
	// given set. The swap is a wholesale delete and insert in one
	// transaction; there is no incremental diff.
	ReplaceAlarms(ctx context.Context, todoID string, set schedule.AlarmSet) error

	// GetFeed returns the user's pending feed entries.
	GetFeed(ctx context.Context, userID string) ([]*models.Notify, error)

	RegisterPushToken(ctx context.Context, token *models.PushToken) error

	// GetPushToken returns ErrPushTokenNotFound when the user has no
	// registration for the device/browser pair.
	GetPushToken(ctx context.Context, userID, deviceType, browserType string) (*models.PushToken, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	UserName              string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type UpdateTodoParams struct {
	ID          string
	UserID      string
	Title       string
	Kind        string
	Status      string
	ActiveFrom  string
	ActiveUntil string
	RepeatDays  *int
	// AlarmTokens is nil when the request did not carry an alarm list;
	// schedule saves then keep the stored set.
	AlarmTokens []string
}

type UpdateRepeatTodoParams struct {
	ID         string
	UserID     string
	Title      string
	Kind       string
	RepeatDays int
}

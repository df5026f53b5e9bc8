package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/betterlifeboard/lifeboard-api/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleMe(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetTodosForDate(c *gin.Context)
	HandleGetRecurringTodos(c *gin.Context)
	HandleGetScheduleTodosForMonth(c *gin.Context)
	HandleCreateGeneralTodo(c *gin.Context)
	HandleCreateScheduleTodo(c *gin.Context)
	HandleUpdateTodo(c *gin.Context)
	HandleUpdateScheduleTodo(c *gin.Context)
	HandleUpdateRepeatTodo(c *gin.Context)
	HandleDeleteTodo(c *gin.Context)

	HandleGetAlarms(c *gin.Context)
	HandleGetNotifyFeed(c *gin.Context)
	HandleRegisterPushToken(c *gin.Context)
	HandleGetPushToken(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	todos    services.TodoService
	notify   services.NotifyService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	todoService services.TodoService,
	notifyService services.NotifyService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		sessions: sessionService,
		todos:    todoService,
		notify:   notifyService,
	}
}

package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/betterlifeboard/lifeboard-api/internal/config"
	v1 "github.com/betterlifeboard/lifeboard-api/internal/delivery/http/v1"
	"github.com/betterlifeboard/lifeboard-api/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	stopPushDispatcher()

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()

	authService := services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.SigningKey),
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)
	sessionService := services.NewSessionService(globalLogger, globalPostgresPool)
	todoService := services.NewTodoService(globalLogger, globalPostgresPool)
	notifyService := services.NewNotifyService(globalLogger, globalPostgresPool)

	v1Handler := v1.New(
		globalLogger,
		authService,
		sessionService,
		todoService,
		notifyService,
	)
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", v1Handler.HandleLogin)
	authRouter.POST("/refresh", v1Handler.HandleRefresh)
	authRouter.POST("/register", v1Handler.HandleRegister)
	authRouter.POST("/logout", v1Handler.HandleAuthMiddleware, v1Handler.HandleLogout)
	authRouter.GET("/me", v1Handler.HandleAuthMiddleware, v1Handler.HandleMe)

	todoRouter := router.Group("/todo", v1Handler.HandleAuthMiddleware)
	todoRouter.GET("/recur", v1Handler.HandleGetRecurringTodos)
	todoRouter.GET("/schedule/:date", v1Handler.HandleGetScheduleTodosForMonth)
	todoRouter.GET("/:date", v1Handler.HandleGetTodosForDate)
	todoRouter.POST("/create/general", v1Handler.HandleCreateGeneralTodo)
	todoRouter.POST("/create/schedule", v1Handler.HandleCreateScheduleTodo)
	todoRouter.PATCH("/patch/repeat/:id", v1Handler.HandleUpdateRepeatTodo)
	todoRouter.PATCH("/patch/schedule/:id", v1Handler.HandleUpdateScheduleTodo)
	todoRouter.PATCH("/patch/:id", v1Handler.HandleUpdateTodo)
	todoRouter.DELETE("/:id", v1Handler.HandleDeleteTodo)

	notifyRouter := router.Group("/notify", v1Handler.HandleAuthMiddleware)
	notifyRouter.GET("/feed", v1Handler.HandleGetNotifyFeed)
	notifyRouter.GET("/token", v1Handler.HandleGetPushToken)
	notifyRouter.POST("/token", v1Handler.HandleRegisterPushToken)
	notifyRouter.GET("/:todoID", v1Handler.HandleGetAlarms)
}

package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betterlifeboard/lifeboard-api/internal/models"
	"github.com/betterlifeboard/lifeboard-api/internal/schedule"
	"github.com/betterlifeboard/lifeboard-api/internal/services"
)

type getTodoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	RepeatDays  int       `json:"repeatDays,omitempty"`
	RepeatLabel string    `json:"repeatLabel,omitempty"`
	ActiveFrom  string    `json:"activeFrom,omitempty"`
	ActiveUntil string    `json:"activeUntil,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newGetTodoResponse(todo *models.Todo) getTodoResponse {
	return getTodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Type:        todo.Kind,
		Status:      todo.Status,
		RepeatDays:  todo.RepeatDays,
		RepeatLabel: schedule.FormatRepeatDays(todo.RepeatDays),
		ActiveFrom:  todo.ActiveFrom,
		ActiveUntil: todo.ActiveUntil,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

type createGeneralTodoRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Type        string `json:"type" binding:"required"`
	Status      string `json:"status"`
	ActiveFrom  string `json:"activeFrom"`
	ActiveUntil string `json:"activeUntil"`
	RepeatDays  int    `json:"repeatDays"`
}

func (h *handlerImpl) HandleCreateGeneralTodo(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createGeneralTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if req.Type == models.KindSchedule {
		h.logger.Error().Msg("schedule todo sent to general endpoint")
		abort(c, newBadRequestError(services.ErrInvalidTodoKind.Error()))
		return
	}

	todo := &models.Todo{
		UserID:      userID,
		Title:       req.Title,
		Kind:        req.Type,
		Status:      req.Status,
		RepeatDays:  req.RepeatDays & schedule.AllWeekdays,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
	}

	created, err := h.todos.CreateTodo(c, todo, nil)
	if err != nil {
		h.abortOnTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGetTodoResponse(created))
}

type createScheduleTodoRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Status      string   `json:"status"`
	ActiveFrom  string   `json:"activeFrom"`
	ActiveUntil string   `json:"activeUntil"`
	Alarms      []string `json:"alarms"`
}

func (h *handlerImpl) HandleCreateScheduleTodo(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createScheduleTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	todo := &models.Todo{
		UserID:      userID,
		Title:       req.Title,
		Kind:        models.KindSchedule,
		Status:      req.Status,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
	}

	created, err := h.todos.CreateTodo(c, todo, req.Alarms)
	if err != nil {
		h.abortOnTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGetTodoResponse(created))
}

func (h *handlerImpl) HandleGetTodosForDate(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	date, err := time.Parse(schedule.DateOnlyFormat, c.Param("date"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("date", c.Param("date")).
			Msg("invalid date")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	todos, err := h.todos.GetTodosForDate(c, userID, date)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get todos for date")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, newGetTodosResponse(todos))
}

func (h *handlerImpl) HandleGetRecurringTodos(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	todos, err := h.todos.GetRecurringTodos(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get recurring todos")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, newGetTodosResponse(todos))
}

func (h *handlerImpl) HandleGetScheduleTodosForMonth(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	monthStart, err := time.Parse(schedule.DateOnlyFormat, c.Param("date"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("date", c.Param("date")).
			Msg("invalid month start date")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	todos, err := h.todos.GetScheduleTodosForMonth(c, userID, monthStart)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get schedule todos for month")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, newGetTodosResponse(todos))
}

type updateTodoRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Type        string   `json:"type" binding:"required"`
	Status      string   `json:"status" binding:"required"`
	ActiveFrom  string   `json:"activeFrom"`
	ActiveUntil string   `json:"activeUntil"`
	RepeatDays  *int     `json:"repeatDays,omitempty"`
	Alarms      []string `json:"alarms,omitempty"`
}

func (h *handlerImpl) HandleUpdateTodo(c *gin.Context) {
	h.updateTodo(c, false)
}

func (h *handlerImpl) HandleUpdateScheduleTodo(c *gin.Context) {
	h.updateTodo(c, true)
}

func (h *handlerImpl) updateTodo(c *gin.Context, isSchedule bool) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	todoID := c.Param("id")
	if todoID == "" {
		h.logger.Error().Msg("no todo id provided")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	var req updateTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	kind := req.Type
	if isSchedule {
		kind = models.KindSchedule
	}

	params := services.UpdateTodoParams{
		ID:          todoID,
		UserID:      userID,
		Title:       req.Title,
		Kind:        kind,
		Status:      req.Status,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
		RepeatDays:  req.RepeatDays,
		AlarmTokens: req.Alarms,
	}

	updated, err := h.todos.UpdateTodo(c, params)
	if err != nil {
		h.abortOnTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTodoResponse(updated))
}

type updateRepeatTodoRequest struct {
	Title      string `json:"title" binding:"required,max=255"`
	Type       string `json:"type" binding:"required"`
	RepeatDays int    `json:"repeatDays" binding:"required"`
}

func (h *handlerImpl) HandleUpdateRepeatTodo(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	todoID := c.Param("id")
	if todoID == "" {
		h.logger.Error().Msg("no todo id provided")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	var req updateRepeatTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	updated, err := h.todos.UpdateRepeatTodo(c, services.UpdateRepeatTodoParams{
		ID:         todoID,
		UserID:     userID,
		Title:      req.Title,
		Kind:       req.Type,
		RepeatDays: req.RepeatDays,
	})
	if err != nil {
		h.abortOnTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTodoResponse(updated))
}

func (h *handlerImpl) HandleDeleteTodo(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	todoID := c.Param("id")
	if todoID == "" {
		h.logger.Error().Msg("no todo id provided")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	err := h.todos.DeleteTodo(c, userID, todoID)
	if err != nil {
		h.abortOnTodoError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func newGetTodosResponse(todos []*models.Todo) []getTodoResponse {
	response := make([]getTodoResponse, len(todos))
	for i, todo := range todos {
		response[i] = newGetTodoResponse(todo)
	}
	return response
}

func (h *handlerImpl) abortOnTodoError(c *gin.Context, err error) {
	h.logger.Error().
		Err(err).
		Msg("todo operation failed")
	switch {
	case errors.Is(err, services.ErrTodoNotFound):
		abort(c, newAPIError(http.StatusNotFound, services.ErrTodoNotFound.Error()))
	case errors.Is(err, services.ErrInvalidTodoKind):
		abort(c, newBadRequestError(services.ErrInvalidTodoKind.Error()))
	case errors.Is(err, services.ErrInvalidTodoStatus):
		abort(c, newBadRequestError(services.ErrInvalidTodoStatus.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

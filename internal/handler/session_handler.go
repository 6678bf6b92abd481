package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/domain/repository"
	"github.com/yourusername/exam-api/internal/handler/dto"
	"github.com/yourusername/exam-api/internal/middleware"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
	"github.com/yourusername/exam-api/internal/service"
)

// SessionHandler обрабатывает жизненный цикл попытки сдачи экзамена:
// start → record answer → finish, плюс выборки результатов
type SessionHandler struct {
	sessionService *service.SessionService
	resultService  *service.ResultService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessionService *service.SessionService, resultService *service.ResultService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		resultService:  resultService,
	}
}

// StartSession начинает попытку текущего пользователя для экзамена.
// Повторная попытка той же пары (user, exam) отклоняется с 409.
func (h *SessionHandler) StartSession(c *gin.Context) {
	examID := c.MustGet("examID").(uint) // Получаем из контекста
	userID := middleware.CurrentUserID(c)

	session, err := h.sessionService.StartSession(userID, examID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSessionResponse(session))
}

// RecordAnswerRequest представляет запрос на запись ответа
type RecordAnswerRequest struct {
	QuestionID     uint   `json:"question_id" binding:"required"`
	SelectedAnswer string `json:"selected_answer" binding:"required"`
	TimeSpentSec   *int   `json:"time_spent_sec" binding:"omitempty,min=0"`
}

// RecordAnswer записывает ответ на вопрос в рамках сессии.
// Повторный ответ на тот же вопрос отклоняется с 409.
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	resultID := c.MustGet("resultID").(uint) // Получаем из контекста
	userID := middleware.CurrentUserID(c)

	var req RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.sessionService.RecordAnswer(userID, resultID, req.QuestionID, req.SelectedAnswer, req.TimeSpentSec)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAnswerResponse(answer))
}

// FinishSession завершает сессию и возвращает зафиксированный итог
func (h *SessionHandler) FinishSession(c *gin.Context) {
	resultID := c.MustGet("resultID").(uint) // Получаем из контекста
	userID := middleware.CurrentUserID(c)

	result, err := h.sessionService.FinishSession(userID, resultID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewFinalResultResponse(result))
}

// GetSessionDetail возвращает сессию с записанными ответами (админ).
// В отличие от студенческих маршрутов владелец сессии не проверяется.
func (h *SessionHandler) GetSessionDetail(c *gin.Context) {
	resultID := c.MustGet("resultID").(uint) // Получаем из контекста

	session, err := h.resultService.GetSessionDetail(resultID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewFinalResultResponse(session))
}

// GetMyResults возвращает историю завершенных сессий текущего пользователя
func (h *SessionHandler) GetMyResults(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	page, pageSize := paginationParams(c)

	results, total, err := h.resultService.GetUserResults(userID, page, pageSize)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResultResponse(results, total, page, pageSize))
}

// GetUserResults возвращает историю завершенных сессий любого пользователя (админ)
func (h *SessionHandler) GetUserResults(c *gin.Context) {
	targetUserID := c.MustGet("userID").(uint) // Получаем из контекста
	page, pageSize := paginationParams(c)

	results, total, err := h.resultService.GetUserResults(targetUserID, page, pageSize)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResultResponse(results, total, page, pageSize))
}

// handleSessionError обрабатывает ошибки сервисов сессий и отправляет соответствующий HTTP ответ.
// Доменные ошибки машины состояний имеют приоритет над общими категориями.
func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrAlreadyAttempted),
		errors.Is(err, repository.ErrQuestionAlreadyAnswered),
		errors.Is(err, repository.ErrSessionCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrExamNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: Internal server error in SessionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/domain/repository"
	"github.com/yourusername/exam-api/internal/handler/dto"
	"github.com/yourusername/exam-api/internal/middleware"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
	"github.com/yourusername/exam-api/internal/service"
)

// ExamHandler обрабатывает запросы, связанные с экзаменами
type ExamHandler struct {
	examService   *service.ExamService
	resultService *service.ResultService
}

// NewExamHandler создает новый обработчик экзаменов
func NewExamHandler(examService *service.ExamService, resultService *service.ResultService) *ExamHandler {
	return &ExamHandler{
		examService:   examService,
		resultService: resultService,
	}
}

// GenerateExamRequest представляет запрос на генерацию экзамена
type GenerateExamRequest struct {
	Title          string `json:"title" binding:"omitempty,max=100"`
	Description    string `json:"description" binding:"omitempty,max=500"`
	TotalQuestions int    `json:"total_questions" binding:"required,min=1"`
}

// GenerateExam обрабатывает запрос администратора на генерацию экзамена
// из случайных вопросов активного пула
func (h *ExamHandler) GenerateExam(c *gin.Context) {
	var req GenerateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam, err := h.examService.GenerateExam(req.Title, req.Description, req.TotalQuestions)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	// Админ видит вопросы вместе с правильными ответами
	c.JSON(http.StatusCreated, dto.NewExamResponse(exam, true, true))
}

// GetExam возвращает экзамен с вопросами для администратора
func (h *ExamHandler) GetExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint) // Получаем из контекста

	exam, err := h.examService.GetExamWithQuestions(examID)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewExamResponse(exam, true, true))
}

// GetAvailableExam возвращает студенту ACTIVE экзамен, который он еще не
// пытался сдать. Правильные ответы из ответа исключены.
func (h *ExamHandler) GetAvailableExam(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	exam, err := h.examService.GetAvailableExam(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No available exams"})
			return
		}
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewExamResponse(exam, true, false))
}

// ListExams возвращает пагинированный список экзаменов
func (h *ExamHandler) ListExams(c *gin.Context) {
	page, pageSize := paginationParams(c)

	exams, total, err := h.examService.ListExams(page, pageSize)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedExamResponse(exams, total, page, pageSize))
}

// CloseExam переводит экзамен в статус CLOSED
func (h *ExamHandler) CloseExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint) // Получаем из контекста

	if err := h.examService.CloseExam(examID); err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exam closed successfully"})
}

// GetPoolStats возвращает статистику пула вопросов
// GET /api/exams/pool/stats
func (h *ExamHandler) GetPoolStats(c *gin.Context) {
	activeCount, err := h.examService.GetPoolStats()
	if err != nil {
		log.Printf("[ExamHandler] Error getting pool stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get pool stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"active_questions": activeCount})
}

// GetExamResults возвращает пагинированные результаты всех сессий экзамена
func (h *ExamHandler) GetExamResults(c *gin.Context) {
	examID := c.MustGet("examID").(uint) // Получаем из контекста
	page, pageSize := paginationParams(c)

	results, total, err := h.resultService.GetExamResults(examID, page, pageSize)
	if err != nil {
		h.handleExamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResultResponse(results, total, page, pageSize))
}

// paginationParams извлекает параметры пагинации из query
func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return page, pageSize
}

// handleExamError обрабатывает ошибки от сервисов экзаменов и отправляет соответствующий HTTP ответ
func (h *ExamHandler) handleExamError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrInsufficientPool) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ExamHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

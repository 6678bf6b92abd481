package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// SessionCompletedEvent описывает завершение сессии для живой админ-ленты
type SessionCompletedEvent struct {
	SessionID      uint      `json:"session_id"`
	UserID         uint      `json:"user_id"`
	ExamID         uint      `json:"exam_id"`
	ExamTitle      string    `json:"exam_title"`
	TotalScore     int       `json:"total_score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	CompletedAt    time.Time `json:"completed_at"`
}

// EventPublisher публикует события жизненного цикла сессий подписчикам
// (WebSocket-лента администратора). Реализация не должна блокировать.
type EventPublisher interface {
	PublishSessionCompleted(event SessionCompletedEvent)
}

// NoopEventPublisher используется, когда живая лента отключена
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishSessionCompleted(event SessionCompletedEvent) {}

// SessionService реализует машину состояний попытки сдачи экзамена:
// start → recordAnswer* → finish. Все инварианты уникальности проверяет
// слой хранения (уникальные индексы, блокировки строк); сервис выполняет
// быстрые проверки предусловий и оркестрацию.
type SessionService struct {
	resultRepo   repository.ResultRepository
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
	examService  *ExamService
	emailService EmailService
	events       EventPublisher
}

// NewSessionService создает новый сервис сессий
func NewSessionService(
	resultRepo repository.ResultRepository,
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	examService *ExamService,
	emailService EmailService,
	events EventPublisher,
) *SessionService {
	if events == nil {
		events = NoopEventPublisher{}
	}
	return &SessionService{
		resultRepo:   resultRepo,
		examRepo:     examRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
		examService:  examService,
		emailService: emailService,
		events:       events,
	}
}

// StartSession создает попытку пользователя для экзамена.
// TotalQuestions копируется из экзамена на момент старта и далее никогда
// не перечитывается: историческая оценка не зависит от будущих правок.
// Конкурентные start для одной пары (user, exam) разрешает уникальный
// индекс: ровно один успех, второй получает ErrAlreadyAttempted.
func (s *SessionService) StartSession(userID, examID uint) (*entity.ExamResult, error) {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return nil, err
	}

	if !exam.IsActive() {
		return nil, fmt.Errorf("%w: exam #%d has status %s", repository.ErrExamNotActive, examID, exam.Status)
	}

	session := &entity.ExamResult{
		UserID:         userID,
		ExamID:         examID,
		TotalQuestions: exam.TotalQuestions,
		Status:         entity.SessionStatusInProgress,
		StartedAt:      time.Now(),
	}

	if err := s.resultRepo.CreateSession(session); err != nil {
		return nil, err
	}

	log.Printf("[SessionService] Сессия #%d начата: user=%d exam=%d questions=%d",
		session.ID, userID, examID, session.TotalQuestions)
	return session, nil
}

// RecordAnswer записывает ответ на вопрос ровно один раз.
// Корректность вычисляется здесь, в момент записи, сравнением с правильным
// ответом вопроса — и фиксируется в строке ответа навсегда. Правильный
// вариант вызывающему не возвращается.
func (s *SessionService) RecordAnswer(userID, resultID, questionID uint, selectedAnswer string, timeSpentSec *int) (*entity.ExamAnswer, error) {
	if selectedAnswer == "" {
		return nil, fmt.Errorf("%w: selected answer is required", apperrors.ErrValidation)
	}

	session, err := s.resultRepo.GetOwnedSession(resultID, userID)
	if err != nil {
		return nil, err
	}

	// Быстрая проверка; состояние под блокировкой повторно проверит SaveAnswer
	if session.IsCompleted() {
		return nil, fmt.Errorf("%w: session #%d", repository.ErrSessionCompleted, session.ID)
	}

	definition, err := s.examService.GetDefinition(session.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam definition for session #%d: %w", session.ID, err)
	}

	if !definition.Contains(questionID) {
		return nil, fmt.Errorf("%w: question #%d does not belong to exam #%d",
			apperrors.ErrValidation, questionID, session.ExamID)
	}

	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}

	if !question.IsValidAlternative(selectedAnswer) {
		return nil, fmt.Errorf("%w: %q is not an alternative of question #%d",
			apperrors.ErrValidation, selectedAnswer, questionID)
	}

	answer := &entity.ExamAnswer{
		ExamResultID:   session.ID,
		QuestionID:     questionID,
		SelectedAnswer: selectedAnswer,
		IsCorrect:      question.IsCorrect(selectedAnswer),
		TimeSpentSec:   timeSpentSec,
	}

	if err := s.resultRepo.SaveAnswer(answer); err != nil {
		return nil, err
	}

	log.Printf("[SessionService] Ответ #%d записан: session=%d question=%d correct=%v",
		answer.ID, session.ID, questionID, answer.IsCorrect)
	return answer, nil
}

// FinishSession завершает сессию: подсчет итога и переход в COMPLETED
// выполняются одним атомарным обновлением в репозитории. Неотвеченные
// вопросы считаются неправильными. Переход необратим; повторный вызов
// возвращает ErrSessionCompleted, сохраненная оценка не меняется.
func (s *SessionService) FinishSession(userID, resultID uint) (*entity.ExamResult, error) {
	completed, err := s.resultRepo.FinishSession(resultID, userID)
	if err != nil {
		return nil, err
	}

	exam, err := s.examRepo.GetByID(completed.ExamID)
	if err != nil {
		// Итог уже зафиксирован; заголовок экзамена нужен только для ответа и уведомлений
		log.Printf("[SessionService] Не удалось получить экзамен #%d для завершенной сессии #%d: %v",
			completed.ExamID, completed.ID, err)
	} else {
		completed.Exam = exam
	}

	log.Printf("[SessionService] Сессия #%d завершена: score=%d/%d (%.1f%%)",
		completed.ID, completed.TotalScore, completed.TotalQuestions, completed.Percentage)

	s.publishCompletion(completed)
	go s.notifyStudent(completed)

	return completed, nil
}

// publishCompletion отправляет событие завершения в живую админ-ленту
func (s *SessionService) publishCompletion(result *entity.ExamResult) {
	examTitle := ""
	if result.Exam != nil {
		examTitle = result.Exam.Title
	}
	var completedAt time.Time
	if result.CompletedAt != nil {
		completedAt = *result.CompletedAt
	}
	s.events.PublishSessionCompleted(SessionCompletedEvent{
		SessionID:      result.ID,
		UserID:         result.UserID,
		ExamID:         result.ExamID,
		ExamTitle:      examTitle,
		TotalScore:     result.TotalScore,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		CompletedAt:    completedAt,
	})
}

// notifyStudent отправляет студенту письмо с итогом. Ошибки отправки
// только логируются и не влияют на уже зафиксированное завершение.
func (s *SessionService) notifyStudent(result *entity.ExamResult) {
	user, err := s.userRepo.GetByID(result.UserID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[SessionService] Не удалось получить пользователя #%d для уведомления: %v", result.UserID, err)
		}
		return
	}

	examTitle := defaultExamTitle
	if result.Exam != nil {
		examTitle = result.Exam.Title
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	idempotencyKey := fmt.Sprintf("session-result-%d", result.ID)
	err = s.emailService.SendResultSummary(ctx, user.Email, examTitle,
		result.TotalScore, result.TotalQuestions, result.Percentage, idempotencyKey)
	if err != nil {
		log.Printf("[SessionService] Не удалось отправить итог сессии #%d на %s: %v", result.ID, user.Email, err)
	}
}

package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// ============================================================================
// Моки для SessionService
// ============================================================================

// MockResultRepoForSessionService реализует repository.ResultRepository
type MockResultRepoForSessionService struct {
	mock.Mock
}

func (m *MockResultRepoForSessionService) CreateSession(result *entity.ExamResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockResultRepoForSessionService) GetSessionByID(id uint) (*entity.ExamResult, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExamResult), args.Error(1)
}

func (m *MockResultRepoForSessionService) GetOwnedSession(id uint, userID uint) (*entity.ExamResult, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExamResult), args.Error(1)
}

func (m *MockResultRepoForSessionService) SaveAnswer(answer *entity.ExamAnswer) error {
	args := m.Called(answer)
	return args.Error(0)
}

func (m *MockResultRepoForSessionService) GetSessionAnswers(resultID uint) ([]entity.ExamAnswer, error) {
	args := m.Called(resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ExamAnswer), args.Error(1)
}

func (m *MockResultRepoForSessionService) FinishSession(resultID uint, userID uint) (*entity.ExamResult, error) {
	args := m.Called(resultID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExamResult), args.Error(1)
}

func (m *MockResultRepoForSessionService) GetUserResults(userID uint, limit, offset int) ([]entity.ExamResult, int64, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.ExamResult), args.Get(1).(int64), args.Error(2)
}

func (m *MockResultRepoForSessionService) GetExamResults(examID uint, limit, offset int) ([]entity.ExamResult, int64, error) {
	args := m.Called(examID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.ExamResult), args.Get(1).(int64), args.Error(2)
}

// MockUserRepoForSessionService реализует repository.UserRepository
type MockUserRepoForSessionService struct {
	mock.Mock
}

func (m *MockUserRepoForSessionService) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// capturePublisher собирает опубликованные события для проверок
type capturePublisher struct {
	mu     sync.Mutex
	events []SessionCompletedEvent
}

func (p *capturePublisher) PublishSessionCompleted(event SessionCompletedEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) captured() []SessionCompletedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SessionCompletedEvent(nil), p.events...)
}

// sessionTestEnv собирает SessionService со всеми моками
type sessionTestEnv struct {
	resultRepo   *MockResultRepoForSessionService
	examRepo     *MockExamRepoForExamService
	questionRepo *MockQuestionRepoForExamService
	cacheRepo    *MockCacheRepoForExamService
	userRepo     *MockUserRepoForSessionService
	publisher    *capturePublisher
	service      *SessionService
}

func newSessionTestEnv() *sessionTestEnv {
	env := &sessionTestEnv{
		resultRepo:   new(MockResultRepoForSessionService),
		examRepo:     new(MockExamRepoForExamService),
		questionRepo: new(MockQuestionRepoForExamService),
		cacheRepo:    new(MockCacheRepoForExamService),
		userRepo:     new(MockUserRepoForSessionService),
		publisher:    &capturePublisher{},
	}
	examService := NewExamService(env.examRepo, env.questionRepo, env.cacheRepo)
	env.service = NewSessionService(
		env.resultRepo, env.examRepo, env.questionRepo, env.userRepo,
		examService, &NoopEmailService{}, env.publisher,
	)
	return env
}

// cacheDefinition настраивает кеш-мок на выдачу определения экзамена
func (env *sessionTestEnv) cacheDefinition(examID uint, questionIDs []uint) {
	key := fmt.Sprintf("exam:definition:%d", examID)
	env.cacheRepo.On("GetJSON", key, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*ExamDefinition)
			*dest = ExamDefinition{
				ExamID:         examID,
				TotalQuestions: len(questionIDs),
				QuestionIDs:    questionIDs,
			}
		}).
		Return(nil)
}

// ============================================================================
// Тесты для StartSession
// ============================================================================

func TestSessionService_StartSession_Success(t *testing.T) {
	// Arrange
	env := newSessionTestEnv()

	env.examRepo.On("GetByID", uint(10)).
		Return(&entity.Exam{ID: 10, TotalQuestions: 5, Status: entity.ExamStatusActive}, nil)
	env.resultRepo.On("CreateSession", mock.AnythingOfType("*entity.ExamResult")).
		Run(func(args mock.Arguments) {
			session := args.Get(0).(*entity.ExamResult)
			session.ID = 100
		}).
		Return(nil)

	// Act
	session, err := env.service.StartSession(42, 10)

	// Assert
	require.NoError(t, err, "Старт сессии должен быть успешным")
	assert.Equal(t, uint(100), session.ID)
	assert.Equal(t, uint(42), session.UserID)
	assert.Equal(t, uint(10), session.ExamID)
	assert.Equal(t, entity.SessionStatusInProgress, session.Status)
	assert.Equal(t, 5, session.TotalQuestions, "TotalQuestions копируется из экзамена на момент старта")
	assert.False(t, session.StartedAt.IsZero())
	env.resultRepo.AssertExpectations(t)
}

func TestSessionService_StartSession_ExamNotFound(t *testing.T) {
	env := newSessionTestEnv()

	env.examRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	// Act
	session, err := env.service.StartSession(42, 99)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, session)
	env.resultRepo.AssertNotCalled(t, "CreateSession", mock.Anything)
}

func TestSessionService_StartSession_ExamNotActive(t *testing.T) {
	env := newSessionTestEnv()

	env.examRepo.On("GetByID", uint(10)).
		Return(&entity.Exam{ID: 10, Status: entity.ExamStatusClosed}, nil)

	// Act
	session, err := env.service.StartSession(42, 10)

	// Assert
	assert.ErrorIs(t, err, repository.ErrExamNotActive)
	assert.Nil(t, session)
	env.resultRepo.AssertNotCalled(t, "CreateSession", mock.Anything)
}

func TestSessionService_StartSession_AlreadyAttempted(t *testing.T) {
	// Arrange: уникальный индекс уже отклонил вторую попытку на уровне базы
	env := newSessionTestEnv()

	env.examRepo.On("GetByID", uint(10)).
		Return(&entity.Exam{ID: 10, TotalQuestions: 5, Status: entity.ExamStatusActive}, nil)
	env.resultRepo.On("CreateSession", mock.Anything).
		Return(fmt.Errorf("%w: user #42, exam #10", repository.ErrAlreadyAttempted))

	// Act
	session, err := env.service.StartSession(42, 10)

	// Assert
	assert.ErrorIs(t, err, repository.ErrAlreadyAttempted)
	assert.Nil(t, session)
}

// ============================================================================
// Тесты для RecordAnswer
// ============================================================================

func inProgressSession(id, userID, examID uint, total int) *entity.ExamResult {
	return &entity.ExamResult{
		ID:             id,
		UserID:         userID,
		ExamID:         examID,
		TotalQuestions: total,
		Status:         entity.SessionStatusInProgress,
		StartedAt:      time.Now(),
	}
}

func TestSessionService_RecordAnswer_Success(t *testing.T) {
	// Arrange
	env := newSessionTestEnv()

	env.resultRepo.On("GetOwnedSession", uint(100), uint(42)).
		Return(inProgressSession(100, 42, 10, 2), nil)
	env.cacheDefinition(10, []uint{7, 8})
	env.questionRepo.On("GetByID", uint(7)).
		Return(&entity.Question{
			ID:            7,
			Alternatives:  entity.StringArray{"A", "B", "C"},
			CorrectAnswer: "B",
		}, nil)
	env.resultRepo.On("SaveAnswer", mock.AnythingOfType("*entity.ExamAnswer")).
		Run(func(args mock.Arguments) {
			answer := args.Get(0).(*entity.ExamAnswer)
			answer.ID = 555
		}).
		Return(nil)

	// Act
	answer, err := env.service.RecordAnswer(42, 100, 7, "B", nil)

	// Assert
	require.NoError(t, err, "Запись ответа должна быть успешной")
	assert.Equal(t, uint(555), answer.ID)
	assert.Equal(t, uint(100), answer.ExamResultID)
	assert.Equal(t, uint(7), answer.QuestionID)
	assert.True(t, answer.IsCorrect, "Корректность вычисляется в момент записи")
	env.resultRepo.AssertExpectations(t)
}

func TestSessionService_RecordAnswer_IncorrectAnswerStored(t *testing.T) {
	// Arrange: неправильный вариант записывается с IsCorrect=false, без ошибки
	env := newSessionTestEnv()

	env.resultRepo.On("GetOwnedSession", uint(100), uint(42)).
		Return(inProgressSession(100, 42, 10, 2), nil)
	env.cacheDefinition(10, []uint{7})
	env.questionRepo.On("GetByID", uint(7)).
		Return(&entity.Question{
			ID:            7,
			Alternatives:  entity.StringArray{"A", "B", "C"},
			CorrectAnswer: "B",
		}, nil)
	env.resultRepo.On("SaveAnswer", mock.Anything).Return(nil)

	// Act
	answer, err := env.service.RecordAnswer(42, 100, 7, "A", nil)

	// Assert
	require.NoError(t, err)
	assert.False(t, answer.IsCorrect)
}

func TestSessionService_RecordAnswer_EmptyAnswer(t *testing.T) {
	env := newSessionTestEnv()

	// Act
	_, err := env.service.RecordAnswer(42, 100, 7, "", nil)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	env.resultRepo.AssertNotCalled(t, "GetOwnedSession", mock.Anything, mock.Anything)
}

func TestSessionService_RecordAnswer_SessionNotFound(t *testing.T) {
	env := newSessionTestEnv()

	env.resultRepo.On("GetOwnedSession", uint(100), uint(42)).
		Return(nil, apperrors.ErrNotFound)

	// Act
	_, err := env.service.RecordAnswer(42, 100, 7, "A", nil)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionService_RecordAnswer_SessionCompleted(t *testing.T) {
	// Arrange: сессия уже завершена
	env := newSessionTestEnv()

	completed := inProgressSession(100, 42, 10, 2)
	completed.Status = entity.SessionStatusCompleted
	env.resultRepo.On("GetOwnedSession", uint(100), uint(42)).Return(completed, nil)

	// Act
	_, err := env.service.RecordAnswer(42, 100, 7, "A", nil)

	// Assert
	assert.ErrorIs(t, err, repository.ErrSessionCompleted)
	env.resultRepo.AssertNotCalled(t, "SaveAnswer", mock.Anything)
}

func TestSessionService_RecordAnswer_QuestionNotInExam(t *testing.T) {
	// Arrange: вопрос существует, но не входит в экзамен сессии
	env := newSessionTestEnv()

	env.resultRepo.On("GetOwnedSession", uint(100), uint(42)).
		Return(inProgressSession(100, 42, 10, 2), nil)
	env.cacheDefinition(10, []uint{7, 8})

	// Act
	_, err := env.service.RecordAnswer(42, 100, 99, "A", nil)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	env.questionRepo.AssertNotCalled(t, "GetByID", mock.Anything)
	env.resultRepo.AssertNotCalled(t, "SaveAnswer", mock.Anything)
}

func TestSessionService_RecordAnswer_InvalidAlternative(t *testing.T) {
	env := newSessionTestEnv()

	env.resultRepo.On("GetOwnedSession", uint(100), uint(42)).
		Return(inProgressSession(100, 42, 10, 2), nil)
	env.cacheDefinition(10, []uint{7})
	env.questionRepo.On("GetByID", uint(7)).
		Return(&entity.Question{
			ID:            7,
			Alternatives:  entity.StringArray{"A", "B", "C"},
			CorrectAnswer: "B",
		}, nil)

	// Act
	_, err := env.service.RecordAnswer(42, 100, 7, "Z", nil)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	env.resultRepo.AssertNotCalled(t, "SaveAnswer", mock.Anything)
}

func TestSessionService_RecordAnswer_Duplicate(t *testing.T) {
	// Arrange: уникальный индекс (session, question) отклонил повторный ответ
	env := newSessionTestEnv()

	env.resultRepo.On("GetOwnedSession", uint(100), uint(42)).
		Return(inProgressSession(100, 42, 10, 2), nil)
	env.cacheDefinition(10, []uint{7})
	env.questionRepo.On("GetByID", uint(7)).
		Return(&entity.Question{
			ID:            7,
			Alternatives:  entity.StringArray{"A", "B"},
			CorrectAnswer: "A",
		}, nil)
	env.resultRepo.On("SaveAnswer", mock.Anything).
		Return(fmt.Errorf("%w: question #7", repository.ErrQuestionAlreadyAnswered))

	// Act
	_, err := env.service.RecordAnswer(42, 100, 7, "A", nil)

	// Assert
	assert.ErrorIs(t, err, repository.ErrQuestionAlreadyAnswered)
}

// ============================================================================
// Тесты для FinishSession
// ============================================================================

func TestSessionService_FinishSession_Success(t *testing.T) {
	// Arrange
	env := newSessionTestEnv()

	completedAt := time.Now()
	completed := &entity.ExamResult{
		ID:             100,
		UserID:         42,
		ExamID:         10,
		TotalQuestions: 5,
		TotalScore:     3,
		Percentage:     60.0,
		Status:         entity.SessionStatusCompleted,
		StartedAt:      completedAt.Add(-10 * time.Minute),
		CompletedAt:    &completedAt,
	}
	env.resultRepo.On("FinishSession", uint(100), uint(42)).Return(completed, nil)
	env.examRepo.On("GetByID", uint(10)).
		Return(&entity.Exam{ID: 10, Title: "Final Exam"}, nil)
	// Фоновое уведомление может не успеть выполниться до конца теста
	env.userRepo.On("GetByID", uint(42)).
		Return(&entity.User{ID: 42, Email: "student@example.com"}, nil).Maybe()

	// Act
	result, err := env.service.FinishSession(42, 100)

	// Assert
	require.NoError(t, err, "Завершение сессии должно быть успешным")
	assert.Equal(t, 3, result.TotalScore)
	assert.Equal(t, 60.0, result.Percentage)
	assert.Equal(t, entity.SessionStatusCompleted, result.Status)
	require.NotNil(t, result.Exam)
	assert.Equal(t, "Final Exam", result.Exam.Title)

	// Событие завершения опубликовано в админ-ленту
	events := env.publisher.captured()
	require.Len(t, events, 1)
	assert.Equal(t, uint(100), events[0].SessionID)
	assert.Equal(t, "Final Exam", events[0].ExamTitle)
	assert.Equal(t, 60.0, events[0].Percentage)
}

func TestSessionService_FinishSession_AlreadyCompleted(t *testing.T) {
	// Arrange: повторное завершение отклонено guarded UPDATE в репозитории
	env := newSessionTestEnv()

	env.resultRepo.On("FinishSession", uint(100), uint(42)).
		Return(nil, fmt.Errorf("%w: session #100", repository.ErrSessionCompleted))

	// Act
	result, err := env.service.FinishSession(42, 100)

	// Assert
	assert.ErrorIs(t, err, repository.ErrSessionCompleted)
	assert.Nil(t, result)
	assert.Empty(t, env.publisher.captured(), "Событие не публикуется при отказе")
}

func TestSessionService_FinishSession_NotFound(t *testing.T) {
	env := newSessionTestEnv()

	env.resultRepo.On("FinishSession", uint(999), uint(42)).
		Return(nil, apperrors.ErrNotFound)

	// Act
	_, err := env.service.FinishSession(42, 999)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

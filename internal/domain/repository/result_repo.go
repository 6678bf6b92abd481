package repository

import (
	"github.com/yourusername/exam-api/internal/domain/entity"
)

// ResultRepository определяет методы для работы с сессиями и ответами.
// Все check-then-create инварианты (одна попытка на пару user/exam, один
// ответ на пару session/question, однократное завершение) обеспечиваются
// на уровне базы: уникальными индексами и guarded UPDATE, а не
// read-then-write логикой приложения.
type ResultRepository interface {
	// CreateSession создает сессию в статусе IN_PROGRESS.
	// Нарушение уникальности (user, exam) возвращается как ErrAlreadyAttempted.
	CreateSession(result *entity.ExamResult) error
	// GetSessionByID возвращает сессию по ID вместе с экзаменом и
	// пользователем — для админского просмотра, без проверки владельца.
	GetSessionByID(id uint) (*entity.ExamResult, error)
	// GetOwnedSession возвращает сессию, только если она принадлежит userID
	GetOwnedSession(id uint, userID uint) (*entity.ExamResult, error)
	// SaveAnswer записывает ответ под блокировкой строки сессии:
	// сессия не IN_PROGRESS → ErrSessionCompleted,
	// дубликат (session, question) → ErrQuestionAlreadyAnswered.
	SaveAnswer(answer *entity.ExamAnswer) error
	GetSessionAnswers(resultID uint) ([]entity.ExamAnswer, error)
	// FinishSession атомарно переводит сессию IN_PROGRESS → COMPLETED,
	// подсчитывает итог по согласованному снимку ответов и сохраняет его.
	// Повторный вызов (в том числе конкурентный) → ErrSessionCompleted.
	FinishSession(resultID uint, userID uint) (*entity.ExamResult, error)
	// GetUserResults возвращает завершенные сессии пользователя,
	// самые свежие первыми, вместе с заголовком экзамена.
	GetUserResults(userID uint, limit, offset int) ([]entity.ExamResult, int64, error)
	// GetExamResults возвращает все сессии по экзамену для админского обзора
	GetExamResults(examID uint, limit, offset int) ([]entity.ExamResult, int64, error)
}

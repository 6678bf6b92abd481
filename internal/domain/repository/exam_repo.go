package repository

import (
	"github.com/yourusername/exam-api/internal/domain/entity"
)

// ExamRepository определяет методы для работы с экзаменами
type ExamRepository interface {
	// CreateWithQuestions атомарно создает экзамен и связи с вопросами
	// (позиции 1..N в порядке questionIDs). При любой ошибке не остается
	// частично связанного экзамена.
	CreateWithQuestions(exam *entity.Exam, questionIDs []uint) error
	GetByID(id uint) (*entity.Exam, error)
	// GetWithQuestions возвращает экзамен с вопросами, упорядоченными по позиции
	GetWithQuestions(id uint) (*entity.Exam, error)
	// GetAvailableForUser возвращает ACTIVE экзамен, по которому у пользователя
	// нет ни одной сессии. Предикат вычисляется на стороне базы одним запросом.
	GetAvailableForUser(userID uint) (*entity.Exam, error)
	UpdateStatus(examID uint, status string) error
	List(limit, offset int) ([]entity.Exam, int64, error)
}

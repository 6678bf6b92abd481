package repository

import (
	"github.com/yourusername/exam-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с пулом вопросов.
// Пул принадлежит внешней подсистеме авторинга; здесь только операции,
// нужные генерации экзаменов и фиксации корректности ответов.
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetActiveIDs возвращает ID всех активных вопросов пула.
	// Используется генерацией экзамена для выборки без повторов.
	GetActiveIDs() ([]uint, error)
	CountActive() (int64, error)
	// Update отклоняет изменение вопроса, на который уже записаны ответы
	// (ErrQuestionInUse): историческая оценка никогда не пересчитывается.
	Update(question *entity.Question) error
	Deactivate(id uint) error
}

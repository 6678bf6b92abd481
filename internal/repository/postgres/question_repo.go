package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий пула вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetActiveIDs возвращает ID всех активных вопросов пула
func (r *QuestionRepo) GetActiveIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Question{}).
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}

// CountActive возвращает количество активных вопросов пула
func (r *QuestionRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// Update обновляет вопрос. Вопрос, на который уже записаны ответы,
// изменять запрещено: сохраненная корректность ответов не пересчитывается,
// и редактирование молча исказило бы историю оценок.
func (r *QuestionRepo) Update(question *entity.Question) error {
	var answerCount int64
	err := r.db.Model(&entity.ExamAnswer{}).
		Where("question_id = ?", question.ID).
		Count(&answerCount).Error
	if err != nil {
		return err
	}
	if answerCount > 0 {
		return fmt.Errorf("%w: question #%d", repository.ErrQuestionInUse, question.ID)
	}
	return r.db.Save(question).Error
}

// Deactivate исключает вопрос из пула генерации, не трогая историю
func (r *QuestionRepo) Deactivate(id uint) error {
	result := r.db.Model(&entity.Question{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

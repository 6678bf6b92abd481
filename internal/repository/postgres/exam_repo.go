package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// ExamRepo реализует repository.ExamRepository
type ExamRepo struct {
	db *gorm.DB
}

// NewExamRepo создает новый репозиторий экзаменов
func NewExamRepo(db *gorm.DB) *ExamRepo {
	return &ExamRepo{db: db}
}

// CreateWithQuestions атомарно создает экзамен и связи вопрос-экзамен.
// Позиции проставляются 1..N в порядке questionIDs. Откат транзакции
// гарантирует, что частично связанный экзамен не останется в базе.
func (r *ExamRepo) CreateWithQuestions(exam *entity.Exam, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exam).Error; err != nil {
			return fmt.Errorf("failed to create exam: %w", err)
		}

		links := make([]entity.ExamQuestion, 0, len(questionIDs))
		for i, questionID := range questionIDs {
			links = append(links, entity.ExamQuestion{
				ExamID:     exam.ID,
				QuestionID: questionID,
				Position:   i + 1,
			})
		}

		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return fmt.Errorf("failed to link questions to exam #%d: %w", exam.ID, err)
			}
		}
		return nil
	})
}

// GetByID возвращает экзамен по ID
func (r *ExamRepo) GetByID(id uint) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.First(&exam, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// GetWithQuestions возвращает экзамен с вопросами, упорядоченными по позиции
func (r *ExamRepo) GetWithQuestions(id uint) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.
		Preload("ExamQuestions", orderByPosition).
		Preload("ExamQuestions.Question").
		Preload("ExamQuestions.Question.Professor").
		First(&exam, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// GetAvailableForUser возвращает ACTIVE экзамен без сессий данного пользователя.
// Предикат "нет ни одной сессии" вычисляется в том же запросе (NOT EXISTS),
// а не отдельной проверкой в приложении; финальным арбитром конкурентных
// start остается уникальный индекс idx_user_exam.
func (r *ExamRepo) GetAvailableForUser(userID uint) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.
		Where("status = ?", entity.ExamStatusActive).
		Where("NOT EXISTS (SELECT 1 FROM exam_results WHERE exam_results.exam_id = exams.id AND exam_results.user_id = ?)", userID).
		Order("id").
		Preload("ExamQuestions", orderByPosition).
		Preload("ExamQuestions.Question").
		Preload("ExamQuestions.Question.Professor").
		First(&exam).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// UpdateStatus обновляет статус экзамена
func (r *ExamRepo) UpdateStatus(examID uint, status string) error {
	result := r.db.Model(&entity.Exam{}).
		Where("id = ?", examID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List возвращает список экзаменов с пагинацией, новые первыми
func (r *ExamRepo) List(limit, offset int) ([]entity.Exam, int64, error) {
	var exams []entity.Exam
	var total int64

	if err := r.db.Model(&entity.Exam{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Limit(limit).Offset(offset).Order("created_at DESC").Find(&exams).Error
	if err != nil {
		return nil, 0, err
	}
	return exams, total, nil
}

// orderByPosition упорядочивает предзагруженные связи по позиции вопроса
func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("exam_questions.position ASC")
}

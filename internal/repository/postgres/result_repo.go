package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий сессий и ответов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// CreateSession создает сессию в статусе IN_PROGRESS.
// Уникальный индекс idx_user_exam (user_id, exam_id) — единственный арбитр
// правила "одна попытка на экзамен": из двух конкурентных start ровно один
// получает 23505, который отображается в ErrAlreadyAttempted.
func (r *ResultRepo) CreateSession(result *entity.ExamResult) error {
	if err := r.db.Create(result).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user #%d, exam #%d", repository.ErrAlreadyAttempted, result.UserID, result.ExamID)
		}
		return err
	}
	return nil
}

// GetSessionByID возвращает сессию по ID вместе с экзаменом и пользователем.
// Используется для админского просмотра сессии, без проверки владельца.
func (r *ResultRepo) GetSessionByID(id uint) (*entity.ExamResult, error) {
	var result entity.ExamResult
	err := r.db.Preload("Exam").Preload("User").First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetOwnedSession возвращает сессию, только если она принадлежит userID
func (r *ResultRepo) GetOwnedSession(id uint, userID uint) (*entity.ExamResult, error) {
	var result entity.ExamResult
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// SaveAnswer записывает ответ в транзакции под блокировкой строки сессии.
// Блокировка FOR UPDATE сериализует SaveAnswer с FinishSession: ответ не может
// вклиниться между снимком ответов и переводом сессии в COMPLETED.
// Дубликат (exam_result_id, question_id) отлавливается уникальным индексом
// idx_result_question, а не предварительным SELECT.
func (r *ResultRepo) SaveAnswer(answer *entity.ExamAnswer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var session entity.ExamResult
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, answer.ExamResultID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if !session.IsInProgress() {
			return fmt.Errorf("%w: session #%d", repository.ErrSessionCompleted, session.ID)
		}

		if err := tx.Create(answer).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: session #%d, question #%d",
					repository.ErrQuestionAlreadyAnswered, answer.ExamResultID, answer.QuestionID)
			}
			return err
		}
		return nil
	})
}

// GetSessionAnswers возвращает все ответы сессии в порядке записи
func (r *ResultRepo) GetSessionAnswers(resultID uint) ([]entity.ExamAnswer, error) {
	var answers []entity.ExamAnswer
	err := r.db.Where("exam_result_id = ?", resultID).
		Order("created_at").
		Find(&answers).Error
	return answers, err
}

// FinishSession атомарно завершает сессию и подсчитывает итог.
// Строка сессии берется под FOR UPDATE, поэтому снимок ответов согласован:
// ни один ответ не может быть записан после снимка (SaveAnswer ждет ту же
// блокировку и увидит COMPLETED). Guarded UPDATE по status — вторая линия
// защиты от двойного завершения.
func (r *ResultRepo) FinishSession(resultID uint, userID uint) (*entity.ExamResult, error) {
	var completed *entity.ExamResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var session entity.ExamResult
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", resultID, userID).
			First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if session.IsCompleted() {
			return fmt.Errorf("%w: session #%d", repository.ErrSessionCompleted, session.ID)
		}

		var answers []entity.ExamAnswer
		if err := tx.Where("exam_result_id = ?", session.ID).
			Order("created_at").
			Find(&answers).Error; err != nil {
			return err
		}

		correctCount, percentage := entity.ScoreAnswers(answers, session.TotalQuestions)
		now := time.Now()

		res := tx.Model(&entity.ExamResult{}).
			Where("id = ? AND status = ?", session.ID, entity.SessionStatusInProgress).
			Updates(map[string]interface{}{
				"total_score":  correctCount,
				"percentage":   percentage,
				"status":       entity.SessionStatusCompleted,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: session #%d", repository.ErrSessionCompleted, session.ID)
		}

		session.TotalScore = correctCount
		session.Percentage = percentage
		session.Status = entity.SessionStatusCompleted
		session.CompletedAt = &now
		session.Answers = answers
		completed = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// GetUserResults возвращает завершенные сессии пользователя с пагинацией,
// самые свежие первыми, вместе с заголовком экзамена
func (r *ResultRepo) GetUserResults(userID uint, limit, offset int) ([]entity.ExamResult, int64, error) {
	var results []entity.ExamResult
	var total int64

	query := r.db.Model(&entity.ExamResult{}).
		Where("user_id = ? AND status = ?", userID, entity.SessionStatusCompleted)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Exam").
		Order("completed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// GetExamResults возвращает все сессии по экзамену для админского обзора,
// завершенные сверху (самые свежие первыми), затем идущие попытки
func (r *ResultRepo) GetExamResults(examID uint, limit, offset int) ([]entity.ExamResult, int64, error) {
	var results []entity.ExamResult
	var total int64

	query := r.db.Model(&entity.ExamResult{}).Where("exam_id = ?", examID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("completed_at DESC NULLS LAST, started_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

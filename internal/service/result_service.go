package service

import (
	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ResultService предоставляет read-only проекции по завершенным сессиям.
// Никаких переходов состояний: только чтение COMPLETED сессий и
// неизменяемых полей снимка.
type ResultService struct {
	resultRepo repository.ResultRepository
}

// NewResultService создает новый сервис результатов
func NewResultService(resultRepo repository.ResultRepository) *ResultService {
	return &ResultService{resultRepo: resultRepo}
}

// GetUserResults возвращает историю завершенных сессий пользователя,
// самые свежие первыми
func (s *ResultService) GetUserResults(userID uint, page, pageSize int) ([]entity.ExamResult, int64, error) {
	page, pageSize = normalizePagination(page, pageSize)
	offset := (page - 1) * pageSize
	return s.resultRepo.GetUserResults(userID, pageSize, offset)
}

// GetExamResults возвращает все сессии по экзамену для админского обзора
func (s *ResultService) GetExamResults(examID uint, page, pageSize int) ([]entity.ExamResult, int64, error) {
	page, pageSize = normalizePagination(page, pageSize)
	offset := (page - 1) * pageSize
	return s.resultRepo.GetExamResults(examID, pageSize, offset)
}

// GetSessionDetail возвращает сессию вместе со всеми записанными ответами
// в порядке записи. Админский просмотр: владелец сессии не проверяется.
func (s *ResultService) GetSessionDetail(resultID uint) (*entity.ExamResult, error) {
	session, err := s.resultRepo.GetSessionByID(resultID)
	if err != nil {
		return nil, err
	}

	answers, err := s.resultRepo.GetSessionAnswers(resultID)
	if err != nil {
		return nil, err
	}
	session.Answers = answers

	return session, nil
}

// normalizePagination приводит страницу и размер страницы к допустимым значениям
func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

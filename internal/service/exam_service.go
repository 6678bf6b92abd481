package service

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

const (
	// defaultExamTitle используется, когда администратор не указал название
	defaultExamTitle = "General Knowledge Exam"

	// examDefinitionCacheKey — ключ кеша определения экзамена
	examDefinitionCacheKey = "exam:definition:%d"

	// examDefinitionCacheTTL — TTL кеша. Определение неизменяемо после
	// создания, TTL лишь ограничивает жизнь ключей закрытых экзаменов.
	examDefinitionCacheTTL = 24 * time.Hour
)

// ExamDefinition — кешируемый снимок определения экзамена: упорядоченный
// список ID вопросов. Правильные ответы сюда не попадают, за ними сервисы
// всегда идут в пул вопросов.
type ExamDefinition struct {
	ExamID         uint   `json:"exam_id"`
	TotalQuestions int    `json:"total_questions"`
	QuestionIDs    []uint `json:"question_ids"`
}

// Contains проверяет, входит ли вопрос в экзамен
func (d *ExamDefinition) Contains(questionID uint) bool {
	for _, id := range d.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// ExamService предоставляет методы генерации и выдачи экзаменов
type ExamService struct {
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
}

// NewExamService создает новый сервис экзаменов
func NewExamService(
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	cacheRepo repository.CacheRepository,
) *ExamService {
	return &ExamService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
	}
}

// GenerateExam выбирает totalQuestions случайных активных вопросов без
// повторов и материализует их как новый ACTIVE экзамен с позициями 1..N.
// Выборка — перемешивание Фишера-Йетса по ID активных вопросов и срез
// префикса; криптографическая случайность не требуется.
func (s *ExamService) GenerateExam(title, description string, totalQuestions int) (*entity.Exam, error) {
	if totalQuestions <= 0 {
		return nil, fmt.Errorf("%w: total questions must be positive, got %d", apperrors.ErrValidation, totalQuestions)
	}
	if title == "" {
		title = defaultExamTitle
	}

	activeIDs, err := s.questionRepo.GetActiveIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to load active question pool: %w", err)
	}

	if len(activeIDs) < totalQuestions {
		return nil, fmt.Errorf("%w: need %d, available %d",
			repository.ErrInsufficientPool, totalQuestions, len(activeIDs))
	}

	rand.Shuffle(len(activeIDs), func(i, j int) {
		activeIDs[i], activeIDs[j] = activeIDs[j], activeIDs[i]
	})
	selected := activeIDs[:totalQuestions]

	exam := &entity.Exam{
		Title:          title,
		Description:    description,
		TotalQuestions: totalQuestions,
		Status:         entity.ExamStatusActive,
	}

	// Экзамен и все связи создаются одной транзакцией: при сбое любой
	// вставки частично связанный экзамен не остается в базе
	if err := s.examRepo.CreateWithQuestions(exam, selected); err != nil {
		return nil, fmt.Errorf("failed to generate exam: %w", err)
	}

	log.Printf("[ExamService] Сгенерирован экзамен #%d (%q), вопросов: %d", exam.ID, exam.Title, totalQuestions)

	full, err := s.examRepo.GetWithQuestions(exam.ID)
	if err != nil {
		return nil, err
	}

	s.cacheDefinition(full)
	return full, nil
}

// GetExamWithQuestions возвращает экзамен с полным списком вопросов
func (s *ExamService) GetExamWithQuestions(examID uint) (*entity.Exam, error) {
	return s.examRepo.GetWithQuestions(examID)
}

// GetAvailableExam возвращает ACTIVE экзамен, который пользователь еще
// не пытался сдать, или apperrors.ErrNotFound, если таких нет
func (s *ExamService) GetAvailableExam(userID uint) (*entity.Exam, error) {
	return s.examRepo.GetAvailableForUser(userID)
}

// GetDefinition возвращает снимок определения экзамена, сначала из кеша.
// Определение неизменяемо, поэтому промах кеша просто перечитывает базу.
func (s *ExamService) GetDefinition(examID uint) (*ExamDefinition, error) {
	key := fmt.Sprintf(examDefinitionCacheKey, examID)

	var cached ExamDefinition
	if err := s.cacheRepo.GetJSON(key, &cached); err == nil {
		return &cached, nil
	}

	exam, err := s.examRepo.GetWithQuestions(examID)
	if err != nil {
		return nil, err
	}

	def := definitionOf(exam)
	if err := s.cacheRepo.SetJSON(key, def, examDefinitionCacheTTL); err != nil {
		log.Printf("[ExamService] Не удалось закешировать определение экзамена #%d: %v", examID, err)
	}
	return def, nil
}

// CloseExam переводит экзамен ACTIVE → CLOSED. Закрытый экзамен больше не
// выдается как доступный, и start по нему отклоняется.
func (s *ExamService) CloseExam(examID uint) error {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return err
	}

	if exam.IsClosed() {
		return fmt.Errorf("%w: exam #%d is already closed", apperrors.ErrConflict, examID)
	}

	if err := s.examRepo.UpdateStatus(examID, entity.ExamStatusClosed); err != nil {
		return fmt.Errorf("failed to close exam #%d: %w", examID, err)
	}

	if err := s.cacheRepo.Delete(fmt.Sprintf(examDefinitionCacheKey, examID)); err != nil {
		log.Printf("[ExamService] Не удалось инвалидировать кеш экзамена #%d: %v", examID, err)
	}

	log.Printf("[ExamService] Экзамен #%d закрыт", examID)
	return nil
}

// GetPoolStats возвращает размер активного пула вопросов: сколько
// вопросов доступно генерации прямо сейчас
func (s *ExamService) GetPoolStats() (int64, error) {
	return s.questionRepo.CountActive()
}

// ListExams возвращает список экзаменов с пагинацией
func (s *ExamService) ListExams(page, pageSize int) ([]entity.Exam, int64, error) {
	offset := (page - 1) * pageSize
	return s.examRepo.List(pageSize, offset)
}

// cacheDefinition кладет определение экзамена в кеш, ошибки только логируются
func (s *ExamService) cacheDefinition(exam *entity.Exam) {
	key := fmt.Sprintf(examDefinitionCacheKey, exam.ID)
	if err := s.cacheRepo.SetJSON(key, definitionOf(exam), examDefinitionCacheTTL); err != nil {
		log.Printf("[ExamService] Не удалось закешировать определение экзамена #%d: %v", exam.ID, err)
	}
}

// definitionOf строит снимок определения из предзагруженного экзамена
func definitionOf(exam *entity.Exam) *ExamDefinition {
	ids := make([]uint, 0, len(exam.ExamQuestions))
	for i := range exam.ExamQuestions {
		ids = append(ids, exam.ExamQuestions[i].QuestionID)
	}
	return &ExamDefinition{
		ExamID:         exam.ID,
		TotalQuestions: exam.TotalQuestions,
		QuestionIDs:    ids,
	}
}

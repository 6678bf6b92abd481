package dto

import (
	"time"

	"github.com/yourusername/exam-api/internal/domain/entity"
)

// ProfessorResponse — автор вопроса в формате для ответа клиенту
type ProfessorResponse struct {
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
}

// ExamQuestionResponse представляет вопрос экзамена с его позицией.
// CorrectAnswer заполняется только в административных выгрузках;
// студенту правильный вариант не раскрывается никогда.
type ExamQuestionResponse struct {
	QuestionID           uint               `json:"question_id"`
	Position             int                `json:"position"`
	Header               string             `json:"header"`
	Alternatives         []string           `json:"alternatives"`
	EducationalIndicator string             `json:"educational_indicator,omitempty"`
	CorrectAnswer        string             `json:"correct_answer,omitempty"`
	Professor            *ProfessorResponse `json:"professor,omitempty"`
}

// ExamResponse представляет экзамен в формате для ответа клиенту
type ExamResponse struct {
	ID             uint                   `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	TotalQuestions int                    `json:"total_questions"`
	Status         string                 `json:"status"`
	Questions      []ExamQuestionResponse `json:"questions,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// SessionResponse — дескриптор начатой сессии
type SessionResponse struct {
	ID             uint      `json:"id"`
	ExamID         uint      `json:"exam_id"`
	Status         string    `json:"status"`
	StartedAt      time.Time `json:"started_at"`
	TotalQuestions int       `json:"total_questions"`
}

// AnswerResponse — записанный ответ. Содержит флаг корректности,
// но не правильный вариант.
type AnswerResponse struct {
	ID             uint   `json:"id"`
	QuestionID     uint   `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
	IsCorrect      bool   `json:"is_correct"`
	TimeSpentSec   *int   `json:"time_spent_sec,omitempty"`
}

// FinalResultResponse — сессия со всеми записанными ответами.
// User заполняется только в админском просмотре сессии.
type FinalResultResponse struct {
	ID             uint             `json:"id"`
	ExamID         uint             `json:"exam_id"`
	ExamTitle      string           `json:"exam_title,omitempty"`
	User           *UserResponse    `json:"user,omitempty"`
	TotalScore     int              `json:"total_score"`
	TotalQuestions int              `json:"total_questions"`
	Percentage     float64          `json:"percentage"`
	Status         string           `json:"status"`
	StartedAt      time.Time        `json:"started_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	Answers        []AnswerResponse `json:"answers"`
}

// UserResponse — проекция пользователя для админских выборок
type UserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ResultSummaryResponse — строка в списках результатов
type ResultSummaryResponse struct {
	ID             uint          `json:"id"`
	ExamID         uint          `json:"exam_id"`
	ExamTitle      string        `json:"exam_title,omitempty"`
	User           *UserResponse `json:"user,omitempty"`
	TotalScore     int           `json:"total_score"`
	TotalQuestions int           `json:"total_questions"`
	Percentage     float64       `json:"percentage"`
	Status         string        `json:"status"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
}

// PaginatedResultResponse представляет пагинированный список результатов
type PaginatedResultResponse struct {
	Results []*ResultSummaryResponse `json:"results"`
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	PerPage int                      `json:"per_page"`
}

// PaginatedExamResponse представляет пагинированный список экзаменов
type PaginatedExamResponse struct {
	Exams   []*ExamResponse `json:"exams"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// NewExamQuestionResponse создает DTO для вопроса экзамена.
// includeCorrect раскрывает правильный ответ (только админские выгрузки).
func NewExamQuestionResponse(eq *entity.ExamQuestion, includeCorrect bool) ExamQuestionResponse {
	resp := ExamQuestionResponse{
		QuestionID: eq.QuestionID,
		Position:   eq.Position,
	}
	if eq.Question != nil {
		resp.Header = eq.Question.Header
		resp.Alternatives = eq.Question.Alternatives
		resp.EducationalIndicator = eq.Question.EducationalIndicator
		if includeCorrect {
			resp.CorrectAnswer = eq.Question.CorrectAnswer
		}
		if eq.Question.Professor != nil {
			resp.Professor = &ProfessorResponse{
				Name:    eq.Question.Professor.Name,
				Subject: eq.Question.Professor.Subject,
			}
		}
	}
	return resp
}

// NewExamResponse создает DTO для экзамена
func NewExamResponse(exam *entity.Exam, includeQuestions, includeCorrect bool) *ExamResponse {
	if exam == nil {
		return nil
	}

	var questions []ExamQuestionResponse
	if includeQuestions {
		questions = make([]ExamQuestionResponse, len(exam.ExamQuestions))
		for i := range exam.ExamQuestions {
			questions[i] = NewExamQuestionResponse(&exam.ExamQuestions[i], includeCorrect)
		}
	}

	return &ExamResponse{
		ID:             exam.ID,
		Title:          exam.Title,
		Description:    exam.Description,
		TotalQuestions: exam.TotalQuestions,
		Status:         exam.Status,
		Questions:      questions,
		CreatedAt:      exam.CreatedAt,
		UpdatedAt:      exam.UpdatedAt,
	}
}

// NewSessionResponse создает DTO для начатой сессии
func NewSessionResponse(result *entity.ExamResult) *SessionResponse {
	if result == nil {
		return nil
	}
	return &SessionResponse{
		ID:             result.ID,
		ExamID:         result.ExamID,
		Status:         result.Status,
		StartedAt:      result.StartedAt,
		TotalQuestions: result.TotalQuestions,
	}
}

// NewAnswerResponse создает DTO для записанного ответа
func NewAnswerResponse(answer *entity.ExamAnswer) *AnswerResponse {
	if answer == nil {
		return nil
	}
	return &AnswerResponse{
		ID:             answer.ID,
		QuestionID:     answer.QuestionID,
		SelectedAnswer: answer.SelectedAnswer,
		IsCorrect:      answer.IsCorrect,
		TimeSpentSec:   answer.TimeSpentSec,
	}
}

// NewFinalResultResponse создает DTO для итога завершенной сессии
func NewFinalResultResponse(result *entity.ExamResult) *FinalResultResponse {
	if result == nil {
		return nil
	}

	answers := make([]AnswerResponse, len(result.Answers))
	for i := range result.Answers {
		answers[i] = *NewAnswerResponse(&result.Answers[i])
	}

	resp := &FinalResultResponse{
		ID:             result.ID,
		ExamID:         result.ExamID,
		TotalScore:     result.TotalScore,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		Status:         result.Status,
		StartedAt:      result.StartedAt,
		CompletedAt:    result.CompletedAt,
		Answers:        answers,
	}
	if result.Exam != nil {
		resp.ExamTitle = result.Exam.Title
	}
	if result.User != nil {
		resp.User = &UserResponse{Name: result.User.Name, Email: result.User.Email}
	}
	return resp
}

// NewResultSummaryResponse создает DTO-строку для списков результатов
func NewResultSummaryResponse(result *entity.ExamResult) *ResultSummaryResponse {
	if result == nil {
		return nil
	}
	resp := &ResultSummaryResponse{
		ID:             result.ID,
		ExamID:         result.ExamID,
		TotalScore:     result.TotalScore,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		Status:         result.Status,
		StartedAt:      result.StartedAt,
		CompletedAt:    result.CompletedAt,
	}
	if result.Exam != nil {
		resp.ExamTitle = result.Exam.Title
	}
	if result.User != nil {
		resp.User = &UserResponse{Name: result.User.Name, Email: result.User.Email}
	}
	return resp
}

// NewPaginatedResultResponse создает DTO для пагинированного списка результатов
func NewPaginatedResultResponse(results []entity.ExamResult, total int64, page, perPage int) *PaginatedResultResponse {
	list := make([]*ResultSummaryResponse, len(results))
	for i := range results {
		list[i] = NewResultSummaryResponse(&results[i])
	}
	return &PaginatedResultResponse{
		Results: list,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}

// NewPaginatedExamResponse создает DTO для пагинированного списка экзаменов
func NewPaginatedExamResponse(exams []entity.Exam, total int64, page, perPage int) *PaginatedExamResponse {
	list := make([]*ExamResponse, len(exams))
	for i := range exams {
		list[i] = NewExamResponse(&exams[i], false, false)
	}
	return &PaginatedExamResponse{
		Exams:   list,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAnswers_MixedAnswers(t *testing.T) {
	// Arrange: экзамен из 5 вопросов, 3 правильных и 2 неправильных ответа
	answers := []ExamAnswer{
		{QuestionID: 1, IsCorrect: true},
		{QuestionID: 2, IsCorrect: false},
		{QuestionID: 3, IsCorrect: true},
		{QuestionID: 4, IsCorrect: false},
		{QuestionID: 5, IsCorrect: true},
	}

	// Act
	correct, percentage := ScoreAnswers(answers, 5)

	// Assert
	assert.Equal(t, 3, correct, "Должно быть 3 правильных ответа")
	assert.Equal(t, 60.0, percentage, "Процент должен быть 60.0")
}

func TestScoreAnswers_PartiallyAnswered(t *testing.T) {
	// Arrange: экзамен из 4 вопросов, отвечено только на 2 (оба правильно).
	// Неотвеченные вопросы считаются неправильными.
	answers := []ExamAnswer{
		{QuestionID: 1, IsCorrect: true},
		{QuestionID: 2, IsCorrect: true},
	}

	// Act
	correct, percentage := ScoreAnswers(answers, 4)

	// Assert
	assert.Equal(t, 2, correct, "Должно быть 2 правильных ответа")
	assert.Equal(t, 50.0, percentage, "Процент считается от всех вопросов экзамена, а не от отвеченных")
}

func TestScoreAnswers_NoAnswers(t *testing.T) {
	// Act: завершение сессии без единого ответа
	correct, percentage := ScoreAnswers(nil, 10)

	// Assert
	assert.Equal(t, 0, correct)
	assert.Equal(t, 0.0, percentage)
}

func TestScoreAnswers_AllIncorrect(t *testing.T) {
	answers := []ExamAnswer{
		{QuestionID: 1, IsCorrect: false},
		{QuestionID: 2, IsCorrect: false},
	}

	correct, percentage := ScoreAnswers(answers, 2)

	assert.Equal(t, 0, correct)
	assert.Equal(t, 0.0, percentage)
}

func TestScoreAnswers_UsesStoredFlagsOnly(t *testing.T) {
	// Подсчет опирается только на зафиксированный флаг корректности,
	// содержимое selected_answer не интерпретируется
	answers := []ExamAnswer{
		{QuestionID: 1, SelectedAnswer: "wrong text", IsCorrect: true},
	}

	correct, percentage := ScoreAnswers(answers, 1)

	assert.Equal(t, 1, correct)
	assert.Equal(t, 100.0, percentage)
}

func TestScoreAnswers_ZeroTotalQuestions(t *testing.T) {
	// Защита от деления на ноль: процент равен 0
	answers := []ExamAnswer{
		{QuestionID: 1, IsCorrect: true},
	}

	correct, percentage := ScoreAnswers(answers, 0)

	assert.Equal(t, 1, correct)
	assert.Equal(t, 0.0, percentage)
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_IsCorrect_CorrectAnswer(t *testing.T) {
	// Arrange
	question := &Question{
		ID:            1,
		Header:        "Какой язык используется в Go?",
		Alternatives:  StringArray{"Python", "Go", "Java", "Rust"},
		CorrectAnswer: "Go",
	}

	// Act & Assert
	assert.True(t, question.IsCorrect("Go"), "IsCorrect должен вернуть true для правильного ответа")
}

func TestQuestion_IsCorrect_IncorrectAnswer(t *testing.T) {
	// Arrange
	question := &Question{
		ID:            1,
		CorrectAnswer: "Go",
	}

	// Act & Assert
	assert.False(t, question.IsCorrect("Python"), "IsCorrect должен вернуть false для неправильного ответа")
	assert.False(t, question.IsCorrect("go"), "Сравнение чувствительно к регистру")
	assert.False(t, question.IsCorrect(""), "Пустой ответ не может быть правильным")
}

func TestQuestion_IsValidAlternative(t *testing.T) {
	// Arrange
	question := &Question{
		Alternatives: StringArray{"A", "B", "C", "D"},
	}

	// Act & Assert: валидные варианты
	assert.True(t, question.IsValidAlternative("A"), "Вариант A должен быть валидным")
	assert.True(t, question.IsValidAlternative("D"), "Вариант D должен быть валидным")

	// Assert: невалидные варианты
	assert.False(t, question.IsValidAlternative("E"), "Вариант вне списка должен быть невалидным")
	assert.False(t, question.IsValidAlternative(""), "Пустой вариант должен быть невалидным")
	assert.False(t, question.IsValidAlternative("a"), "Сравнение чувствительно к регистру")
}

func TestQuestion_AlternativesCount(t *testing.T) {
	question := &Question{
		Alternatives: StringArray{"A", "B", "C"},
	}

	assert.Equal(t, 3, question.AlternativesCount())
}

func TestStringArray_Scan_ValidJSON(t *testing.T) {
	// Arrange
	var arr StringArray
	data := []byte(`["Transport", "Network"]`)

	// Act
	err := arr.Scan(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StringArray{"Transport", "Network"}, arr)
}

func TestStringArray_Scan_NilValue(t *testing.T) {
	var arr StringArray

	err := arr.Scan(nil)

	require.NoError(t, err, "NULL из базы должен превращаться в пустой массив")
	assert.Empty(t, arr)
}

func TestStringArray_Value_EmptyArray(t *testing.T) {
	// Пустой массив сериализуется как "[]", а не NULL
	var arr StringArray

	value, err := arr.Value()

	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}

func TestStringArray_Value_NonEmpty(t *testing.T) {
	arr := StringArray{"A", "B"}

	value, err := arr.Value()

	require.NoError(t, err)
	assert.JSONEq(t, `["A","B"]`, string(value.([]byte)))
}

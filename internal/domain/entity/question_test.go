package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multiQuestion() Question {
	return Question{
		ID:                   "q1",
		Text:                 "Какие фильмы снял Нолан?",
		Options:              []string{"Начало", "Титаник", "Интерстеллар", "Аватар"},
		CorrectAnswerIndexes: []int{0, 2},
	}
}

func singleQuestion() Question {
	return Question{
		ID:                   "q2",
		Text:                 "В каком году вышел Терминатор?",
		Options:              []string{"1984", "1991", "2003"},
		CorrectAnswerIndexes: []int{0},
	}
}

func TestIsCorrect_SetEquality(t *testing.T) {
	q := multiQuestion()

	tests := []struct {
		name     string
		selected []int
		want     bool
	}{
		{"точное совпадение", []int{0, 2}, true},
		{"порядок не важен", []int{2, 0}, true},
		{"неполный набор", []int{0}, false},
		{"лишний вариант", []int{0, 2, 3}, false},
		{"другой набор той же длины", []int{0, 1}, false},
		{"пустой выбор всегда неверен", []int{}, false},
		{"nil выбор", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, q.IsCorrect(tt.selected))
		})
	}
}

func TestIsCorrect_SingleAnswer(t *testing.T) {
	q := singleQuestion()

	assert.True(t, q.IsCorrect([]int{0}))
	assert.False(t, q.IsCorrect([]int{1}))
	assert.False(t, q.IsCorrect([]int{0, 1}))
	assert.False(t, q.IsCorrect(nil))
}

func TestIsCorrect_DoesNotMutateSelection(t *testing.T) {
	q := multiQuestion()
	selected := []int{2, 0}
	q.IsCorrect(selected)
	// Сортировка выполняется над копией
	assert.Equal(t, []int{2, 0}, selected)
}

func TestIsMultiAnswer(t *testing.T) {
	multi := multiQuestion()
	single := singleQuestion()
	assert.True(t, multi.IsMultiAnswer())
	assert.False(t, single.IsMultiAnswer())
}

func TestFeedbackFor(t *testing.T) {
	q := singleQuestion()

	// Без пояснения
	_, ok := q.FeedbackFor(true)
	assert.False(t, ok)

	q.Feedback = &QuestionFeedback{Text: "Кэмерон снял его в 1984", DisplayCondition: FeedbackOnIncorrect}
	_, ok = q.FeedbackFor(true)
	assert.False(t, ok)
	text, ok := q.FeedbackFor(false)
	require.True(t, ok)
	assert.Equal(t, "Кэмерон снял его в 1984", text)

	q.Feedback.DisplayCondition = FeedbackAlways
	_, ok = q.FeedbackFor(true)
	assert.True(t, ok)
	_, ok = q.FeedbackFor(false)
	assert.True(t, ok)

	q.Feedback.DisplayCondition = FeedbackOnCorrect
	_, ok = q.FeedbackFor(false)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Question)
		wantErr bool
	}{
		{"валидный вопрос", func(q *Question) {}, false},
		{"пустой текст", func(q *Question) { q.Text = "" }, true},
		{"один вариант", func(q *Question) { q.Options = []string{"Начало"} }, true},
		{"слишком много вариантов", func(q *Question) {
			q.Options = []string{"a", "b", "c", "d", "e", "f", "g"}
		}, true},
		{"пустой вариант", func(q *Question) { q.Options[1] = "" }, true},
		{"нет правильных ответов", func(q *Question) { q.CorrectAnswerIndexes = nil }, true},
		{"индекс вне диапазона", func(q *Question) { q.CorrectAnswerIndexes = []int{0, 7} }, true},
		{"отрицательный индекс", func(q *Question) { q.CorrectAnswerIndexes = []int{-1} }, true},
		{"дубликат индекса", func(q *Question) { q.CorrectAnswerIndexes = []int{0, 0} }, true},
		{"отрицательный таймер", func(q *Question) { q.TimeLimitSec = -5 }, true},
		{"неизвестное условие пояснения", func(q *Question) {
			q.Feedback = &QuestionFeedback{Text: "x", DisplayCondition: "SOMETIMES"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := multiQuestion()
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCriticalFieldsEqual(t *testing.T) {
	base := multiQuestion()

	t.Run("идентичные вопросы равны", func(t *testing.T) {
		other := multiQuestion()
		assert.True(t, base.CriticalFieldsEqual(&other))
	})

	t.Run("порядок правильных индексов не важен", func(t *testing.T) {
		other := multiQuestion()
		other.CorrectAnswerIndexes = []int{2, 0}
		assert.True(t, base.CriticalFieldsEqual(&other))
	})

	t.Run("изменение текста критично", func(t *testing.T) {
		other := multiQuestion()
		other.Text = "Другой вопрос"
		assert.False(t, base.CriticalFieldsEqual(&other))
	})

	t.Run("изменение варианта критично", func(t *testing.T) {
		other := multiQuestion()
		other.Options[3] = "Чужой"
		assert.False(t, base.CriticalFieldsEqual(&other))
	})

	t.Run("изменение правильного набора критично", func(t *testing.T) {
		other := multiQuestion()
		other.CorrectAnswerIndexes = []int{0}
		assert.False(t, base.CriticalFieldsEqual(&other))
	})

	t.Run("изменение таймера вопроса критично", func(t *testing.T) {
		other := multiQuestion()
		other.TimeLimitSec = 30
		assert.False(t, base.CriticalFieldsEqual(&other))
	})
}

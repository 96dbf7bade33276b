package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuiz() *Quiz {
	questions := QuestionList{multiQuestion(), singleQuestion()}
	quiz := &Quiz{
		ID:        "quiz-1",
		CreatorID: "user-1",
		Title:     "Кино двухтысячных",
		Category:  CategoryMovies,
		Questions: questions,
	}
	quiz.ResetStats()
	return quiz
}

func TestResetStats(t *testing.T) {
	quiz := testQuiz()
	quiz.Stats.TotalPlays = 10
	quiz.PlayedBy = StringArray{"user-2", "user-3"}

	quiz.ResetStats()

	assert.Equal(t, 0, quiz.Stats.TotalPlays)
	assert.Empty(t, quiz.PlayedBy)
	// Корзины создаются для каждого вопроса
	require.Len(t, quiz.Stats.QuestionStats, 2)
	assert.NotNil(t, quiz.Stats.QuestionStats["q1"].Answers)
}

func TestHasPlayed(t *testing.T) {
	quiz := testQuiz()
	assert.False(t, quiz.HasPlayed("user-2"))

	quiz.PlayedBy = append(quiz.PlayedBy, "user-2")
	assert.True(t, quiz.HasPlayed("user-2"))
	assert.False(t, quiz.HasPlayed("user-3"))
}

func TestIsOwnedBy(t *testing.T) {
	quiz := testQuiz()
	assert.True(t, quiz.IsOwnedBy("user-1"))
	assert.False(t, quiz.IsOwnedBy("user-2"))
	// Анонимный пользователь не владеет ничем
	assert.False(t, quiz.IsOwnedBy(""))
}

func TestRecalculateAverageRating(t *testing.T) {
	quiz := testQuiz()

	quiz.RecalculateAverageRating()
	assert.Equal(t, 0.0, quiz.AverageRating)

	quiz.Ratings = IntArray{5, 4, 3}
	quiz.RecalculateAverageRating()
	assert.InDelta(t, 4.0, quiz.AverageRating, 0.0001)
}

func TestQuizStatsClone_IsDeep(t *testing.T) {
	quiz := testQuiz()
	quiz.Stats.QuestionStats["q1"] = QuestionStats{Attempts: 1, Correct: 1, Answers: map[int]int{0: 1}}

	clone := quiz.Stats.Clone()
	cloned := clone.QuestionStats["q1"]
	cloned.Answers[0] = 99
	clone.QuestionStats["q1"] = cloned

	assert.Equal(t, 1, quiz.Stats.QuestionStats["q1"].Answers[0])
}

func TestAnswerValue_UnmarshalJSON(t *testing.T) {
	t.Run("одиночный индекс", func(t *testing.T) {
		var a AnswerValue
		require.NoError(t, json.Unmarshal([]byte(`2`), &a))
		assert.Equal(t, AnswerValue{2}, a)
	})

	t.Run("массив индексов", func(t *testing.T) {
		var a AnswerValue
		require.NoError(t, json.Unmarshal([]byte(`[0, 2]`), &a))
		assert.Equal(t, AnswerValue{0, 2}, a)
	})

	t.Run("пустой массив — отправленный пустой выбор", func(t *testing.T) {
		var a AnswerValue
		require.NoError(t, json.Unmarshal([]byte(`[]`), &a))
		assert.Empty(t, a)
		assert.NotNil(t, a.Indexes())
	})

	t.Run("строка — ошибка", func(t *testing.T) {
		var a AnswerValue
		assert.Error(t, json.Unmarshal([]byte(`"bad"`), &a))
	})
}

func TestUserAnswers_SkippedVersusEmpty(t *testing.T) {
	var answers UserAnswers
	require.NoError(t, json.Unmarshal([]byte(`{"q1": [], "q2": 1}`), &answers))

	// q1 отправлен с пустым выбором, q3 пропущен
	v, ok := answers["q1"]
	require.True(t, ok)
	assert.Empty(t, v)

	_, ok = answers["q3"]
	assert.False(t, ok)
}

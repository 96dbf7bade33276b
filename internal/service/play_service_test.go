package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
)

func playableQuiz() *entity.Quiz {
	quiz := &entity.Quiz{
		ID:        "quiz-1",
		CreatorID: "author",
		Title:     "Классика кино",
		Category:  entity.CategoryMovies,
		Questions: entity.QuestionList{
			{
				ID:                   "q1",
				Text:                 "Кто снял Криминальное чтиво?",
				Options:              []string{"Тарантино", "Скорсезе", "Финчер"},
				CorrectAnswerIndexes: []int{0},
			},
			{
				ID:                   "q2",
				Text:                 "Какие фильмы сняты по Кингу?",
				Options:              []string{"Оно", "Дюна", "Сияние", "Матрица"},
				CorrectAnswerIndexes: []int{0, 2},
			},
		},
	}
	quiz.ResetStats()
	return quiz
}

func TestScore_SkippedCountsAsIncorrect(t *testing.T) {
	svc := NewPlayService(nil, nil)
	quiz := playableQuiz()

	// Отвечен только первый вопрос
	score := svc.Score(quiz, entity.UserAnswers{"q1": {0}})
	assert.Equal(t, 1, score)

	// Оба верно, порядок мультивыбора не важен
	score = svc.Score(quiz, entity.UserAnswers{"q1": {0}, "q2": {2, 0}})
	assert.Equal(t, 2, score)

	// Пустой мультивыбор неверен
	score = svc.Score(quiz, entity.UserAnswers{"q2": {}})
	assert.Equal(t, 0, score)
}

func TestAccumulateQuestionStats(t *testing.T) {
	quiz := playableQuiz()
	question := &quiz.Questions[1]
	initial := entity.QuestionStats{Attempts: 3, Correct: 1, Answers: map[int]int{0: 3, 2: 1}}

	updated := accumulateQuestionStats(initial, question, entity.AnswerValue{0, 2})

	assert.Equal(t, 4, updated.Attempts)
	assert.Equal(t, 2, updated.Correct)
	assert.Equal(t, 4, updated.Answers[0])
	assert.Equal(t, 2, updated.Answers[2])

	// Исходная структура не тронута
	assert.Equal(t, 3, initial.Attempts)
	assert.Equal(t, 3, initial.Answers[0])
}

func TestAccumulateQuestionStats_IncorrectAnswer(t *testing.T) {
	quiz := playableQuiz()
	question := &quiz.Questions[0]

	updated := accumulateQuestionStats(entity.QuestionStats{}, question, entity.AnswerValue{1})

	assert.Equal(t, 1, updated.Attempts)
	assert.Equal(t, 0, updated.Correct)
	assert.Equal(t, 1, updated.Answers[1])
}

// Сценарий: первая игра аутентифицированного пользователя
func TestFinishPlay_FirstPlay(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	recordRepo := new(MockPlayRecordRepo)
	svc := NewPlayService(quizRepo, recordRepo)
	quiz := playableQuiz()

	quizRepo.On("RecordPlay", "quiz-1", "user-1", mock.Anything, mock.Anything).Return(true, nil)
	recordRepo.On("Create", mock.Anything).Return(nil)

	updated, record, err := svc.FinishPlay(quiz, entity.UserAnswers{"q1": {0}, "q2": {1}}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Stats.TotalPlays)
	assert.Equal(t, 1, updated.Stats.TotalCorrectAnswers)
	assert.True(t, updated.HasPlayed("user-1"))
	assert.Equal(t, 1, updated.Stats.QuestionStats["q1"].Correct)
	assert.Equal(t, 0, updated.Stats.QuestionStats["q2"].Correct)

	assert.Equal(t, 1, record.Score)
	assert.Equal(t, 2, record.TotalQuestions)

	// Исходная викторина не мутируется (copy-on-write)
	assert.Equal(t, 0, quiz.Stats.TotalPlays)
	assert.False(t, quiz.HasPlayed("user-1"))

	quizRepo.AssertExpectations(t)
	recordRepo.AssertExpectations(t)
}

// Сценарий: повторная игра — статистика не мутируется, журнал пополняется
func TestFinishPlay_DuplicateIsNoOp(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	recordRepo := new(MockPlayRecordRepo)
	svc := NewPlayService(quizRepo, recordRepo)

	quiz := playableQuiz()
	quiz.PlayedBy = entity.StringArray{"user-1"}
	quiz.Stats.TotalPlays = 1

	recordRepo.On("Create", mock.Anything).Return(nil)

	updated, record, err := svc.FinishPlay(quiz, entity.UserAnswers{"q1": {0}}, "user-1")
	require.NoError(t, err)

	// Определенный no-op: счетчики не изменились
	assert.Equal(t, 1, updated.Stats.TotalPlays)
	assert.NotNil(t, record)

	// RecordPlay не вызывался вовсе
	quizRepo.AssertNotCalled(t, "RecordPlay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	recordRepo.AssertExpectations(t)
}

// Сценарий: неаутентифицированная игра — результат без персиста
func TestFinishPlay_AnonymousDoesNotPersist(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	recordRepo := new(MockPlayRecordRepo)
	svc := NewPlayService(quizRepo, recordRepo)
	quiz := playableQuiz()

	updated, record, err := svc.FinishPlay(quiz, entity.UserAnswers{"q1": {0}}, "")
	require.NoError(t, err)

	assert.Equal(t, 1, record.Score)
	assert.Equal(t, 0, updated.Stats.TotalPlays)

	quizRepo.AssertNotCalled(t, "RecordPlay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	recordRepo.AssertNotCalled(t, "Create", mock.Anything)
}

// Ответ на вопрос, удаленный конкурирующим редактированием, молча пропускается
func TestFinishPlay_StaleQuestionIgnored(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	recordRepo := new(MockPlayRecordRepo)
	svc := NewPlayService(quizRepo, recordRepo)
	quiz := playableQuiz()

	quizRepo.On("RecordPlay", "quiz-1", "user-1", mock.Anything, mock.Anything).Return(true, nil)
	recordRepo.On("Create", mock.Anything).Return(nil)

	updated, record, err := svc.FinishPlay(quiz, entity.UserAnswers{
		"q1":      {0},
		"deleted": {1},
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, record.Score)
	_, exists := updated.Stats.QuestionStats["deleted"]
	assert.False(t, exists)
}

// Конкурирующий дубликат успел первым: guard в БД вернул false
func TestFinishPlay_ConcurrentDuplicate(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	recordRepo := new(MockPlayRecordRepo)
	svc := NewPlayService(quizRepo, recordRepo)
	quiz := playableQuiz()

	quizRepo.On("RecordPlay", "quiz-1", "user-1", mock.Anything, mock.Anything).Return(false, nil)
	recordRepo.On("Create", mock.Anything).Return(nil)

	updated, record, err := svc.FinishPlay(quiz, entity.UserAnswers{"q1": {0}}, "user-1")
	require.NoError(t, err)

	// Возвращается исходное состояние, не наше обновление
	assert.Equal(t, 0, updated.Stats.TotalPlays)
	assert.NotNil(t, record)
	recordRepo.AssertExpectations(t)
}

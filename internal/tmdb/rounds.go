package tmdb

import (
	"fmt"
	"math/rand"

	"github.com/yourusername/cinetrivia-api/internal/domain/entity"
	apperrors "github.com/yourusername/cinetrivia-api/internal/pkg/errors"
)

// Бюджеты перебора: раунд собирается из ограниченного числа страниц,
// исчерпание бюджета — ErrRoundUnavailable (повторяемая ошибка)
const (
	maxPageAttempts = 5
	maxDiscoverPage = 20
	optionsPerRound = 4

	// Минимальная разница оценок для дуэли рейтингов: слишком близкие
	// пары делают вопрос угадайкой
	minRatingGap = 0.3
)

// TitleSource — источник данных TMDB (реализуется Client)
type TitleSource interface {
	DiscoverMovies(genre string, page int) ([]Title, error)
	DiscoverTV(genre string, page int) ([]Title, error)
	MovieCredits(movieID int) (*Credits, error)
	TVCredits(tvID int) (*Credits, error)
	TVSeasons(tvID int) ([]Season, error)
}

// Round — автогенерируемый раунд игры. Грейдинг выполняется на клиенте,
// поэтому правильный индекс входит в ответ.
type Round struct {
	Game         string   `json:"game"`
	Genre        string   `json:"genre"`
	Prompt       string   `json:"prompt"`
	ImageURL     string   `json:"image_url,omitempty"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	TitleID      int      `json:"title_id"`
}

// RoundService собирает раунды автогенерируемых игр из данных TMDB
type RoundService struct {
	source TitleSource
}

// NewRoundService создает сервис раундов
func NewRoundService(source TitleSource) *RoundService {
	return &RoundService{source: source}
}

// NextRound возвращает следующий раунд игры. exclude содержит TMDB-ID,
// уже использованные в текущей сессии игры.
func (s *RoundService) NextRound(game, genre string, exclude map[int]bool) (*Round, error) {
	if !entity.IsValidGame(game) {
		return nil, fmt.Errorf("%w: unknown game %q", apperrors.ErrValidation, game)
	}
	if !entity.IsValidGenre(genre) {
		return nil, fmt.Errorf("%w: unknown genre %q", apperrors.ErrValidation, genre)
	}
	if exclude == nil {
		exclude = map[int]bool{}
	}

	switch game {
	case entity.GameMovieQuiz:
		return s.identificationRound(game, genre, false, exclude)
	case entity.GameSeriesQuiz:
		return s.identificationRound(game, genre, true, exclude)
	case entity.GameDescriptionQuiz:
		return s.descriptionRound(game, genre, false, exclude)
	case entity.GameSeriesDescriptionQuiz:
		return s.descriptionRound(game, genre, true, exclude)
	case entity.GameMovieRatingGame:
		return s.ratingDuelRound(game, genre, exclude)
	case entity.GameSeriesSeasonRatingGame:
		return s.seasonDuelRound(game, genre, exclude)
	case entity.GameYearQuiz:
		return s.yearRound(game, genre, exclude)
	case entity.GameDirectorQuiz:
		return s.directorRound(game, genre, exclude)
	case entity.GameActorQuiz:
		return s.actorRound(game, genre, false, exclude)
	case entity.GameSeriesActorQuiz:
		return s.actorRound(game, genre, true, exclude)
	}
	return nil, fmt.Errorf("%w: unknown game %q", apperrors.ErrValidation, game)
}

// discover возвращает случайную страницу фильмов или сериалов
func (s *RoundService) discover(genre string, tv bool) ([]Title, error) {
	page := rand.Intn(maxDiscoverPage) + 1
	if tv {
		return s.source.DiscoverTV(genre, page)
	}
	return s.source.DiscoverMovies(genre, page)
}

// collectTitles набирает need подходящих записей, перебирая случайные
// страницы в пределах бюджета
func (s *RoundService) collectTitles(genre string, tv bool, exclude map[int]bool, need int, valid func(Title) bool) ([]Title, error) {
	collected := make([]Title, 0, need)
	seenNames := map[string]bool{}

	for attempt := 0; attempt < maxPageAttempts && len(collected) < need; attempt++ {
		titles, err := s.discover(genre, tv)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrRoundUnavailable, err)
		}
		for _, t := range titles {
			if len(collected) >= need {
				break
			}
			if t.Name == "" || exclude[t.ID] || seenNames[t.Name] {
				continue
			}
			if valid != nil && !valid(t) {
				continue
			}
			collected = append(collected, t)
			seenNames[t.Name] = true
		}
	}

	if len(collected) < need {
		return nil, fmt.Errorf("%w: not enough candidates for round", apperrors.ErrRoundUnavailable)
	}
	return collected, nil
}

// assembleOptions перемешивает правильный ответ с дистракторами
func assembleOptions(correct string, distractors []string) ([]string, int) {
	options := append([]string{correct}, distractors...)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	for i, opt := range options {
		if opt == correct {
			return options, i
		}
	}
	return options, 0
}

func hasImage(t Title) bool {
	return t.BackdropPath != "" || t.PosterPath != ""
}

func roundImage(t Title) string {
	if t.BackdropPath != "" {
		return t.BackdropURL()
	}
	return t.PosterURL()
}

// identificationRound: угадать название по кадру
func (s *RoundService) identificationRound(game, genre string, tv bool, exclude map[int]bool) (*Round, error) {
	titles, err := s.collectTitles(genre, tv, exclude, optionsPerRound, hasImage)
	if err != nil {
		return nil, err
	}

	correct := titles[0]
	distractors := make([]string, 0, optionsPerRound-1)
	for _, t := range titles[1:] {
		distractors = append(distractors, t.Name)
	}
	options, correctIndex := assembleOptions(correct.Name, distractors)

	prompt := "Какой фильм на кадре?"
	if tv {
		prompt = "Какой сериал на кадре?"
	}
	return &Round{
		Game:         game,
		Genre:        genre,
		Prompt:       prompt,
		ImageURL:     roundImage(correct),
		Options:      options,
		CorrectIndex: correctIndex,
		TitleID:      correct.ID,
	}, nil
}

// descriptionRound: угадать название по описанию
func (s *RoundService) descriptionRound(game, genre string, tv bool, exclude map[int]bool) (*Round, error) {
	titles, err := s.collectTitles(genre, tv, exclude, optionsPerRound, func(t Title) bool {
		return t.Overview != ""
	})
	if err != nil {
		return nil, err
	}

	correct := titles[0]
	distractors := make([]string, 0, optionsPerRound-1)
	for _, t := range titles[1:] {
		distractors = append(distractors, t.Name)
	}
	options, correctIndex := assembleOptions(correct.Name, distractors)

	return &Round{
		Game:         game,
		Genre:        genre,
		Prompt:       correct.Overview,
		Options:      options,
		CorrectIndex: correctIndex,
		TitleID:      correct.ID,
	}, nil
}

// ratingDuelRound: какой из двух фильмов оценен выше
func (s *RoundService) ratingDuelRound(game, genre string, exclude map[int]bool) (*Round, error) {
	candidates, err := s.collectTitles(genre, false, exclude, optionsPerRound*2, func(t Title) bool {
		return t.VoteAverage > 0
	})
	if err != nil {
		return nil, err
	}

	// Ищем пару с достаточным разрывом оценок
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			gap := a.VoteAverage - b.VoteAverage
			if gap < 0 {
				gap = -gap
			}
			if gap < minRatingGap {
				continue
			}
			higher := a
			if b.VoteAverage > a.VoteAverage {
				higher = b
			}
			options, correctIndex := assembleOptions(higher.Name, []string{other(a, b, higher).Name})
			return &Round{
				Game:         game,
				Genre:        genre,
				Prompt:       "Какой фильм зрители оценили выше?",
				Options:      options,
				CorrectIndex: correctIndex,
				TitleID:      higher.ID,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: no title pair with rating gap >= %.1f", apperrors.ErrRoundUnavailable, minRatingGap)
}

func other(a, b, picked Title) Title {
	if picked.ID == a.ID {
		return b
	}
	return a
}

// seasonDuelRound: какой сезон сериала оценен выше
func (s *RoundService) seasonDuelRound(game, genre string, exclude map[int]bool) (*Round, error) {
	candidates, err := s.collectTitles(genre, true, exclude, optionsPerRound, nil)
	if err != nil {
		return nil, err
	}

	for _, title := range candidates {
		seasons, err := s.source.TVSeasons(title.ID)
		if err != nil {
			continue
		}
		rated := make([]Season, 0, len(seasons))
		for _, season := range seasons {
			// Спецвыпуски (season 0) в дуэли не участвуют
			if season.SeasonNumber > 0 && season.VoteAverage > 0 {
				rated = append(rated, season)
			}
		}
		for i := 0; i < len(rated); i++ {
			for j := i + 1; j < len(rated); j++ {
				a, b := rated[i], rated[j]
				gap := a.VoteAverage - b.VoteAverage
				if gap < 0 {
					gap = -gap
				}
				if gap < minRatingGap {
					continue
				}
				higher, lower := a, b
				if b.VoteAverage > a.VoteAverage {
					higher, lower = b, a
				}
				correct := fmt.Sprintf("%s — сезон %d", title.Name, higher.SeasonNumber)
				distractor := fmt.Sprintf("%s — сезон %d", title.Name, lower.SeasonNumber)
				options, correctIndex := assembleOptions(correct, []string{distractor})
				return &Round{
					Game:         game,
					Genre:        genre,
					Prompt:       "Какой сезон зрители оценили выше?",
					ImageURL:     roundImage(title),
					Options:      options,
					CorrectIndex: correctIndex,
					TitleID:      title.ID,
				}, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no series with rateable season pair", apperrors.ErrRoundUnavailable)
}

// yearRound: угадать год выхода фильма
func (s *RoundService) yearRound(game, genre string, exclude map[int]bool) (*Round, error) {
	titles, err := s.collectTitles(genre, false, exclude, optionsPerRound*2, func(t Title) bool {
		return hasImage(t) && t.ReleaseYear() > 0
	})
	if err != nil {
		return nil, err
	}

	correct := titles[0]
	correctYear := correct.ReleaseYear()
	seenYears := map[int]bool{correctYear: true}
	distractors := make([]string, 0, optionsPerRound-1)
	for _, t := range titles[1:] {
		year := t.ReleaseYear()
		if seenYears[year] {
			continue
		}
		seenYears[year] = true
		distractors = append(distractors, fmt.Sprintf("%d", year))
		if len(distractors) == optionsPerRound-1 {
			break
		}
	}
	if len(distractors) < optionsPerRound-1 {
		return nil, fmt.Errorf("%w: not enough distinct release years", apperrors.ErrRoundUnavailable)
	}

	options, correctIndex := assembleOptions(fmt.Sprintf("%d", correctYear), distractors)
	return &Round{
		Game:         game,
		Genre:        genre,
		Prompt:       fmt.Sprintf("В каком году вышел фильм «%s»?", correct.Name),
		ImageURL:     roundImage(correct),
		Options:      options,
		CorrectIndex: correctIndex,
		TitleID:      correct.ID,
	}, nil
}

// directorRound: угадать режиссера фильма
func (s *RoundService) directorRound(game, genre string, exclude map[int]bool) (*Round, error) {
	titles, err := s.collectTitles(genre, false, exclude, optionsPerRound*2, hasImage)
	if err != nil {
		return nil, err
	}

	var correct Title
	var correctDirector string
	seen := map[string]bool{}
	distractors := make([]string, 0, optionsPerRound-1)

	for _, t := range titles {
		credits, err := s.source.MovieCredits(t.ID)
		if err != nil {
			continue
		}
		director := credits.Director()
		if director == "" || seen[director] {
			continue
		}
		seen[director] = true
		if correctDirector == "" {
			correct = t
			correctDirector = director
			continue
		}
		distractors = append(distractors, director)
		if len(distractors) == optionsPerRound-1 {
			break
		}
	}

	if correctDirector == "" || len(distractors) < optionsPerRound-1 {
		return nil, fmt.Errorf("%w: not enough distinct directors", apperrors.ErrRoundUnavailable)
	}

	options, correctIndex := assembleOptions(correctDirector, distractors)
	return &Round{
		Game:         game,
		Genre:        genre,
		Prompt:       fmt.Sprintf("Кто снял фильм «%s»?", correct.Name),
		ImageURL:     roundImage(correct),
		Options:      options,
		CorrectIndex: correctIndex,
		TitleID:      correct.ID,
	}, nil
}

// actorRound: угадать актера из состава фильма или сериала
func (s *RoundService) actorRound(game, genre string, tv bool, exclude map[int]bool) (*Round, error) {
	titles, err := s.collectTitles(genre, tv, exclude, optionsPerRound*2, hasImage)
	if err != nil {
		return nil, err
	}

	credits := func(id int) (*Credits, error) {
		if tv {
			return s.source.TVCredits(id)
		}
		return s.source.MovieCredits(id)
	}

	var correct Title
	var correctActor string
	seen := map[string]bool{}
	distractors := make([]string, 0, optionsPerRound-1)

	for _, t := range titles {
		cr, err := credits(t.ID)
		if err != nil || len(cr.Cast) == 0 {
			continue
		}
		actor := cr.Cast[0].Name
		if actor == "" || seen[actor] {
			continue
		}
		seen[actor] = true
		if correctActor == "" {
			correct = t
			correctActor = actor
			continue
		}
		distractors = append(distractors, actor)
		if len(distractors) == optionsPerRound-1 {
			break
		}
	}

	if correctActor == "" || len(distractors) < optionsPerRound-1 {
		return nil, fmt.Errorf("%w: not enough distinct actors", apperrors.ErrRoundUnavailable)
	}

	kind := "фильме"
	if tv {
		kind = "сериале"
	}
	options, correctIndex := assembleOptions(correctActor, distractors)
	return &Round{
		Game:         game,
		Genre:        genre,
		Prompt:       fmt.Sprintf("Кто сыграл главную роль в %s «%s»?", kind, correct.Name),
		ImageURL:     roundImage(correct),
		Options:      options,
		CorrectIndex: correctIndex,
		TitleID:      correct.ID,
	}, nil
}

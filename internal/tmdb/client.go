package tmdb

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yourusername/cinetrivia-api/internal/domain/repository"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w500"

	// Страницы discover стабильны, кешируем надолго
	pageCacheTTL = 6 * time.Hour
)

// Идентификаторы жанров TMDB. У фильмов и сериалов разные таксономии:
// сериальные ужасы живут в Sci-Fi & Fantasy.
var (
	movieGenreIDs = map[string]int{
		"HORROR": 27,
		"COMEDY": 35,
	}
	tvGenreIDs = map[string]int{
		"HORROR": 10765,
		"COMEDY": 35,
	}
)

// Title — запись фильма или сериала из discover
type Title struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
}

// PosterURL возвращает полный URL постера
func (t Title) PosterURL() string {
	if t.PosterPath == "" {
		return ""
	}
	return imageBaseURL + t.PosterPath
}

// BackdropURL возвращает полный URL кадра
func (t Title) BackdropURL() string {
	if t.BackdropPath == "" {
		return ""
	}
	return imageBaseURL + t.BackdropPath
}

// ReleaseYear возвращает год выхода или 0
func (t Title) ReleaseYear() int {
	if len(t.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(t.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// CastMember — актер из credits
type CastMember struct {
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember — участник съемочной группы из credits
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits — состав фильма или сериала
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Director возвращает имя режиссера или пустую строку
func (c *Credits) Director() string {
	for _, member := range c.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

// Season — сезон сериала
type Season struct {
	SeasonNumber int     `json:"season_number"`
	Name         string  `json:"name"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
}

// Client — HTTP-клиент TMDB с кешированием страниц в Redis
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	cache      repository.CacheRepository
}

// NewClient создает клиент TMDB
func NewClient(apiKey, language string, cache repository.CacheRepository) *Client {
	if language == "" {
		language = "ru-RU"
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		language:   language,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
	}
}

// get выполняет запрос к TMDB с прозрачным кешем на уровне ответа
func (c *Client) get(path string, params url.Values, dest interface{}) error {
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	cacheKey := "tmdb:" + path + "?" + params.Encode()
	if c.cache != nil {
		if err := c.cache.GetJSON(cacheKey, dest); err == nil {
			return nil
		}
	}

	requestURL := c.baseURL + path + "?" + params.Encode()
	resp, err := c.httpClient.Get(requestURL)
	if err != nil {
		return fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tmdb responded %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode tmdb response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(cacheKey, dest, pageCacheTTL); err != nil {
			log.Printf("[TMDB] Не удалось закешировать ответ %s: %v", path, err)
		}
	}
	return nil
}

type discoverMovieResponse struct {
	Page    int `json:"page"`
	Results []struct {
		ID           int     `json:"id"`
		Title        string  `json:"title"`
		Overview     string  `json:"overview"`
		PosterPath   string  `json:"poster_path"`
		BackdropPath string  `json:"backdrop_path"`
		ReleaseDate  string  `json:"release_date"`
		VoteAverage  float64 `json:"vote_average"`
		VoteCount    int     `json:"vote_count"`
	} `json:"results"`
	TotalPages int `json:"total_pages"`
}

type discoverTVResponse struct {
	Page    int `json:"page"`
	Results []struct {
		ID           int     `json:"id"`
		Name         string  `json:"name"`
		Overview     string  `json:"overview"`
		PosterPath   string  `json:"poster_path"`
		BackdropPath string  `json:"backdrop_path"`
		FirstAirDate string  `json:"first_air_date"`
		VoteAverage  float64 `json:"vote_average"`
		VoteCount    int     `json:"vote_count"`
	} `json:"results"`
	TotalPages int `json:"total_pages"`
}

// DiscoverMovies возвращает страницу популярных фильмов жанра
func (c *Client) DiscoverMovies(genre string, page int) ([]Title, error) {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("vote_count.gte", "200")
	params.Set("page", strconv.Itoa(page))
	if id, ok := movieGenreIDs[genre]; ok {
		params.Set("with_genres", strconv.Itoa(id))
	}

	var resp discoverMovieResponse
	if err := c.get("/discover/movie", params, &resp); err != nil {
		return nil, err
	}

	titles := make([]Title, 0, len(resp.Results))
	for _, r := range resp.Results {
		titles = append(titles, Title{
			ID:           r.ID,
			Name:         r.Title,
			Overview:     r.Overview,
			PosterPath:   r.PosterPath,
			BackdropPath: r.BackdropPath,
			ReleaseDate:  r.ReleaseDate,
			VoteAverage:  r.VoteAverage,
			VoteCount:    r.VoteCount,
		})
	}
	return titles, nil
}

// DiscoverTV возвращает страницу популярных сериалов жанра
func (c *Client) DiscoverTV(genre string, page int) ([]Title, error) {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("vote_count.gte", "100")
	params.Set("page", strconv.Itoa(page))
	if id, ok := tvGenreIDs[genre]; ok {
		params.Set("with_genres", strconv.Itoa(id))
	}

	var resp discoverTVResponse
	if err := c.get("/discover/tv", params, &resp); err != nil {
		return nil, err
	}

	titles := make([]Title, 0, len(resp.Results))
	for _, r := range resp.Results {
		titles = append(titles, Title{
			ID:           r.ID,
			Name:         r.Name,
			Overview:     r.Overview,
			PosterPath:   r.PosterPath,
			BackdropPath: r.BackdropPath,
			ReleaseDate:  r.FirstAirDate,
			VoteAverage:  r.VoteAverage,
			VoteCount:    r.VoteCount,
		})
	}
	return titles, nil
}

// MovieCredits возвращает состав фильма
func (c *Client) MovieCredits(movieID int) (*Credits, error) {
	var credits Credits
	if err := c.get(fmt.Sprintf("/movie/%d/credits", movieID), url.Values{}, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// TVCredits возвращает состав сериала
func (c *Client) TVCredits(tvID int) (*Credits, error) {
	var credits Credits
	if err := c.get(fmt.Sprintf("/tv/%d/credits", tvID), url.Values{}, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

type tvDetailsResponse struct {
	Seasons []Season `json:"seasons"`
}

// TVSeasons возвращает сезоны сериала (без спецвыпусков)
func (c *Client) TVSeasons(tvID int) ([]Season, error) {
	var resp tvDetailsResponse
	if err := c.get(fmt.Sprintf("/tv/%d", tvID), url.Values{}, &resp); err != nil {
		return nil, err
	}
	seasons := make([]Season, 0, len(resp.Seasons))
	for _, s := range resp.Seasons {
		if s.SeasonNumber > 0 {
			seasons = append(seasons, s)
		}
	}
	return seasons, nil
}

package store

import (
	"fmt"
	"strings"
)

// Card is a denormalized row shared by every list-returning read path (home
// rails, browse pages, search results), so the caller can treat movies and
// series uniformly (§4.4 "uniform card shape" / §8 invariant "card shape is
// identical"). Name is the untranslated base title; locale-aware title
// resolution and logo selection are composed by the assembler, not here.
type Card struct {
	Kind       MediaKind
	ID         int64
	Name       string
	Overview   string
	Date       string // release_date or first_air_date, raw "YYYY-MM-DD" (or "")
	Rating     float64
	Popularity float64
	Poster     string
	Backdrop   string
	Logos      string
}

// Providers lists the streaming services a series' local availability can
// be matched against, in the fixed order home rails display them.
var Providers = []string{"Netflix", "Prime", "Max", "Disney+", "AppleTV", "Paramount"}

// providerNeedles gives the substring(s) matched against a series' networks
// column for each provider; several providers have more than one commonly
// seen label.
var providerNeedles = map[string][]string{
	"Netflix":   {"Netflix"},
	"Prime":     {"Prime"},
	"Max":       {"Max"},
	"Disney+":   {"Disney+", "Disney"},
	"AppleTV":   {"Apple TV", "AppleTV", "Apple TV+"},
	"Paramount": {"Paramount", "Paramount+"},
}

// HomeGenre is one labeled shelf on the home page, keyed by a short display
// name and matched against one or more genre labels.
type HomeGenre struct {
	Key     string
	Needles []string
}

// HomeGenres lists the home page's genre shelves in display order.
var HomeGenres = []HomeGenre{
	{"Comedy", []string{"Comedy"}},
	{"Action", []string{"Action"}},
	{"Horror", []string{"Horror"}},
	{"Romance", []string{"Romance"}},
	{"SciFi", []string{"Science Fiction", "Sci-Fi & Fantasy", "Sci-Fi"}},
	{"Drama", []string{"Drama"}},
	{"Animation", []string{"Animation"}},
}

// BrowseMode is the ordering/filtering strategy a browse tab maps to.
type BrowseMode string

const (
	BrowseModePopular BrowseMode = "popular"
	BrowseModeRating  BrowseMode = "rating"
	BrowseModeRecent  BrowseMode = "recent"
	BrowseModeGenre   BrowseMode = "genre"
)

// BrowseTab describes how one browse tab slug resolves to a mode and,
// for genre tabs, the genre label to filter on.
type BrowseTab struct {
	Mode BrowseMode
	Arg  string
}

// BrowseTabs is the fixed set of recognized browse tab slugs.
var BrowseTabs = map[string]BrowseTab{
	"popular":          {BrowseModePopular, ""},
	"rating":           {BrowseModeRating, ""},
	"recent":           {BrowseModeRecent, ""},
	"action":           {BrowseModeGenre, "Action"},
	"adventure":        {BrowseModeGenre, "Adventure"},
	"animation":        {BrowseModeGenre, "Animation"},
	"comedy":           {BrowseModeGenre, "Comedy"},
	"crime":            {BrowseModeGenre, "Crime"},
	"documentary":      {BrowseModeGenre, "Documentary"},
	"drama":            {BrowseModeGenre, "Drama"},
	"family":           {BrowseModeGenre, "Family"},
	"fantasy":          {BrowseModeGenre, "Fantasy"},
	"history":          {BrowseModeGenre, "History"},
	"horror":           {BrowseModeGenre, "Horror"},
	"music":            {BrowseModeGenre, "Music"},
	"mystery":          {BrowseModeGenre, "Mystery"},
	"romance":          {BrowseModeGenre, "Romance"},
	"science-fiction":  {BrowseModeGenre, "Science Fiction"},
	"tv-movie":         {BrowseModeGenre, "TV Movie"},
	"thriller":         {BrowseModeGenre, "Thriller"},
	"war":              {BrowseModeGenre, "War"},
	"western":          {BrowseModeGenre, "Western"},
}

func scanCards(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]Card, error) {
	var out []Card
	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.Kind, &c.Name, &c.Overview, &c.Date, &c.Rating, &c.Popularity, &c.Poster, &c.Backdrop, &c.Logos); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListPopularMovies returns up to limit movies ordered by popularity
// descending, used for the home page's fallback rails (§"supplemented
// features": a Provider-less or empty Provider result falls back here).
func (s *Store) ListPopularMovies(limit int) ([]Card, error) {
	rows, err := s.db.Query(`
		SELECT id, 'movie', title, overview, release_date, vote_average, popularity, poster, backdrop, logos
		FROM movies ORDER BY COALESCE(popularity, 0) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list popular movies: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

// ListPopularSeries is ListPopularMovies' series counterpart.
func (s *Store) ListPopularSeries(limit int) ([]Card, error) {
	rows, err := s.db.Query(`
		SELECT id, 'series', name, overview, first_air_date, vote_average, popularity, poster, backdrop, logos
		FROM series ORDER BY COALESCE(popularity, 0) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list popular series: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

// ListSeriesOnProvider returns up to limit series whose networks field
// matches one of provider's needles, ordered by popularity descending
// (§4.4.1 "available on <provider>" rails).
func (s *Store) ListSeriesOnProvider(provider string, limit int) ([]Card, error) {
	needles := providerNeedles[provider]
	if len(needles) == 0 {
		needles = []string{provider}
	}
	clauses := make([]string, len(needles))
	args := make([]any, 0, len(needles)+1)
	for i, n := range needles {
		clauses[i] = "COALESCE(networks, '') LIKE ?"
		args = append(args, "%"+n+"%")
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, 'series', name, overview, first_air_date, vote_average, popularity, poster, backdrop, logos
		FROM series WHERE %s ORDER BY COALESCE(popularity, 0) DESC LIMIT ?`, strings.Join(clauses, " OR "))
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list series on provider %s: %w", provider, err)
	}
	defer rows.Close()
	return scanCards(rows)
}

// topRated fetches the top-48-by-rating rows from table, then re-orders
// those down to the 12 with the highest vote count (§4.4.1 "top_rated":
// rating picks the candidates, vote count orders the result).
func topRated(q querier, table, nameCol, dateCol, kind string) ([]Card, error) {
	query := fmt.Sprintf(`
		SELECT id, '%s', %s, overview, %s, vote_average, popularity, poster, backdrop, logos FROM (
			SELECT * FROM %s ORDER BY COALESCE(vote_average, 0) DESC LIMIT 48
		) ORDER BY COALESCE(vote_count, 0) DESC LIMIT 12`, kind, nameCol, dateCol, table)
	rows, err := q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("top rated %s: %w", table, err)
	}
	defer rows.Close()
	return scanCards(rows)
}

// ListTopRatedMovies implements the movies half of §4.4.1's top_rated rail.
func (s *Store) ListTopRatedMovies() ([]Card, error) {
	return topRated(s.db, "movies", "title", "release_date", "movie")
}

// ListTopRatedSeries implements the series half of §4.4.1's top_rated rail.
func (s *Store) ListTopRatedSeries() ([]Card, error) {
	return topRated(s.db, "series", "name", "first_air_date", "series")
}

// ListByGenreEdges returns up to limit cards across both movies and series
// whose normalized genre edges match any of names, ordered by popularity
// descending. Used once genre_edges has been populated by ingestion.
func (s *Store) ListByGenreEdges(names []string, limit int) ([]Card, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ph := placeholders(len(names))
	query := fmt.Sprintf(`
		SELECT DISTINCT id, kind, name, overview, dt, rating, pop, poster, backdrop, logos FROM (
			SELECT m.id id, 'movie' kind, m.title name, m.overview overview, m.release_date dt, m.vote_average rating,
			       COALESCE(m.popularity, 0) pop, m.poster poster, m.backdrop backdrop, m.logos logos
			FROM movies m
			JOIN genre_edges ge ON ge.media_kind = 'movie' AND ge.id = m.id
			JOIN genres g ON g.media_kind = 'movie' AND g.genre_id = ge.genre_id
			WHERE g.name IN (%s)
			UNION ALL
			SELECT s.id id, 'series' kind, s.name name, s.overview overview, s.first_air_date dt, s.vote_average rating,
			       COALESCE(s.popularity, 0) pop, s.poster poster, s.backdrop backdrop, s.logos logos
			FROM series s
			JOIN genre_edges ge ON ge.media_kind = 'series' AND ge.id = s.id
			JOIN genres g ON g.media_kind = 'series' AND g.genre_id = ge.genre_id
			WHERE g.name IN (%s)
		)
		ORDER BY COALESCE(pop, 0) DESC
		LIMIT ?`, ph, ph)

	args := make([]any, 0, len(names)*2+1)
	for _, n := range names {
		args = append(args, n)
	}
	for _, n := range names {
		args = append(args, n)
	}
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by genre edges: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

// ListByGenreSubstring is the legacy fallback for ListByGenreEdges, matching
// against the free-text genres column instead of the normalized edge
// tables; used when HasGenreEdges reports false (pre-backfill titles).
func (s *Store) ListByGenreSubstring(names []string, limit int) ([]Card, error) {
	if len(names) == 0 {
		return nil, nil
	}
	clauses := make([]string, len(names))
	movieArgs := make([]any, 0, len(names))
	seriesArgs := make([]any, 0, len(names))
	for i, n := range names {
		clauses[i] = "COALESCE(genres, '') LIKE ?"
		movieArgs = append(movieArgs, "%"+n+"%")
		seriesArgs = append(seriesArgs, "%"+n+"%")
	}
	where := strings.Join(clauses, " OR ")

	query := fmt.Sprintf(`
		SELECT id, kind, name, overview, dt, rating, pop, poster, backdrop, logos FROM (
			SELECT id, 'movie' kind, title name, overview overview, release_date dt, vote_average rating,
			       COALESCE(popularity, 0) pop, poster poster, backdrop backdrop, logos logos
			FROM movies WHERE %s
			UNION ALL
			SELECT id, 'series' kind, name name, overview overview, first_air_date dt, vote_average rating,
			       COALESCE(popularity, 0) pop, poster poster, backdrop backdrop, logos logos
			FROM series WHERE %s
		)
		ORDER BY COALESCE(pop, 0) DESC
		LIMIT ?`, where, where)

	args := append(append([]any{}, movieArgs...), seriesArgs...)
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by genre substring: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

// BrowsePage is one paginated page of a browse tab.
type BrowsePage struct {
	Items   []Card
	HasMore bool
}

var browseOrderBy = map[BrowseMode]string{
	BrowseModePopular: "COALESCE(pop, 0) DESC",
	BrowseModeRating:  "COALESCE(rating, 0) DESC, COALESCE(pop, 0) DESC",
	BrowseModeRecent:  "COALESCE(dt, '') DESC, COALESCE(pop, 0) DESC",
	BrowseModeGenre:   "COALESCE(pop, 0) DESC",
}

// Browse returns one page of tab's catalog, overfetching by one row beyond
// pageSize to compute HasMore without a second count query (§4.4.3
// pagination: LIMIT pageSize+1, truncate, has_more = len(rows) > pageSize).
func (s *Store) Browse(tab BrowseTab, page, pageSize int) (*BrowsePage, error) {
	limit := pageSize + 1
	offset := (page - 1) * pageSize

	var query string
	var args []any

	if tab.Mode == BrowseModeGenre {
		query = fmt.Sprintf(`
			SELECT DISTINCT id, kind, name, overview, dt, rating, pop, poster, backdrop, logos FROM (
				SELECT m.id id, 'movie' kind, m.title name, m.overview overview, m.release_date dt, m.vote_average rating,
				       COALESCE(m.popularity, 0) pop, m.poster poster, m.backdrop backdrop, m.logos logos
				FROM movies m
				JOIN genre_edges ge ON ge.media_kind = 'movie' AND ge.id = m.id
				JOIN genres g ON g.media_kind = 'movie' AND g.genre_id = ge.genre_id
				WHERE g.name = ?
				UNION ALL
				SELECT s.id id, 'series' kind, s.name name, s.overview overview, s.first_air_date dt, s.vote_average rating,
				       COALESCE(s.popularity, 0) pop, s.poster poster, s.backdrop backdrop, s.logos logos
				FROM series s
				JOIN genre_edges ge ON ge.media_kind = 'series' AND ge.id = s.id
				JOIN genres g ON g.media_kind = 'series' AND g.genre_id = ge.genre_id
				WHERE g.name = ?
			)
			ORDER BY %s
			LIMIT ? OFFSET ?`, browseOrderBy[tab.Mode])
		args = []any{tab.Arg, tab.Arg, limit, offset}
	} else {
		query = fmt.Sprintf(`
			SELECT id, kind, name, overview, dt, rating, pop, poster, backdrop, logos FROM (
				SELECT id, 'movie' kind, title name, overview overview, release_date dt, vote_average rating,
				       popularity pop, poster poster, backdrop backdrop, logos logos
				FROM movies
				UNION ALL
				SELECT id, 'series' kind, name name, overview overview, first_air_date dt, vote_average rating,
				       popularity pop, poster poster, backdrop backdrop, logos logos
				FROM series
			)
			ORDER BY %s
			LIMIT ? OFFSET ?`, browseOrderBy[tab.Mode])
		args = []any{limit, offset}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("browse %s: %w", tab.Mode, err)
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		return nil, err
	}
	hasMore := len(cards) > pageSize
	if hasMore {
		cards = cards[:pageSize]
	}
	return &BrowsePage{Items: cards, HasMore: hasMore}, nil
}

// Search matches q as a case-insensitive substring against each title's
// base name and overview, falling back to the lang-translated title/
// overview when present, ordered by popularity descending and capped at
// limit (§4.4.4, original's twelve-result cap).
func (s *Store) Search(q, lang string, limit int) ([]Card, error) {
	like := "%" + q + "%"
	query := `
		SELECT id, kind, name, over, dt, rating, pop, poster, backdrop, logos FROM (
			SELECT m.id id, 'movie' kind, COALESCE(tt.title, m.title) name, m.release_date dt,
			       m.vote_average rating, m.popularity pop, m.poster poster, m.backdrop backdrop, m.logos logos,
			       COALESCE(tt.overview, m.overview) over
			FROM movies m
			LEFT JOIN translations tt ON tt.media_kind = 'movie' AND tt.id = m.id AND tt.lang = ?
			UNION ALL
			SELECT s.id id, 'series' kind, COALESCE(tt.title, s.name) name, s.first_air_date dt,
			       s.vote_average rating, s.popularity pop, s.poster poster, s.backdrop backdrop, s.logos logos,
			       COALESCE(tt.overview, s.overview) over
			FROM series s
			LEFT JOIN translations tt ON tt.media_kind = 'series' AND tt.id = s.id AND tt.lang = ?
		)
		WHERE COALESCE(name, '') LIKE ? OR COALESCE(over, '') LIKE ?
		ORDER BY COALESCE(pop, 0) DESC
		LIMIT ?`

	rows, err := s.db.Query(query, lang, lang, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ",")
}

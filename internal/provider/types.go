// Package provider is the rate-limited HTTPS client for the external
// metadata Provider (a TMDB-shaped API): it performs GET-JSON with bounded
// retries and exposes the handful of endpoints the backfill scheduler
// needs (title details, images, videos, credits, translations).
package provider

// TitleDetail is the subset of a /movie/{id} or /tv/{id} response the
// catalog mirrors locally.
type TitleDetail struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Name          string       `json:"name"`
	Overview      string       `json:"overview"`
	VoteAverage   float64      `json:"vote_average"`
	VoteCount     int          `json:"vote_count"`
	ReleaseDate   string       `json:"release_date"`
	FirstAirDate  string       `json:"first_air_date"`
	Popularity    float64      `json:"popularity"`
	PosterPath    string       `json:"poster_path"`
	BackdropPath  string       `json:"backdrop_path"`
	Networks      []Network    `json:"networks"`
	Genres        []Genre      `json:"genres"`
	Seasons       []SeasonInfo `json:"seasons"`
}

// Network is a streaming/broadcast network attached to a series.
type Network struct {
	Name string `json:"name"`
}

// Genre is a Provider genre label keyed by its Provider-assigned id.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SeasonInfo is one season summary embedded in a series' detail payload.
type SeasonInfo struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
}

// SeasonDetail is the /tv/{id}/season/{n} response.
type SeasonDetail struct {
	SeasonNumber int             `json:"season_number"`
	Episodes     []EpisodeDetail `json:"episodes"`
}

// EpisodeDetail is one episode entry within a season's detail payload.
type EpisodeDetail struct {
	EpisodeNumber int     `json:"episode_number"`
	Name          string  `json:"name"`
	Runtime       int     `json:"runtime"`
	StillPath     string  `json:"still_path"`
	VoteAverage   float64 `json:"vote_average"`
}

// ImagesResponse is the /{kind}/{id}/images response: logos keyed by the
// language each image was tagged with.
type ImagesResponse struct {
	Logos []Image `json:"logos"`
}

// Image is one image entry, including the language it was submitted for
// ("" or "null" meaning language-agnostic in Provider terms).
type Image struct {
	FilePath    string `json:"file_path"`
	Iso639_1    string `json:"iso_639_1"`
}

// VideosResponse is the /{kind}/{id}/videos response.
type VideosResponse struct {
	Results []Video `json:"results"`
}

// Video is one trailer/clip entry.
type Video struct {
	Site string `json:"site"`
	Key  string `json:"key"`
	Type string `json:"type"`
}

// CreditsResponse is the /{kind}/{id}/credits response.
type CreditsResponse struct {
	Cast []CastMember `json:"cast"`
}

// CastMember is one acting credit.
type CastMember struct {
	CreditID     string `json:"credit_id"`
	Name         string `json:"name"`
	Character    string `json:"character"`
	Order        int    `json:"order"`
	ProfilePath  string `json:"profile_path"`
}

// TranslationsResponse is the /{kind}/{id}/translations response.
type TranslationsResponse struct {
	Translations []TranslationEntry `json:"translations"`
}

// TranslationEntry is one locale's translated fields.
type TranslationEntry struct {
	Iso639_1 string          `json:"iso_639_1"`
	Iso3166_1 string         `json:"iso_3166_1"`
	Data     TranslationData `json:"data"`
}

// TranslationData holds the actual translated text for one locale.
type TranslationData struct {
	Title    string `json:"title"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
	Tagline  string `json:"tagline"`
	Homepage string `json:"homepage"`
}

// TrendingItem is one entry in the /trending/all/{window} response.
type TrendingItem struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
}

// TrendingResponse is the /trending/all/{window} response envelope.
type TrendingResponse struct {
	Results []TrendingItem `json:"results"`
}

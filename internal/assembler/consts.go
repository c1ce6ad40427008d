package assembler

import "time"

// Cache TTLs from §4.4.1 ("Home-response cache ... TTL 90 minutes") and
// §4.4.2 ("Cached per (kind, id, lang_tag) with TTL 3 days").
const (
	homeCacheTTL     = 90 * time.Minute
	similarCacheTTL  = 3 * 24 * time.Hour
	trendingCacheTTL = 90 * time.Minute
	logoCacheTTL     = 3 * 24 * time.Hour
)

const (
	sliderLimit   = 10
	top10Limit    = 10
	trendingLocal = 30
	seriesOnLimit = 18
	genreLimit    = 18
	topRatedLimit = 12
	similarLimit  = 24
	castLimit     = 24
)

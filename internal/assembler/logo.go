package assembler

import "encoding/json"

// pickLogo implements §4.4's logo selection: the first non-empty value
// among lang, "en", "und", then any value at all; "" if the map is empty
// or unparseable. logosJSON is the raw {lang: path} blob stored on the
// movie/series row (§3 "Logos-by-language maps").
func pickLogo(logosJSON, lang string) string {
	if logosJSON == "" {
		return ""
	}
	var logos map[string]string
	if err := json.Unmarshal([]byte(logosJSON), &logos); err != nil || len(logos) == 0 {
		return ""
	}
	for _, key := range []string{lang, "en", "und"} {
		if v, ok := logos[key]; ok && v != "" {
			return v
		}
	}
	for _, v := range logos {
		if v != "" {
			return v
		}
	}
	return ""
}

package wits

import "strings"

// WorldCode is the upstream aggregate code for "all partners".
const WorldCode = "WLD"

// countryCodes maps caller-facing market tokens to the upstream's official
// ISO3 codes. Lookup is case-insensitive; tokens not present here are
// treated as already canonical and pass through unchanged.
var countryCodes = map[string]string{
	"UAE":   "ARE",
	"UK":    "GBR",
	"USA":   "USA",
	"US":    "USA",
	"EU":    "EUN",
	"KSA":   "SAU",
	"SA":    "SAU",
	"SG":    "SGP",
	"VN":    "VNM",
	"KR":    "KOR",
	"SK":    "KOR",
	"JP":    "JPN",
	"CN":    "CHN",
	"IN":    "IND",
	"DE":    "DEU",
	"NL":    "NLD",
	"WORLD": WorldCode,
}

// NormalizeCountryCode converts a caller-facing market token into the code
// the upstream API understands. Empty input means "world"; unmapped tokens
// are returned uppercased, assumed canonical already.
func NormalizeCountryCode(token string) string {
	token = strings.ToUpper(strings.TrimSpace(token))
	if token == "" {
		return WorldCode
	}
	if canonical, ok := countryCodes[token]; ok {
		return canonical
	}
	return token
}

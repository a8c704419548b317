package utils

import (
	"strings"
	"unicode"
)

// Common alternative spellings of Sri Lankan district names, keyed by
// DistrictKey form.
var districtAliases = map[string]string{
	"nuwaraeliya":  "nuwara eliya",
	"n eliya":      "nuwara eliya",
	"moneragala":   "monaragala",
	"mullativu":    "mullaitivu",
	"mulativu":     "mullaitivu",
	"kegalla":      "kegalle",
	"rathnapura":   "ratnapura",
	"trinco":       "trincomalee",
	"anuradapura":  "anuradhapura",
	"pollonnaruwa": "polonnaruwa",
	"batti":        "batticaloa",
	"hambanthota":  "hambantota",
	"kilinochi":    "kilinochchi",
	"colombo city": "colombo",
}

// DistrictKey folds a district name for case-insensitive matching: it trims,
// lowercases, treats hyphens and underscores as spaces and collapses runs
// of whitespace.
// e.g., "  Nuwara-Eliya " → "nuwara eliya"
func DistrictKey(name string) string {
	f := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	return strings.Join(f, " ")
}

// NormalizeDistrict folds a user-supplied district name and resolves common
// alternative spellings. The result is compared against DistrictKey of the
// table's names.
func NormalizeDistrict(name string) string {
	key := DistrictKey(name)
	if canonical, ok := districtAliases[key]; ok {
		return canonical
	}
	return key
}

package utils

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// facilityAliases groups the ways guests commonly refer to the same facility.
// Used to decide whether an extracted facility was actually mentioned.
var facilityAliases = [][]string{
	{"wifi", "wi-fi", "wireless", "internet"},
	{"pool", "swimming pool"},
	{"gym", "gymnasium", "fitness", "fitness center"},
	{"aircon", "air conditioner", "air conditioning", "a/c", "ac"},
	{"breakfast", "breakfast included", "free breakfast"},
	{"parking", "car park", "free parking"},
	{"tv", "television", "smart tv"},
	{"hot water", "water heater", "heater"},
	{"bathtub", "bath tub", "tub"},
	{"balcony", "terrace"},
	{"fridge", "refrigerator", "minibar", "mini bar"},
	{"spa", "sauna"},
}

// stopWords never count as evidence that a value was mentioned
var stopWords = map[string]bool{
	"the": true, "and": true, "with": true, "for": true, "room": true, "rooms": true,
	"hotel": true, "hotels": true, "near": true, "stay": true, "stays": true,
}

// EscapeLike escapes SQL LIKE wildcards so free text is matched literally.
// The escape character is the backslash (the PostgreSQL default).
func EscapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// FacilityMatches reports whether a stored facility satisfies a requested one
// (case-insensitive substring, e.g. "pool" matches "Swimming Pool")
func FacilityMatches(requested, facility string) bool {
	req := strings.ToLower(strings.TrimSpace(requested))
	if req == "" {
		return false
	}
	return strings.Contains(strings.ToLower(facility), req)
}

// UniqueFold trims values, drops empties, removes case-insensitive duplicates
// (first spelling wins) and sorts the result case-insensitively, so the output
// does not depend on input order.
func UniqueFold(values []string) []string {
	trimmed := lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = strings.TrimSpace(v)
		return v, v != ""
	})
	sort.SliceStable(trimmed, func(i, j int) bool {
		li, lj := strings.ToLower(trimmed[i]), strings.ToLower(trimmed[j])
		if li == lj {
			return trimmed[i] < trimmed[j]
		}
		return li < lj
	})
	return lo.UniqBy(trimmed, strings.ToLower)
}

// MentionedIn reports whether value (an extracted slot) is grounded in message:
// the whole value appears as words, every one of its significant words
// appears, or the message uses a known alias of it. Matching respects word
// boundaries, so "spa" is not grounded by "spacious".
func MentionedIn(message, value string) bool {
	msg := strings.ToLower(message)
	val := strings.ToLower(strings.TrimSpace(value))
	if val == "" {
		return false
	}
	if mentionsWord(msg, val) {
		return true
	}

	words := significantWords(val)
	if len(words) > 0 && lo.EveryBy(words, func(word string) bool { return mentionsWord(msg, word) }) {
		return true
	}

	for _, group := range facilityAliases {
		if !lo.ContainsBy(group, func(alias string) bool { return containsWord(val, alias) }) {
			continue
		}
		if lo.ContainsBy(group, func(alias string) bool { return mentionsWord(msg, alias) }) {
			return true
		}
	}

	return false
}

func significantWords(s string) []string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return lo.Filter(words, func(w string, _ int) bool {
		return len(w) >= 3 && !stopWords[w]
	})
}

// mentionsWord is containsWord that also accepts a plural ("pools", "beaches")
func mentionsWord(s, word string) bool {
	return containsWord(s, word) || containsWord(s, word+"s") || containsWord(s, word+"es")
}

// containsWord matches word only at word boundaries so short values like
// "ac" or "spa" do not match inside unrelated words
func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for offset := 0; offset < len(s); {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(s) || !isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

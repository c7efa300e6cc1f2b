package alphabet

import (
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Overflow is the bucket of names that match no script of an alphabet.
const Overflow = "#"

// script is one contiguous run of canonical labels.
type script struct {
	tables []*unicode.RangeTable
	labels []string
}

func (s script) matches(r rune) bool {
	return unicode.IsOneOf(s.tables, r)
}

// Alphabet is a canonical, locale specific list of section labels.
//
// Alphabet is safe for concurrent use.
type Alphabet struct {
	name    string
	tag     language.Tag
	scripts []script

	mu  sync.Mutex
	col *collate.Collator
}

func newAlphabet(name string, tag language.Tag, scripts ...script) *Alphabet {
	return &Alphabet{
		name:    name,
		tag:     tag,
		scripts: scripts,
		col:     collate.New(tag, collate.Loose),
	}
}

// Name returns the alphabet name ("latin", "greek", "cyrillic", "japanese").
func (a *Alphabet) Name() string {
	return a.name
}

// Tag returns the collation language of the alphabet.
func (a *Alphabet) Tag() language.Tag {
	return a.tag
}

// Labels returns the canonical labels in collation order. The overflow bucket
// is not included; it appears only when data uses it.
func (a *Alphabet) Labels() []string {
	var out []string
	for _, s := range a.scripts {
		out = append(out, s.labels...)
	}

	return out
}

// NewCollator returns a new loose collator for the alphabet's language.
//
// Collators are not safe for concurrent use; callers own the returned value.
func (a *Alphabet) NewCollator() *collate.Collator {
	return collate.New(a.tag, collate.Loose)
}

// Compare compares two strings with the alphabet's loose collation.
func (a *Alphabet) Compare(x, y string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.col.CompareString(x, y)
}

// Bucket returns the section label of a display name.
//
// The first letter of the name selects a script of the alphabet; within it the
// name belongs to the last label that collates at or before that letter. Empty
// names and names outside every script go to Overflow.
//
// Parameters:
//   - name: Display name
//
// Returns:
//   - string: Section label
func (a *Alphabet) Bucket(name string) string {
	first, ok := firstLetter(name)
	if !ok {
		return Overflow
	}

	r, _ := utf8.DecodeRuneInString(first)
	for _, s := range a.scripts {
		if !s.matches(r) {
			continue
		}

		a.mu.Lock()
		i := search(s.labels, func(label string) bool { return a.col.CompareString(label, first) > 0 })
		a.mu.Unlock()
		if i == 0 {
			return Overflow
		}

		return s.labels[i-1]
	}

	return Overflow
}

// Rank returns the position of label in Labels, with Overflow and unknown
// labels sorting last.
func (a *Alphabet) Rank(label string) int {
	labels := a.Labels()
	if i := slices.Index(labels, label); i >= 0 {
		return i
	}

	return len(labels)
}

// search returns the first index whose label satisfies after.
func search(labels []string, after func(string) bool) int {
	lo, hi := 0, len(labels)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1) //nolint:gosec // non-negative
		if after(labels[mid]) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	return lo
}

// firstLetter returns the first letter of name, skipping leading spaces and punctuation.
func firstLetter(name string) (string, bool) {
	name = strings.TrimLeftFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	if name == "" {
		return "", false
	}

	r, size := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(r) {
		return "", false
	}

	return name[:size], true
}

func labels(from, to rune, skip ...rune) []string {
	var out []string
	for r := from; r <= to; r++ {
		if slices.Contains(skip, r) {
			continue
		}
		out = append(out, string(r))
	}

	return out
}

var latinScript = script{
	tables: []*unicode.RangeTable{unicode.Latin},
	labels: labels('A', 'Z'),
}

// Latin returns the A-Z alphabet with English collation.
func Latin() *Alphabet {
	return newAlphabet("latin", language.English, latinScript)
}

// Greek returns the Greek alphabet, preceded by Latin A-Z.
func Greek() *Alphabet {
	// U+03A2 is unassigned (final sigma has no capital form)
	greek := script{
		tables: []*unicode.RangeTable{unicode.Greek},
		labels: labels('Α', 'Ω', '\u03a2'),
	}

	return newAlphabet("greek", language.Greek, latinScript, greek)
}

// Cyrillic returns the Russian alphabet, preceded by Latin A-Z.
func Cyrillic() *Alphabet {
	// Ё and Й collate with Е and И under loose comparison
	cyrillic := script{
		tables: []*unicode.RangeTable{unicode.Cyrillic},
		labels: labels('А', 'Я', 'Й'),
	}

	return newAlphabet("cyrillic", language.Russian, latinScript, cyrillic)
}

// Japanese returns full-width Ａ-Ｚ followed by the kana row heads あかさたなはまやらわ.
func Japanese() *Alphabet {
	fullWidth := script{
		tables: []*unicode.RangeTable{unicode.Latin},
		labels: labels('Ａ', 'Ｚ'),
	}
	kana := script{
		tables: []*unicode.RangeTable{unicode.Hiragana, unicode.Katakana},
		labels: []string{"あ", "か", "さ", "た", "な", "は", "ま", "や", "ら", "わ"},
	}

	return newAlphabet("japanese", language.Japanese, fullWidth, kana)
}

// ForLocale returns the alphabet matching a locale.
//
// Parameters:
//   - tag: Locale (e.g., language.Japanese, language.MustParse("ru-RU"))
//
// Returns:
//   - *Alphabet: Matching alphabet; Latin for unknown locales
func ForLocale(tag language.Tag) *Alphabet {
	base, _ := tag.Base()
	switch base.String() {
	case "ja":
		return Japanese()
	case "el":
		return Greek()
	case "ru", "uk", "be", "bg", "sr", "mk":
		return Cyrillic()
	default:
		return Latin()
	}
}

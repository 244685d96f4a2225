package slug

import (
	"crypto/rand"
	mrand "math/rand/v2"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const defaultSuffixLength = 6

// Option configures slug generation.
type Option func(*options)

type options struct {
	customReplace map[string]string
	reserved      map[string]struct{}
	separator     string
	stripChars    string
	maxLength     int
	minLength     int
	suffixLength  int
	lowercase     bool
}

func defaultOptions() *options {
	return &options{
		separator: "-",
		lowercase: true,
	}
}

// MaxLength limits the slug to n runes. Zero means unlimited.
func MaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = n
	}
}

// MinLength pads slugs shorter than n runes with a random suffix.
// Zero means no minimum.
func MinLength(n int) Option {
	return func(o *options) {
		o.minLength = n
	}
}

// Separator sets the string placed between words. Default is "-".
func Separator(s string) Option {
	return func(o *options) {
		o.separator = s
	}
}

// Lowercase controls case conversion. Default is true.
func Lowercase(enabled bool) Option {
	return func(o *options) {
		o.lowercase = enabled
	}
}

// StripChars removes the given characters before slugification.
func StripChars(chars string) Option {
	return func(o *options) {
		o.stripChars = chars
	}
}

// CustomReplace applies string replacements before slugification.
func CustomReplace(replacements map[string]string) Option {
	return func(o *options) {
		o.customReplace = replacements
	}
}

// WithSuffix appends a random alphanumeric suffix of n runes.
func WithSuffix(n int) Option {
	return func(o *options) {
		o.suffixLength = n
	}
}

// ReservedSlugs marks slugs that must not be produced as-is.
// Matching is case-insensitive; a random suffix is appended on collision.
func ReservedSlugs(slugs ...string) Option {
	return func(o *options) {
		if o.reserved == nil {
			o.reserved = make(map[string]struct{}, len(slugs))
		}
		for _, s := range slugs {
			o.reserved[strings.ToLower(s)] = struct{}{}
		}
	}
}

// Make converts s into a URL-safe slug.
func Make(s string, opts ...Option) string {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	for from, to := range o.customReplace {
		s = strings.ReplaceAll(s, from, to)
	}

	if o.stripChars != "" {
		s = strings.Map(func(r rune) rune {
			if strings.ContainsRune(o.stripChars, r) {
				return -1
			}
			return r
		}, s)
	}

	slug := slugify(normalizeDiacritics(s), o)

	// Reserved collisions get a suffix even when none was requested.
	_, isReserved := o.reserved[strings.ToLower(slug)]
	explicitSuffix := o.suffixLength > 0

	if explicitSuffix || isReserved {
		n := o.suffixLength
		if n <= 0 {
			n = defaultSuffixLength
		}
		slug = joinSuffix(slug, generateSuffix(n, o.lowercase), o.separator)
	}

	if o.maxLength > 0 {
		if explicitSuffix {
			slug = truncatePreservingSuffix(slug, o)
		} else {
			slug = truncate(slug, o.maxLength, o.separator)
		}
	}

	// One-shot padding: a single fixed-size suffix, no loop to reach the
	// minimum exactly.
	if o.minLength > 0 && len([]rune(slug)) < o.minLength {
		slug = joinSuffix(slug, generateSuffix(defaultSuffixLength, o.lowercase), o.separator)
		if o.maxLength > 0 {
			slug = truncate(slug, o.maxLength, o.separator)
		}
	}

	return slug
}

// slugify keeps ASCII alphanumerics and collapses everything else into
// single separators.
func slugify(s string, o *options) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	wroteAny := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingSep && wroteAny {
				b.WriteString(o.separator)
			}
			pendingSep = false
			wroteAny = true
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingSep && wroteAny {
				b.WriteString(o.separator)
			}
			pendingSep = false
			wroteAny = true
			if o.lowercase {
				r = unicode.ToLower(r)
			}
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}

	return b.String()
}

// normalizeDiacritics folds Latin diacritics to their ASCII base letters.
// Characters with no canonical decomposition (ß, ø, ł and friends) are
// mapped explicitly; the rest go through NFD with combining marks removed.
func normalizeDiacritics(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case 'ß':
			return 's'
		case 'ø':
			return 'o'
		case 'Ø':
			return 'O'
		case 'ł':
			return 'l'
		case 'Ł':
			return 'L'
		case 'æ':
			return 'a'
		case 'Æ':
			return 'A'
		case 'œ':
			return 'o'
		case 'Œ':
			return 'O'
		case 'đ':
			return 'd'
		case 'Đ':
			return 'D'
		}
		return r
	}, s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func joinSuffix(slug, suffix, separator string) string {
	if suffix == "" {
		return slug
	}
	if slug == "" {
		return suffix
	}
	return slug + separator + suffix
}

// truncate cuts the slug to maxRunes and trims dangling separator characters.
func truncate(slug string, maxRunes int, separator string) string {
	r := []rune(slug)
	if len(r) > maxRunes {
		slug = string(r[:maxRunes])
	}
	if separator != "" {
		slug = strings.TrimRight(slug, separator)
	}
	return slug
}

// truncatePreservingSuffix shortens the base part so the random suffix
// survives intact. When even the suffix does not fit, the suffix itself is
// truncated and the base dropped.
func truncatePreservingSuffix(slug string, o *options) string {
	r := []rune(slug)
	if len(r) <= o.maxLength {
		return slug
	}

	sepLen := len([]rune(o.separator))
	cut := len(r) - o.suffixLength
	suffix := string(r[cut:])
	base := string(r[:max(cut-sepLen, 0)])

	avail := o.maxLength - o.suffixLength - sepLen
	if base == "" || avail <= 0 {
		return truncate(suffix, o.maxLength, "")
	}

	base = truncate(base, avail, o.separator)
	return base + o.separator + suffix
}

// generateSuffix produces a random alphanumeric string. Falls back to
// math/rand if the system entropy source fails.
func generateSuffix(length int, lowercase bool) string {
	if length <= 0 {
		return ""
	}

	charset := "abcdefghijklmnopqrstuvwxyz0123456789"
	if !lowercase {
		charset += "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		for i := range buf {
			buf[i] = charset[mrand.IntN(len(charset))]
		}
		return string(buf)
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = charset[int(b)%len(charset)]
	}
	return string(out)
}

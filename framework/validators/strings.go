package validators

import (
	"net/mail"
	"net/url"
	"regexp"
	"unicode/utf8"

	"github.com/km-arc/go-entob/framework/shape"
)

// Field validators over string values. Non-string values fail.

func str(fn func(string) bool) func(any) bool {
	return func(v any) bool {
		s, ok := v.(string)
		return ok && fn(s)
	}
}

// MinLen passes strings of at least n runes.
func MinLen(n int) func(any) bool {
	return str(func(s string) bool { return utf8.RuneCountInString(s) >= n })
}

// MaxLen passes strings of at most n runes.
func MaxLen(n int) func(any) bool {
	return str(func(s string) bool { return utf8.RuneCountInString(s) <= n })
}

// Regex passes strings matching pattern. It panics on a bad pattern, like
// regexp.MustCompile.
func Regex(pattern string) func(any) bool {
	re := regexp.MustCompile(pattern)
	return str(re.MatchString)
}

// Email passes RFC 5322 addresses.
func Email(v any) bool {
	return str(func(s string) bool {
		_, err := mail.ParseAddress(s)
		return err == nil
	})(v)
}

// URL passes absolute http and https URLs with a host.
func URL(v any) bool {
	return str(func(s string) bool {
		u, err := url.Parse(s)
		return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	})(v)
}

// AlphaNum passes non-empty ASCII letter and digit strings.
func AlphaNum(v any) bool { return str(alphaNumRe.MatchString)(v) }

// In passes values equal to one of values. Unlike field.Enum it can be
// combined with other validators through All.
func In(values ...any) func(any) bool {
	return func(v any) bool { return shape.Contains(values, v) }
}

// All passes when every fn passes.
func All(fns ...func(any) bool) func(any) bool {
	return func(v any) bool {
		for _, fn := range fns {
			if !fn(v) {
				return false
			}
		}
		return true
	}
}

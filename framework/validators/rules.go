package validators

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Rule table ───────────────────────────────────────────────────────────────

var (
	alphaRe     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumRe  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	urlRe       = regexp.MustCompile(`^https?://`)
)

// messages holds the failure message of each rule. The first verb is the
// field name, the second (if any) the rule parameter.
var messages = map[string]string{
	"required":   "The %s field is required.",
	"string":     "",
	"numeric":    "The %s must be a number.",
	"integer":    "The %s must be an integer.",
	"boolean":    "The %s field must be true or false.",
	"email":      "The %s must be a valid email address.",
	"url":        "The %s must be a valid URL.",
	"min":        "The %s must be at least %s characters.",
	"max":        "The %s may not be greater than %s characters.",
	"size":       "The %s must be %s characters.",
	"between":    "The %s must be between %s characters.",
	"in":         "The selected %s is invalid.",
	"not_in":     "The selected %s is invalid.",
	"alpha":      "The %s may only contain letters.",
	"alpha_num":  "The %s may only contain letters and numbers.",
	"alpha_dash": "The %s may only contain letters, numbers, dashes and underscores.",
	"regex":      "The %s format is invalid.",
	"gt":         "The %s must be greater than %s.",
	"gte":        "The %s must be greater than or equal to %s.",
	"lt":         "The %s must be less than %s.",
	"lte":        "The %s must be less than or equal to %s.",
	"nullable":   "",
	"sometimes":  "",
	"confirmed":  "The %s confirmation does not match.",
	"same":       "The %s and %s must match.",
	"different":  "The %s and %s must be different.",
}

// siblings lists the rules that compare a field with other inputs.
var siblings = map[string]bool{"confirmed": true, "same": true, "different": true}

// apply reports whether value passes one rule. data is nil when the rule
// runs on a single value.
func apply(name, value, rule, param string, data map[string]string) bool {
	switch rule {
	case "required":
		return strings.TrimSpace(value) != ""
	case "numeric":
		_, err := strconv.ParseFloat(value, 64)
		return err == nil
	case "integer":
		_, err := strconv.Atoi(value)
		return err == nil
	case "boolean":
		_, err := parseBool(value)
		return err == nil
	case "email":
		_, err := mail.ParseAddress(value)
		return err == nil
	case "url":
		return urlRe.MatchString(value)
	case "min":
		return utf8.RuneCountInString(value) >= atoi(param)
	case "max":
		return utf8.RuneCountInString(value) <= atoi(param)
	case "size":
		return utf8.RuneCountInString(value) == atoi(param)
	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return true
		}
		l := utf8.RuneCountInString(value)
		return l >= atoi(lo) && l <= atoi(hi)
	case "in":
		return listed(value, param)
	case "not_in":
		return !listed(value, param)
	case "alpha":
		return alphaRe.MatchString(value)
	case "alpha_num":
		return alphaNumRe.MatchString(value)
	case "alpha_dash":
		return alphaDashRe.MatchString(value)
	case "regex":
		re, err := regexp.Compile(param)
		return err == nil && re.MatchString(value)
	case "gt", "gte", "lt", "lte":
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		switch rule {
		case "gt":
			return f > t
		case "gte":
			return f >= t
		case "lt":
			return f < t
		}
		return f <= t
	case "sometimes", "nullable":
		return value != ""
	case "confirmed":
		return data[name+"_confirmation"] == value
	case "same":
		return data[param] == value
	case "different":
		return data[param] != value
	}
	// string and unknown rules pass.
	return true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func listed(v, list string) bool {
	for _, a := range strings.Split(list, ",") {
		if strings.TrimSpace(a) == v {
			return true
		}
	}
	return false
}

// parse splits "required|min:3" into rule names and params.
func parse(rules string) [][2]string {
	var out [][2]string
	for _, r := range strings.Split(rules, "|") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		name, param, _ := strings.Cut(r, ":")
		out = append(out, [2]string{name, param})
	}
	return out
}

// run applies a rule chain to one value, stopping at the first failure.
// It returns the failure message, or "" when the chain passes.
func run(name, value string, chain [][2]string, data map[string]string) string {
	for _, step := range chain {
		rule, param := step[0], step[1]
		if apply(name, value, rule, param, data) {
			continue
		}
		msg := messages[rule]
		if msg == "" {
			// nullable and sometimes: an empty value ends the chain silently.
			return ""
		}
		if rule == "between" {
			param = strings.Replace(param, ",", " and ", 1)
		}
		if strings.Count(msg, "%s") == 2 {
			return fmt.Sprintf(msg, name, param)
		}
		return fmt.Sprintf(msg, name)
	}
	return ""
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules maps a field to a pipe-separated rule string.
//
//	validators.Rules{"status": "nullable|in:pending,settled", "limit": "sometimes|integer|gte:1"}
type Rules map[string]string

// Validator checks a flat map of string inputs, such as query parameters,
// against Rules.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
}

// Make creates a Validator over data.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{data: data, rules: rules, errors: &Errors{}}
}

// Fails runs validation and reports whether any rule failed.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes is the negation of Fails.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the error bag of the last run.
func (v *Validator) Errors() *Errors { return v.errors }

func (v *Validator) validate() {
	v.errors = &Errors{}
	names := make([]string, 0, len(v.rules))
	for name := range v.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if msg := run(name, v.data[name], parse(v.rules[name]), v.data); msg != "" {
			v.errors.Add(name, msg)
		}
	}
}

// ── Rule as a field validator ────────────────────────────────────────────────

// Rule compiles a rule string into a field validator. Strings are checked
// as is, other values through their fmt representation. Rules comparing
// sibling fields are not available and, like unknown rules, return an error.
//
//	slug := field.MustDescribe(
//	    field.Types(shape.Of[string]()),
//	    field.Validate(validators.MustRule("alpha_dash|max:64")),
//	)
func Rule(rules string) (func(any) bool, error) {
	chain := parse(rules)
	for _, step := range chain {
		if _, ok := messages[step[0]]; !ok {
			return nil, fmt.Errorf("validators: unknown rule %q", step[0])
		}
		if siblings[step[0]] {
			return nil, fmt.Errorf("validators: rule %q compares fields and cannot validate one value", step[0])
		}
	}
	return func(v any) bool {
		return run("value", text(v), chain, nil) == ""
	}, nil
}

// MustRule is like Rule but panics on error.
func MustRule(rules string) func(any) bool {
	fn, err := Rule(rules)
	if err != nil {
		panic(err)
	}
	return fn
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

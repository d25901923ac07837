package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"hospot/internal/domain"
)

var (
	reName  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reQ     = regexp.MustCompile(`^[A-Za-z0-9 _.,'&-]{1,60}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
	reCat   = regexp.MustCompile(`^[A-Za-z &-]{1,40}$`)
	reUpper = regexp.MustCompile(`[A-Z]`)
	reLower = regexp.MustCompile(`[a-z]`)
	reDigit = regexp.MustCompile(`[0-9]`)

	// Only these count as special characters for passwords.
	reSpecial = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// Name checks emptiness, then length, then the character set.
func Name(s string) error {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return errors.New("Name is required")
	case utf8.RuneCountInString(s) < 2:
		return errors.New("Name must be at least 2 characters long")
	case !reName.MatchString(s):
		return errors.New("Name can only contain letters and spaces")
	}
	return nil
}

// Email is a syntactic check only.
func Email(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("Email is required")
	}
	if !reEmail.MatchString(s) {
		return errors.New("Please enter a valid email address")
	}
	return nil
}

// PasswordError lists every rule a password failed.
type PasswordError struct {
	TooShort bool
	Missing  []string // "one uppercase letter", ...
}

func (e *PasswordError) Error() string {
	var parts []string
	if e.TooShort {
		parts = append(parts, "Password must be at least 8 characters long")
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "Password must contain at least "+strings.Join(e.Missing, ", "))
	}
	return strings.Join(parts, ". ")
}

type criteria struct {
	long, upper, lower, digit, special bool
}

func check(s string) criteria {
	return criteria{
		long:    utf8.RuneCountInString(s) >= 8,
		upper:   reUpper.MatchString(s),
		lower:   reLower.MatchString(s),
		digit:   reDigit.MatchString(s),
		special: reSpecial.MatchString(s),
	}
}

// Password reports all failed rules at once; an empty password is just "required".
func Password(s string) error {
	if s == "" {
		return errors.New("Password is required")
	}
	c := check(s)
	pe := &PasswordError{TooShort: !c.long}
	if !c.upper {
		pe.Missing = append(pe.Missing, "one uppercase letter")
	}
	if !c.lower {
		pe.Missing = append(pe.Missing, "one lowercase letter")
	}
	if !c.digit {
		pe.Missing = append(pe.Missing, "one number")
	}
	if !c.special {
		pe.Missing = append(pe.Missing, "one special character")
	}
	if pe.TooShort || len(pe.Missing) > 0 {
		return pe
	}
	return nil
}

var strengthLabels = [...]string{"None", "Very Weak", "Weak", "Fair", "Good", "Strong"}

type Strength struct {
	Score int
	Label string
}

// PasswordStrength scores one point per satisfied criterion and indexes the label table.
func PasswordStrength(s string) Strength {
	c := check(s)
	score := 0
	for _, ok := range []bool{c.long, c.upper, c.lower, c.digit, c.special} {
		if ok {
			score++
		}
	}
	return Strength{Score: score, Label: strengthLabels[score]}
}

// Q validates a search query: trims, then requires allowed characters and at
// most 60 of them. An empty query is valid and means "no filter".
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reQ.MatchString(s)
}

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// ID validates a simple resource identifier (hospital/medicine/prescription ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Category accepts a catalog category name. Empty means "all".
func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reCat.MatchString(s)
}

func BedType(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, t := range domain.BedTypes {
		if strings.EqualFold(s, t) {
			return t, true
		}
	}
	return "", false
}

func PaymentMethod(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range domain.PaymentMethods {
		if s == m {
			return m, true
		}
	}
	return "", false
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Text trims s and reports whether it is non-empty and at most max runes.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && utf8.RuneCountInString(s) <= max
}

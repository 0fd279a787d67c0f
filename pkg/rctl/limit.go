package rctl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// limitSuffixes are the binary magnitude suffixes, in increasing order of
// magnitude: 1024, 1024^2 and so on.
const limitSuffixes = "kmgtpezy"

// Limit is the threshold part of a rule: an absolute amount, optionally
// accounted per subject of some type ("100m/process").
type Limit struct {
	amount uint64
	per    SubjectType
}

func NewLimit(amount uint64) Limit {
	return Limit{amount: amount}
}

func NewLimitPer(amount uint64, per SubjectType) Limit {
	return Limit{amount: amount, per: per}
}

// Amount returns the threshold in the resource's base unit.
func (l Limit) Amount() uint64 {
	return l.amount
}

// Per returns the per-subject divisor, if one is set.
func (l Limit) Per() (SubjectType, bool) {
	return l.per, l.per != subjectTypeUnknown
}

// ParseLimit parses "amount[/subject-type]". Amounts take a single optional
// binary suffix: "100m" is 100*1024*1024. Anything after a second slash is
// an error.
func ParseLimit(s string) (Limit, error) {
	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		amount, err := parseLimitAmount(parts[0])
		if err != nil {
			return Limit{}, err
		}
		return NewLimit(amount), nil
	case 2:
		amount, err := parseLimitAmount(parts[0])
		if err != nil {
			return Limit{}, err
		}
		per, err := ParseSubjectType(parts[1])
		if err != nil {
			return Limit{}, err
		}
		return NewLimitPer(amount, per), nil
	default:
		return Limit{}, fmt.Errorf("%w: %q", ErrLimitBogusData, "/"+strings.Join(parts[2:], "/"))
	}
}

// parseLimitAmount parses a bare integer or an integer with a binary suffix.
// The suffix is found by scanning for the first suffix letter present
// anywhere in the string and splitting on its first occurrence, so "1m2"
// parses the same as "1m". That matches how rctl(8) inputs have always been
// read here.
func parseLimitAmount(s string) (uint64, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if amount, err := strconv.ParseUint(s, 10, 64); err == nil {
		return amount, nil
	}

	for i := 0; i < len(limitSuffixes); i++ {
		suffix := limitSuffixes[i : i+1]
		if !strings.Contains(s, suffix) {
			continue
		}
		prefix, _, _ := strings.Cut(s, suffix)
		amount, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLimitLiteral, s)
		}
		return scaleLimitAmount(amount, i+1, s)
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidLimitLiteral, s)
}

// scaleLimitAmount multiplies amount by 1024^exp, rejecting anything that
// does not fit in a uint64. The "z" and "y" magnitudes are beyond uint64
// range for any non-zero amount.
func scaleLimitAmount(amount uint64, exp int, s string) (uint64, error) {
	if amount == 0 {
		return 0, nil
	}
	if exp*10 >= 64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimitLiteral, s)
	}
	multiplier := uint64(1) << (10 * exp)
	if amount > math.MaxUint64/multiplier {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimitLiteral, s)
	}
	return amount * multiplier, nil
}

// formatLimitAmount renders an amount with the largest binary suffix that
// divides it exactly, so every rendered form parses back to the same value.
func formatLimitAmount(v uint64) string {
	idx := -1
	for v >= 1024 && v%1024 == 0 && idx < len(limitSuffixes)-1 {
		v /= 1024
		idx++
	}
	if idx < 0 {
		return strconv.FormatUint(v, 10)
	}
	return strconv.FormatUint(v, 10) + limitSuffixes[idx:idx+1]
}

func (l Limit) String() string {
	if per, ok := l.Per(); ok {
		return fmt.Sprintf("%s/%s", formatLimitAmount(l.amount), per)
	}
	return formatLimitAmount(l.amount)
}

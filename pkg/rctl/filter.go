package rctl

import (
	"fmt"
	"strings"
)

// Filter is a rule pattern with any combination of fields present. The
// kernel matches rules against the fields that are set and ignores the
// rest, so the empty filter matches every rule.
type Filter struct {
	subjectType *SubjectType
	subject     *Subject
	resource    *Resource
	action      *Action
	limit       *Limit
}

// NewFilter returns the filter that matches everything. Narrow it with the
// With methods, each of which returns a new filter.
func NewFilter() Filter {
	return Filter{}
}

// WithSubjectType narrows the filter to subjects of the given type. It does
// nothing when a concrete subject is already set, since the subject pins
// its own type.
func (f Filter) WithSubjectType(t SubjectType) Filter {
	if f.subject != nil {
		return f
	}
	f.subjectType = &t
	return f
}

// WithSubject narrows the filter to one concrete subject, clearing any
// subject type set before.
func (f Filter) WithSubject(s Subject) Filter {
	f.subject = &s
	f.subjectType = nil
	return f
}

func (f Filter) WithResource(r Resource) Filter {
	f.resource = &r
	return f
}

func (f Filter) WithAction(a Action) Filter {
	f.action = &a
	return f
}

func (f Filter) WithLimit(l Limit) Filter {
	f.limit = &l
	return f
}

// ParseFilter parses the colon form rctl(8) takes on the command line, with
// empty fields left unset: ":" matches everything, "loginclass:" any login
// class, "::memoryuse" any subject's memoryuse rules, ":::=100m" any rule
// with that exact limit.
func ParseFilter(s string) (Filter, error) {
	f := NewFilter()
	if s == "" || s == ":" {
		return f, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 4 {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidRuleSyntax, s)
	}

	if parts[0] != "" {
		if len(parts) > 1 && parts[1] != "" {
			subject, err := ParseSubject(parts[0] + ":" + parts[1])
			if err != nil {
				return Filter{}, err
			}
			f = f.WithSubject(subject)
		} else {
			typ, err := ParseSubjectType(parts[0])
			if err != nil {
				return Filter{}, err
			}
			f = f.WithSubjectType(typ)
		}
	}

	if len(parts) > 2 && parts[2] != "" {
		resource, err := ParseResource(parts[2])
		if err != nil {
			return Filter{}, err
		}
		f = f.WithResource(resource)
	}

	if len(parts) > 3 && parts[3] != "" {
		actionPart, limitPart, hasLimit := strings.Cut(parts[3], "=")
		if actionPart != "" {
			action, err := ParseAction(actionPart)
			if err != nil {
				return Filter{}, err
			}
			f = f.WithAction(action)
		}
		if hasLimit {
			limit, err := ParseLimit(limitPart)
			if err != nil {
				return Filter{}, err
			}
			f = f.WithLimit(limit)
		}
	}

	return f, nil
}

// String renders the shortest prefix of the colon form that still names
// every field the filter has set.
func (f Filter) String() string {
	var b strings.Builder

	switch {
	case f.subject != nil:
		b.WriteString(f.subject.String())
	case f.subjectType != nil:
		b.WriteString(f.subjectType.String())
		b.WriteString(":")
	default:
		b.WriteString(":")
	}
	if f.resource == nil && f.action == nil && f.limit == nil {
		return b.String()
	}

	b.WriteString(":")
	if f.resource != nil {
		b.WriteString(f.resource.String())
	}
	if f.action == nil && f.limit == nil {
		return b.String()
	}

	b.WriteString(":")
	if f.action != nil {
		b.WriteString(f.action.String())
	}
	if f.limit == nil {
		return b.String()
	}

	b.WriteString("=")
	b.WriteString(f.limit.String())
	return b.String()
}

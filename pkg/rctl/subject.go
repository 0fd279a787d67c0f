package rctl

import (
	"fmt"
	"os/user"
	"strconv"
	"strings"
)

// SubjectType names the kind of entity a rule or usage query applies to.
type SubjectType int

const (
	subjectTypeUnknown SubjectType = iota // must be first
	SubjectTypeProcess
	SubjectTypeUser
	SubjectTypeLoginClass
	SubjectTypeJail
	subjectTypeDone // must be last
)

var subjectTypeNames = map[SubjectType]string{
	SubjectTypeProcess:    "process",
	SubjectTypeUser:       "user",
	SubjectTypeLoginClass: "loginclass",
	SubjectTypeJail:       "jail",
}

// ParseSubjectType matches the exact lowercase tokens the kernel grammar
// uses. There is no case folding: "User" is not a subject type.
func ParseSubjectType(s string) (SubjectType, error) {
	for typ := subjectTypeUnknown + 1; typ < subjectTypeDone; typ++ {
		if typ.String() == s {
			return typ, nil
		}
	}
	return subjectTypeUnknown, fmt.Errorf("%w: %q", ErrUnknownSubjectType, s)
}

func (t SubjectType) String() string {
	return subjectTypeNames[t]
}

func (t SubjectType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *SubjectType) UnmarshalText(text []byte) error {
	typ, err := ParseSubjectType(string(text))
	if err != nil {
		return err
	}
	*t = typ
	return nil
}

// Subject identifies one accounted entity: a process, a user, a login class
// or a jail. Subjects are comparable values; two subjects are equal exactly
// when they identify the same entity.
//
// User subjects always store the numeric uid, whatever form they were parsed
// from, and render back through the password database.
type Subject struct {
	typ  SubjectType
	pid  uint64
	uid  uint32
	name string
}

func ProcessSubject(pid uint64) Subject {
	return Subject{typ: SubjectTypeProcess, pid: pid}
}

func UserSubject(uid uint32) Subject {
	return Subject{typ: SubjectTypeUser, uid: uid}
}

// UserSubjectByName resolves a user name through the password database.
func UserSubjectByName(name string) (Subject, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return Subject{}, fmt.Errorf("%w: %q", ErrUnknownUser, name)
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return Subject{}, fmt.Errorf("%w: %q", ErrUnknownUser, name)
	}
	return UserSubject(uint32(uid)), nil
}

func LoginClassSubject(name string) Subject {
	return Subject{typ: SubjectTypeLoginClass, name: name}
}

func JailSubject(name string) Subject {
	return Subject{typ: SubjectTypeJail, name: name}
}

// ParseSubject parses a "type:id" pair. A missing id is an error, and so is
// anything after a second colon.
func ParseSubject(s string) (Subject, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
	case 1:
		return Subject{}, ErrNoSubjectGiven
	default:
		return Subject{}, fmt.Errorf("%w: %q", ErrSubjectBogusData, ":"+strings.Join(parts[2:], ":"))
	}

	typ, err := ParseSubjectType(parts[0])
	if err != nil {
		return Subject{}, err
	}

	id := parts[1]
	if id == "" {
		return Subject{}, fmt.Errorf("%w: %q", ErrNoSubjectGiven, s)
	}
	switch typ {
	case SubjectTypeProcess:
		pid, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return Subject{}, fmt.Errorf("%w: %q", ErrInvalidNumeral, id)
		}
		return ProcessSubject(pid), nil
	case SubjectTypeUser:
		if uid, err := strconv.ParseUint(id, 10, 32); err == nil {
			return UserSubject(uint32(uid)), nil
		}
		return UserSubjectByName(id)
	case SubjectTypeLoginClass:
		return LoginClassSubject(id), nil
	default:
		return JailSubject(id), nil
	}
}

// Type returns the kind of entity this subject identifies.
func (s Subject) Type() SubjectType {
	return s.typ
}

func (s Subject) id() string {
	switch s.typ {
	case SubjectTypeProcess:
		return strconv.FormatUint(s.pid, 10)
	case SubjectTypeUser:
		if u, err := user.LookupId(strconv.FormatUint(uint64(s.uid), 10)); err == nil {
			return u.Username
		}
		return strconv.FormatUint(uint64(s.uid), 10)
	default:
		return s.name
	}
}

func (s Subject) String() string {
	return fmt.Sprintf("%s:%s", s.typ, s.id())
}

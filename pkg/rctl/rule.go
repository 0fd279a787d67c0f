package rctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Rule binds a subject, a resource and an action together with the limit at
// which the action fires. Its string form is the kernel's rule grammar:
//
//	subject-type:subject-id:resource:action=amount[/per-subject-type]
type Rule struct {
	Subject  Subject
	Resource Resource
	Action   Action
	Limit    Limit
}

// ParseRule parses a full rule string. The rule must have exactly four
// colon-separated fields and exactly one "=" in the last one.
func ParseRule(s string) (Rule, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRuleSyntax, s)
	}

	subject, err := ParseSubject(parts[0] + ":" + parts[1])
	if err != nil {
		return Rule{}, err
	}
	resource, err := ParseResource(parts[2])
	if err != nil {
		return Rule{}, err
	}

	actionLimit := strings.Split(parts[3], "=")
	if len(actionLimit) != 2 {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRuleSyntax, s)
	}
	action, err := ParseAction(actionLimit[0])
	if err != nil {
		return Rule{}, err
	}
	limit, err := ParseLimit(actionLimit[1])
	if err != nil {
		return Rule{}, err
	}

	return Rule{
		Subject:  subject,
		Resource: resource,
		Action:   action,
		Limit:    limit,
	}, nil
}

func (r Rule) String() string {
	return fmt.Sprintf("%s:%s:%s=%s", r.Subject, r.Resource, r.Action, r.Limit)
}

// parseRuleList decodes a comma-separated rule listing from the kernel.
// Entries that do not parse are skipped, the way rctl(8) skips them, since a
// listing should not fail outright over one alien entry.
func parseRuleList(ctx context.Context, s string) []Rule {
	if s == "" {
		return nil
	}
	rules := make([]Rule, 0, strings.Count(s, ",")+1)
	for _, item := range strings.Split(s, ",") {
		rule, err := ParseRule(item)
		if err != nil {
			log.Ctx(ctx).Debug().Msgf("skipping unparseable rule %q: %s", item, err)
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

// Package rctl speaks the FreeBSD RACCT/RCTL resource accounting interface.
// It parses and renders the kernel's textual rule grammar and exchanges
// requests with the rctl entry points, so that everything above it deals in
// typed subjects, rules and usage instead of strings and errnos.
package rctl

import (
	"context"

	"github.com/rs/zerolog/log"
)

// exchangeOp selects one of the kernel's rctl entry points.
type exchangeOp int

const (
	opGetRacct exchangeOp = iota
	opGetRules
	opGetLimits
	opAddRule
	opRemoveRule
)

func (op exchangeOp) String() string {
	switch op {
	case opGetRacct:
		return "rctl_get_racct"
	case opGetRules:
		return "rctl_get_rules"
	case opGetLimits:
		return "rctl_get_limits"
	case opAddRule:
		return "rctl_add_rule"
	case opRemoveRule:
		return "rctl_remove_rule"
	default:
		return "rctl"
	}
}

// ChannelConfig bounds the channel's response buffers. When the kernel
// reports ERANGE the buffer grows by another InitialBufferSize and the
// request is retried, until either bound is hit.
type ChannelConfig struct {
	InitialBufferSize int
	MaxBufferSize     int
	MaxAttempts       int
}

// DefaultChannelConfig starts at 128KiB, which already holds the usage or
// rule listing of any host seen in practice, and refuses to grow past 1MiB.
var DefaultChannelConfig = ChannelConfig{
	InitialBufferSize: 128 * 1024,
	MaxBufferSize:     1024 * 1024,
	MaxAttempts:       8,
}

// Channel issues rctl requests to the kernel. The zero-cost handle is safe
// for concurrent use; the kernel exchange carries no state between calls.
type Channel struct {
	config ChannelConfig
}

func NewChannel() *Channel {
	return NewChannelWithConfig(DefaultChannelConfig)
}

// NewChannelWithConfig returns a channel with explicit buffer bounds.
// Missing fields fall back to DefaultChannelConfig.
func NewChannelWithConfig(config ChannelConfig) *Channel {
	if config.InitialBufferSize <= 0 {
		config.InitialBufferSize = DefaultChannelConfig.InitialBufferSize
	}
	if config.MaxBufferSize < config.InitialBufferSize {
		config.MaxBufferSize = config.InitialBufferSize
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultChannelConfig.MaxAttempts
	}
	return &Channel{config: config}
}

// GetUsage reports the subject's current usage of every accounted resource.
// A subject with no accounting entries, such as a jail that died between
// listing and query, reports empty usage rather than an error.
func (c *Channel) GetUsage(ctx context.Context, subject Subject) (Usage, error) {
	response, err := exchange(opGetRacct, subject.String(), c.config)
	if err != nil {
		return nil, err
	}
	usage, err := ParseUsage(response)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Trace().Msgf("%s %q reported %d resources", opGetRacct, subject, len(usage))
	return usage, nil
}

// GetRules lists the installed rules matching the filter.
func (c *Channel) GetRules(ctx context.Context, filter Filter) ([]Rule, error) {
	response, err := exchange(opGetRules, filter.String(), c.config)
	if err != nil {
		return nil, err
	}
	return parseRuleList(ctx, response), nil
}

// GetLimits lists the rules applied to the given subject.
func (c *Channel) GetLimits(ctx context.Context, subject Subject) ([]Rule, error) {
	response, err := exchange(opGetLimits, subject.String(), c.config)
	if err != nil {
		return nil, err
	}
	return parseRuleList(ctx, response), nil
}

// AddRule installs a rule. Installing a rule that already exists is not an
// error.
func (c *Channel) AddRule(ctx context.Context, rule Rule) error {
	_, err := exchange(opAddRule, rule.String(), c.config)
	return err
}

// RemoveRules removes every installed rule matching the filter.
func (c *Channel) RemoveRules(ctx context.Context, filter Filter) error {
	_, err := exchange(opRemoveRule, filter.String(), c.config)
	return err
}

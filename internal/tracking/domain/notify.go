package domain

import "fmt"

// NotifyPolicy controls when an owner is mailed about a recorded event.
type NotifyPolicy string

const (
	NotifyInherit    NotifyPolicy = "inherit"
	NotifyNever      NotifyPolicy = "never"
	NotifyFirstClick NotifyPolicy = "first_click"
	NotifyEveryClick NotifyPolicy = "every_click"
)

// legacyNotify maps the numeric choices used by older clients.
var legacyNotify = map[string]NotifyPolicy{
	"0": NotifyNever,
	"1": NotifyFirstClick,
	"2": NotifyEveryClick,
}

// ParseNotifyPolicy accepts the policy names and the legacy numeric choices.
func ParseNotifyPolicy(s string) (NotifyPolicy, error) {
	switch p := NotifyPolicy(s); p {
	case NotifyInherit, NotifyNever, NotifyFirstClick, NotifyEveryClick:
		return p, nil
	}
	if p, ok := legacyNotify[s]; ok {
		return p, nil
	}
	return "", NewValidationError("notify", fmt.Sprintf("unknown notify policy %q", s))
}

// Valid reports whether p is a known policy, inherit included.
func (p NotifyPolicy) Valid() bool {
	switch p {
	case NotifyInherit, NotifyNever, NotifyFirstClick, NotifyEveryClick:
		return true
	}
	return false
}

// ValidDefault reports whether p may be used as an owner default. Inherit has
// nothing to inherit from at that level.
func (p NotifyPolicy) ValidDefault() bool {
	return p.Valid() && p != NotifyInherit
}

// Resolve returns the effective policy given the owner default.
func (p NotifyPolicy) Resolve(ownerDefault NotifyPolicy) NotifyPolicy {
	if p == NotifyInherit || p == "" {
		if ownerDefault == "" || ownerDefault == NotifyInherit {
			return NotifyNever
		}
		return ownerDefault
	}
	return p
}

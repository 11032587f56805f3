package java

import (
	"fmt"
	"strings"

	"github.com/matzehuels/mavenfetch/pkg/errors"
)

// MergePolicy decides which value wins when documents along the parent
// chain define the same property.
type MergePolicy int

const (
	// WalkOrder lets the document fetched later in the walk overwrite, so an
	// ancestor's value replaces its child's.
	WalkOrder MergePolicy = iota
	// NearestWins keeps the first value seen, so a child overrides its
	// ancestors as Maven itself does.
	NearestWins
)

// String returns the configuration name of the policy.
func (m MergePolicy) String() string {
	switch m {
	case WalkOrder:
		return "walk-order"
	case NearestWins:
		return "nearest-wins"
	default:
		return fmt.Sprintf("MergePolicy(%d)", int(m))
	}
}

// ParseMergePolicy parses a policy name. The empty string selects [WalkOrder].
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "walk-order", "walk_order":
		return WalkOrder, nil
	case "nearest-wins", "nearest_wins", "nearest":
		return NearestWins, nil
	}
	return WalkOrder, errors.New(errors.ErrCodeInvalidConfig,
		"unknown property precedence %q (expected walk-order or nearest-wins)", s)
}

// Properties is the property table built while walking a parent chain.
type Properties struct {
	policy MergePolicy
	values map[string]string
}

// NewProperties returns an empty table that merges with policy.
func NewProperties(policy MergePolicy) *Properties {
	return &Properties{policy: policy, values: make(map[string]string)}
}

// Set assigns name unconditionally.
func (p *Properties) Set(name, value string) {
	p.values[name] = value
}

// Merge applies the entries of one document in declaration order.
func (p *Properties) Merge(props []Property) {
	for _, prop := range props {
		if _, exists := p.values[prop.Name]; exists && p.policy == NearestWins {
			continue
		}
		p.values[prop.Name] = prop.Value
	}
}

// Get returns the raw value of name.
func (p *Properties) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Len returns the number of defined properties.
func (p *Properties) Len() int { return len(p.values) }

// Interpolate resolves a value of the exact form "${name}", following
// references until a value is not a placeholder. An unknown name resolves to
// "". Any other value, including text with an embedded placeholder, is
// returned unchanged apart from surrounding whitespace. A name that is
// reached twice yields a CYCLIC_DEFINITION error.
func (p *Properties) Interpolate(value string) (string, error) {
	value = strings.TrimSpace(value)
	var seen map[string]bool
	for {
		name, ok := placeholder(value)
		if !ok {
			return value, nil
		}
		if seen[name] {
			return "", errors.New(errors.ErrCodeCyclicDefinition, "property %q refers to itself", name)
		}
		if seen == nil {
			seen = make(map[string]bool)
		}
		seen[name] = true
		value = strings.TrimSpace(p.values[name])
	}
}

func placeholder(s string) (string, bool) {
	if len(s) < 3 || !strings.HasPrefix(s, "${") || !strings.HasSuffix(s, "}") {
		return "", false
	}
	name := s[2 : len(s)-1]
	if strings.ContainsAny(name, "${}") {
		return "", false
	}
	return name, true
}

// unresolved reports whether s still contains a placeholder.
func unresolved(s string) bool {
	return strings.Contains(s, "${")
}

// Package matcher decides whether a notification rule matches a change event.
package matcher

import (
	"context"
	"fmt"

	"adalert-srv/internal/model"
	"adalert-srv/pkg/log"
)

// Matches reports whether rule matches event. Evaluation short-circuits in order:
// active flag, platform filter, change type filter, condition tree.
// A malformed condition tree is a non-match.
func Matches(rule model.NotificationRule, event model.ChangeEvent) bool {
	ok, _ := Evaluate(rule, event)
	return ok
}

// Evaluate is Matches with the reason a malformed tree was rejected.
func Evaluate(rule model.NotificationRule, event model.ChangeEvent) (bool, error) {
	if !rule.IsActive {
		return false, nil
	}
	if !rule.AppliesToPlatform(event.Platform) {
		return false, nil
	}
	if !rule.AppliesToChangeType(event.ChangeType) {
		return false, nil
	}
	return evalNode(rule.Conditions, event, 0)
}

// Matcher evaluates batches of rules, isolating faults per rule.
type Matcher struct {
	logger log.Logger
}

// New returns a Matcher that reports malformed rules to logger.
func New(logger log.Logger) *Matcher {
	return &Matcher{logger: logger}
}

// MatchAll returns the rules in rules that match event. A rule that fails to
// evaluate is skipped and the rest are still evaluated.
func (m *Matcher) MatchAll(ctx context.Context, rules []model.NotificationRule, event model.ChangeEvent) []model.NotificationRule {
	var matched []model.NotificationRule
	for _, rule := range rules {
		ok, err := m.safeEvaluate(rule, event)
		if err != nil {
			m.logger.Warnf(ctx, "internal.matcher.MatchAll: rule %s skipped: %v", rule.ID, err)
			continue
		}
		if ok {
			matched = append(matched, rule)
		}
	}
	return matched
}

func (m *Matcher) safeEvaluate(rule model.NotificationRule, event model.ChangeEvent) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("%w: panic during evaluation: %v", model.ErrMalformedCondition, r)
		}
	}()
	return Evaluate(rule, event)
}

const maxDepth = 64

var errTooDeep = fmt.Errorf("%w: tree too deep", model.ErrMalformedCondition)

func evalNode(node model.Node, event model.ChangeEvent, depth int) (bool, error) {
	if depth > maxDepth {
		return false, errTooDeep
	}

	switch n := node.(type) {
	case model.Group:
		return evalGroup(n, event, depth)
	case *model.Group:
		if n == nil {
			return false, fmt.Errorf("%w: nil group", model.ErrMalformedCondition)
		}
		return evalGroup(*n, event, depth)
	case model.Leaf:
		return evalLeaf(n, event)
	case *model.Leaf:
		if n == nil {
			return false, fmt.Errorf("%w: nil condition", model.ErrMalformedCondition)
		}
		return evalLeaf(*n, event)
	case model.Invalid:
		return false, fmt.Errorf("%w: %s", model.ErrMalformedCondition, n.Reason)
	case nil:
		return false, fmt.Errorf("%w: missing", model.ErrMalformedCondition)
	default:
		return false, fmt.Errorf("%w: unsupported node %T", model.ErrMalformedCondition, node)
	}
}

// evalGroup evaluates every child so that a malformed node anywhere in the
// tree rejects the rule, independent of short-circuit order.
func evalGroup(g model.Group, event model.ChangeEvent, depth int) (bool, error) {
	var result bool
	switch g.Operator {
	case model.GroupAnd:
		result = true
	case model.GroupOr:
		result = false
	default:
		return false, fmt.Errorf("%w: unknown group operator %q", model.ErrMalformedCondition, g.Operator)
	}

	for _, child := range g.Rules {
		ok, err := evalNode(child, event, depth+1)
		if err != nil {
			return false, err
		}
		if g.Operator == model.GroupAnd {
			result = result && ok
		} else {
			result = result || ok
		}
	}
	return result, nil
}

func evalLeaf(l model.Leaf, event model.ChangeEvent) (bool, error) {
	if l.Field == "" {
		return false, fmt.Errorf("%w: empty field", model.ErrMalformedCondition)
	}

	r := resolve(event, l.Field)
	switch l.Operator {
	case model.OpEquals:
		v, ok := r.current()
		return ok && valuesEqual(v, l.Value), nil
	case model.OpChangedTo:
		return r.hasPair && valuesEqual(r.pair.After, l.Value), nil
	case model.OpChangedFrom:
		return r.hasPair && valuesEqual(r.pair.Before, l.Value), nil
	case model.OpContains:
		v, ok := r.current()
		return ok && contains(v, l.Value), nil
	case model.OpGreaterThan:
		v, ok := r.current()
		return ok && compareNumbers(v, l.Value, func(a, b float64) bool { return a > b }), nil
	case model.OpLessThan:
		v, ok := r.current()
		return ok && compareNumbers(v, l.Value, func(a, b float64) bool { return a < b }), nil
	default:
		return false, fmt.Errorf("%w: unknown operator %q", model.ErrMalformedCondition, l.Operator)
	}
}

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GroupOperator combines the children of a Group.
type GroupOperator string

const (
	GroupAnd GroupOperator = "AND"
	GroupOr  GroupOperator = "OR"
)

// ConditionOperator is the predicate applied by a Leaf.
type ConditionOperator string

const (
	OpEquals      ConditionOperator = "equals"
	OpChangedTo   ConditionOperator = "changed_to"
	OpChangedFrom ConditionOperator = "changed_from"
	OpContains    ConditionOperator = "contains"
	OpGreaterThan ConditionOperator = "greater_than"
	OpLessThan    ConditionOperator = "less_than"
)

var ErrMalformedCondition = errors.New("malformed condition tree")

// Node is a condition tree node. It is either a Group, a Leaf or an Invalid node.
type Node interface {
	conditionNode()
}

// Group is an AND/OR combination of child nodes.
type Group struct {
	Operator GroupOperator
	Rules    []Node
}

// Leaf is a single predicate on an event field.
type Leaf struct {
	Field    string
	Operator ConditionOperator
	Value    any
}

// Invalid stands in for a tree that could not be parsed. It never matches.
type Invalid struct {
	Reason string
}

func (Group) conditionNode()   {}
func (Leaf) conditionNode()    {}
func (Invalid) conditionNode() {}

// And builds an AND group.
func And(rules ...Node) Group { return Group{Operator: GroupAnd, Rules: rules} }

// Or builds an OR group.
func Or(rules ...Node) Group { return Group{Operator: GroupOr, Rules: rules} }

// ParseConditionTree decodes the stored JSON form of a condition tree:
//
//	{"operator":"AND","rules":[{"field":"status","operator":"changed_to","value":"ACTIVE"}, {...}]}
//
// Any node that does not conform makes the whole tree Invalid, and the returned
// error says why. The returned Node is never nil.
func ParseConditionTree(raw []byte) (Node, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Invalid{Reason: "empty"}, fmt.Errorf("%w: empty", ErrMalformedCondition)
	}

	node, err := parseNode(raw, 0)
	if err != nil {
		return Invalid{Reason: err.Error()}, fmt.Errorf("%w: %v", ErrMalformedCondition, err)
	}
	return node, nil
}

const maxConditionDepth = 32

func parseNode(raw json.RawMessage, depth int) (Node, error) {
	if depth > maxConditionDepth {
		return nil, errors.New("tree too deep")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, errors.New("node is not an object")
	}

	if children, ok := obj["rules"]; ok {
		return parseGroup(obj, children, depth)
	}
	if _, ok := obj["field"]; ok {
		return parseLeaf(obj)
	}
	return nil, errors.New("node is neither a group nor a condition")
}

func parseGroup(obj map[string]json.RawMessage, children json.RawMessage, depth int) (Node, error) {
	var op string
	if err := json.Unmarshal(obj["operator"], &op); err != nil {
		return nil, errors.New("group operator must be a string")
	}

	g := Group{Operator: GroupOperator(strings.ToUpper(op))}
	if g.Operator != GroupAnd && g.Operator != GroupOr {
		return nil, fmt.Errorf("unknown group operator %q", op)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(children, &items); err != nil {
		return nil, errors.New("group rules must be an array")
	}
	g.Rules = make([]Node, 0, len(items))
	for i, item := range items {
		child, err := parseNode(item, depth+1)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		g.Rules = append(g.Rules, child)
	}
	return g, nil
}

func parseLeaf(obj map[string]json.RawMessage) (Node, error) {
	var l Leaf
	if err := json.Unmarshal(obj["field"], &l.Field); err != nil || l.Field == "" {
		return nil, errors.New("condition field must be a non-empty string")
	}

	var op string
	if err := json.Unmarshal(obj["operator"], &op); err != nil {
		return nil, errors.New("condition operator must be a string")
	}
	l.Operator = ConditionOperator(op)
	if !l.Operator.Valid() {
		return nil, fmt.Errorf("unknown condition operator %q", op)
	}

	if v, ok := obj["value"]; ok {
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		if err := dec.Decode(&l.Value); err != nil {
			return nil, errors.New("condition value is not valid JSON")
		}
	}
	return l, nil
}

// Valid reports whether op is a known condition operator.
func (op ConditionOperator) Valid() bool {
	switch op {
	case OpEquals, OpChangedTo, OpChangedFrom, OpContains, OpGreaterThan, OpLessThan:
		return true
	}
	return false
}

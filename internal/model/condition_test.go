package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConditionTree(t *testing.T) {
	t.Run("nested tree", func(t *testing.T) {
		raw := `{"operator":"AND","rules":[
			{"field":"status","operator":"changed_to","value":"ACTIVE"},
			{"operator":"or","rules":[{"field":"budget","operator":"greater_than","value":10000}]}
		]}`

		node, err := ParseConditionTree([]byte(raw))
		require.NoError(t, err)

		g, ok := node.(Group)
		require.True(t, ok)
		assert.Equal(t, GroupAnd, g.Operator)
		require.Len(t, g.Rules, 2)
		assert.Equal(t, Leaf{Field: "status", Operator: OpChangedTo, Value: "ACTIVE"}, g.Rules[0])

		inner, ok := g.Rules[1].(Group)
		require.True(t, ok)
		assert.Equal(t, GroupOr, inner.Operator)
		assert.Equal(t, json.Number("10000"), inner.Rules[0].(Leaf).Value)
	})

	t.Run("empty groups", func(t *testing.T) {
		node, err := ParseConditionTree([]byte(`{"operator":"AND","rules":[]}`))
		require.NoError(t, err)
		assert.Equal(t, Group{Operator: GroupAnd, Rules: []Node{}}, node)
	})

	malformed := map[string]string{
		"null":             `null`,
		"empty":            ``,
		"array":            `[]`,
		"string":           `"AND"`,
		"no operator":      `{"rules":[]}`,
		"bad operator":     `{"operator":"XOR","rules":[]}`,
		"rules not array":  `{"operator":"AND","rules":{}}`,
		"unknown leaf op":  `{"operator":"AND","rules":[{"field":"status","operator":"matches","value":"x"}]}`,
		"empty field":      `{"operator":"AND","rules":[{"field":"","operator":"equals","value":"x"}]}`,
		"unrecognised":     `{"operator":"AND","rules":[{"foo":"bar"}]}`,
		"null child":       `{"operator":"AND","rules":[null]}`,
		"not json":         `{operator:AND}`,
		"non string field": `{"operator":"AND","rules":[{"field":3,"operator":"equals"}]}`,
	}
	for name, raw := range malformed {
		t.Run("malformed "+name, func(t *testing.T) {
			node, err := ParseConditionTree([]byte(raw))
			assert.ErrorIs(t, err, ErrMalformedCondition)
			assert.IsType(t, Invalid{}, node)
		})
	}
}

func TestRuleFilters(t *testing.T) {
	r := NotificationRule{
		Platforms:            []Platform{PlatformMeta},
		NotificationChannels: []Channel{ChannelSlack, ChannelEmail, ChannelSlack},
	}
	assert.True(t, r.AppliesToPlatform(PlatformMeta))
	assert.False(t, r.AppliesToPlatform(PlatformGoogle))
	assert.True(t, r.AppliesToChangeType("anything"))
	assert.Equal(t, []Channel{ChannelSlack, ChannelEmail}, r.Channels())
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform(" Meta ")
	require.NoError(t, err)
	assert.Equal(t, PlatformMeta, p)

	_, err = ParsePlatform("tiktok")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

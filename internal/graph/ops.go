package graph

import (
	"github.com/fable2d/fable/internal/asset"
	"github.com/fable2d/fable/internal/value"
)

// paramType constrains a single op parameter.
type paramType int

const (
	paramString paramType = iota + 1
	paramInt
	paramScalar // string, int, or bool
)

// paramSpec describes one parameter of a builtin op.
type paramSpec struct {
	name        string
	typ         paramType
	optional    bool
	assetKind   asset.Kind // non-empty: value must be an asset ID of this kind
	templateRef bool       // value must be an object template ID
}

// opSpec describes a builtin operation's kind and parameters.
type opSpec struct {
	kind   NodeKind // KindCondition or KindAction
	params []paramSpec
}

// opSpecs is the builtin block vocabulary. The engine keys its
// implementations off the same names; TestOpVocabularyCovered in the engine
// package pins the two tables together.
var opSpecs = map[string]opSpec{
	// Conditions.
	"always": {kind: KindCondition},
	"never":  {kind: KindCondition},
	"prop_eq": {kind: KindCondition, params: []paramSpec{
		{name: "name", typ: paramString},
		{name: "value", typ: paramScalar},
	}},
	"prop_lt": {kind: KindCondition, params: []paramSpec{
		{name: "name", typ: paramString},
		{name: "value", typ: paramInt},
	}},
	"prop_gt": {kind: KindCondition, params: []paramSpec{
		{name: "name", typ: paramString},
		{name: "value", typ: paramInt},
	}},
	"has_prop": {kind: KindCondition, params: []paramSpec{
		{name: "name", typ: paramString},
	}},
	"key_down": {kind: KindCondition, params: []paramSpec{
		{name: "key", typ: paramString},
	}},

	// Actions.
	"set_prop": {kind: KindAction, params: []paramSpec{
		{name: "name", typ: paramString},
		{name: "value", typ: paramScalar},
	}},
	"add_prop": {kind: KindAction, params: []paramSpec{
		{name: "name", typ: paramString},
		{name: "amount", typ: paramInt},
	}},
	"move_by": {kind: KindAction, params: []paramSpec{
		{name: "dx", typ: paramInt},
		{name: "dy", typ: paramInt},
	}},
	"move_to": {kind: KindAction, params: []paramSpec{
		{name: "x", typ: paramInt},
		{name: "y", typ: paramInt},
	}},
	"play_sound": {kind: KindAction, params: []paramSpec{
		{name: "sound", typ: paramString, assetKind: asset.KindSound},
	}},
	"spawn": {kind: KindAction, params: []paramSpec{
		{name: "template", typ: paramString, templateRef: true},
		{name: "dx", typ: paramInt, optional: true},
		{name: "dy", typ: paramInt, optional: true},
	}},
	"destroy": {kind: KindAction},
	"run_script": {kind: KindAction, params: []paramSpec{
		{name: "script", typ: paramString, assetKind: asset.KindScript},
	}},
}

// ConditionOps returns the builtin condition op names.
func ConditionOps() []string {
	return opsOfKind(KindCondition)
}

// ActionOps returns the builtin action op names.
func ActionOps() []string {
	return opsOfKind(KindAction)
}

func opsOfKind(kind NodeKind) []string {
	var out []string
	for name, spec := range opSpecs {
		if spec.kind == kind {
			out = append(out, name)
		}
	}
	return out
}

// checkParamType reports whether v satisfies the declared parameter type.
func checkParamType(v value.Value, typ paramType) bool {
	switch typ {
	case paramString:
		_, ok := v.(value.String)
		return ok
	case paramInt:
		_, ok := v.(value.Int)
		return ok
	case paramScalar:
		switch v.(type) {
		case value.String, value.Int, value.Bool:
			return true
		}
		return false
	default:
		return false
	}
}

package language_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unrotten/graphql/ast"
	"github.com/unrotten/graphql/language"
)

func TestParseSimpleQuery(t *testing.T) {
	doc, err := language.Parse(`{ hero { name } }`)
	require.Nil(t, err)
	require.Len(t, doc.Definitions, 1)

	op, ok := doc.Definitions[0].(*ast.OperationDefinition)
	require.True(t, ok)
	assert.Equal(t, ast.Query, op.Operation)
	assert.Nil(t, op.Name)
	require.Len(t, op.SelectionSet.Selections, 1)

	hero, ok := op.SelectionSet.Selections[0].(*ast.Field)
	require.True(t, ok)
	assert.Equal(t, "hero", hero.Name.Name)
	require.Len(t, hero.SelectionSet.Selections, 1)

	name, ok := hero.SelectionSet.Selections[0].(*ast.Field)
	require.True(t, ok)
	assert.Equal(t, "name", name.Name.Name)
}

func TestParseNamedOperationWithVariables(t *testing.T) {
	doc, err := language.Parse(`query HeroForEpisode($ep: Episode!, $limit: Int = 10) {
		hero(episode: $ep) {
			name
		}
	}`)
	require.Nil(t, err)
	op := doc.Definitions[0].(*ast.OperationDefinition)
	assert.Equal(t, "HeroForEpisode", op.Name.Name)
	require.Len(t, op.Vars, 2)

	ep := op.Vars[0]
	assert.Equal(t, "ep", ep.Var.Name.Name)
	nonNull, ok := ep.Type.(*ast.NonNull)
	require.True(t, ok)
	assert.Equal(t, "Episode!", nonNull.String())

	limit := op.Vars[1]
	assert.Equal(t, "limit", limit.Var.Name.Name)
	require.NotNil(t, limit.DefaultValue)
	assert.Equal(t, "10", limit.DefaultValue.GetValue())
}

func TestParseAliasArgumentsAndDirectives(t *testing.T) {
	doc, err := language.Parse(`{
		luke: human(id: "1000") @include(if: true) {
			name
		}
	}`)
	require.Nil(t, err)
	op := doc.Definitions[0].(*ast.OperationDefinition)
	field := op.SelectionSet.Selections[0].(*ast.Field)
	assert.Equal(t, "luke", field.ResponseKey())
	assert.Equal(t, "human", field.Name.Name)
	require.Len(t, field.Arguments, 1)
	assert.Equal(t, "id", field.Arguments[0].Name.Name)
	assert.Equal(t, "1000", field.Arguments[0].Value.GetValue())
	require.Len(t, field.Directives, 1)
	assert.Equal(t, "include", field.Directives[0].Name.Name)
}

func TestParseFragmentAndInlineFragment(t *testing.T) {
	doc, err := language.Parse(`{
		hero {
			...basicFields
			... on Droid {
				primaryFunction
			}
		}
	}
	fragment basicFields on Character {
		name
	}`)
	require.Nil(t, err)
	require.Len(t, doc.Definitions, 2)

	op := doc.Definitions[0].(*ast.OperationDefinition)
	hero := op.SelectionSet.Selections[0].(*ast.Field)
	require.Len(t, hero.SelectionSet.Selections, 2)

	spread, ok := hero.SelectionSet.Selections[0].(*ast.FragmentSpread)
	require.True(t, ok)
	assert.Equal(t, "basicFields", spread.Name.Name)

	inline, ok := hero.SelectionSet.Selections[1].(*ast.InlineFragment)
	require.True(t, ok)
	assert.Equal(t, "Droid", inline.TypeCondition.Name.Name)

	frag := doc.Definitions[1].(*ast.FragmentDefinition)
	assert.Equal(t, "basicFields", frag.Name.Name)
	assert.Equal(t, "Character", frag.TypeCondition.Name.Name)
}

func TestParseListAndObjectValues(t *testing.T) {
	doc, err := language.Parse(`{ field(complex: { a: { b: [1, 2, $var] }, c: null, d: SOME_ENUM }) }`)
	require.Nil(t, err)
	op := doc.Definitions[0].(*ast.OperationDefinition)
	field := op.SelectionSet.Selections[0].(*ast.Field)
	obj, ok := field.Arguments[0].Value.(*ast.ObjectValue)
	require.True(t, ok)
	require.Len(t, obj.Fields, 3)
	assert.Equal(t, "a", obj.Fields[0].Name.Name)
	assert.Equal(t, "c", obj.Fields[1].Name.Name)
	_, isNull := obj.Fields[1].Value.(*ast.NullValue)
	assert.True(t, isNull)
	assert.Equal(t, "SOME_ENUM", obj.Fields[2].Value.GetValue())
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	_, err := language.Parse("")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "Syntax Error")
}

func TestParseRejectsUnterminatedSelectionSet(t *testing.T) {
	_, err := language.Parse("{")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "Expected Name, found <EOF>")
}

func TestParseRejectsMissingFragmentTypeCondition(t *testing.T) {
	_, err := language.Parse(`{ ...MissingOn }
fragment MissingOn Operation { field }`)
	require.NotNil(t, err)
	assert.Contains(t, err.Message, `Expected "on"`)
}

func TestParseRejectsMutationWithoutOperationKeyword(t *testing.T) {
	_, err := language.Parse("notAnOperation Foo { field }")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, `Unexpected "notAnOperation"`)
}

func TestParseRejectsNonConstDefaultValue(t *testing.T) {
	_, err := language.Parse("query Foo($x: Complex = { a: $var }) { field }")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "Unexpected")
}

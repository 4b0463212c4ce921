package graphql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unrotten/graphql/ast"
	"github.com/unrotten/graphql/language"
)

func parseAST(t *testing.T, query string) (*ast.Document, error) {
	t.Helper()
	doc, perr := language.Parse(query)
	if perr != nil {
		return nil, perr
	}
	return doc, nil
}

// firstField returns the first field of the first operation's selection
// set, for tests that only care about one field's directives.
func firstField(t *testing.T, doc *ast.Document) *ast.Field {
	t.Helper()
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			require.NotEmpty(t, op.SelectionSet.Selections)
			field, ok := op.SelectionSet.Selections[0].(*ast.Field)
			require.True(t, ok)
			return field
		}
	}
	t.Fatal("no operation found in document")
	return nil
}

func TestSelectOperationPicksLoneOperation(t *testing.T) {
	doc, err := parseAST(t, `{ dummy }`)
	require.NoError(t, err)
	op, fragments, serr := selectOperation(doc, "")
	require.Nil(t, serr)
	require.NotNil(t, op)
	assert.Empty(t, fragments)
}

func TestSelectOperationRequiresNameWhenAmbiguous(t *testing.T) {
	doc, err := parseAST(t, `query A { a } query B { b }`)
	require.NoError(t, err)
	_, _, serr := selectOperation(doc, "")
	require.NotNil(t, serr)
	assert.Contains(t, serr.Message, "Must provide operation name")
}

func TestSelectOperationRejectsUnknownName(t *testing.T) {
	doc, err := parseAST(t, `query A { a }`)
	require.NoError(t, err)
	_, _, serr := selectOperation(doc, "Nope")
	require.NotNil(t, serr)
	assert.Contains(t, serr.Message, `Unknown operation named "Nope"`)
}

func TestDirectivesIncludeSkipTrueExcludes(t *testing.T) {
	doc, err := parseAST(t, `{ a @skip(if: true) }`)
	require.NoError(t, err)
	field := firstField(t, doc)
	assert.False(t, directivesInclude(field.Directives, nil))
}

func TestDirectivesIncludeSkipFalseIncludes(t *testing.T) {
	doc, err := parseAST(t, `{ a @skip(if: false) }`)
	require.NoError(t, err)
	field := firstField(t, doc)
	assert.True(t, directivesInclude(field.Directives, nil))
}

func TestDirectivesIncludeIncludeFalseExcludes(t *testing.T) {
	doc, err := parseAST(t, `{ a @include(if: false) }`)
	require.NoError(t, err)
	field := firstField(t, doc)
	assert.False(t, directivesInclude(field.Directives, nil))
}

func TestDirectivesIncludeUsesVariable(t *testing.T) {
	doc, err := parseAST(t, `query ($s: Boolean!) { a @skip(if: $s) }`)
	require.NoError(t, err)
	field := firstField(t, doc)
	assert.False(t, directivesInclude(field.Directives, map[string]interface{}{"s": true}))
	assert.True(t, directivesInclude(field.Directives, map[string]interface{}{"s": false}))
}

func TestFlattenSelectionsExpandsFragmentOnMatchingType(t *testing.T) {
	doc, err := parseAST(t, `
		fragment F on Widget { b }
		{ a ...F }
	`)
	require.NoError(t, err)
	op, fragments, serr := selectOperation(doc, "")
	require.Nil(t, serr)

	fields, ferr := flattenSelections(op.SelectionSet, "Widget", fragments, nil, map[string]bool{})
	require.NoError(t, ferr)

	var names []string
	for _, f := range fields {
		names = append(names, f.Name.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestFlattenSelectionsSkipsFragmentOnOtherType(t *testing.T) {
	doc, err := parseAST(t, `
		fragment F on Other { b }
		{ a ...F }
	`)
	require.NoError(t, err)
	op, fragments, serr := selectOperation(doc, "")
	require.Nil(t, serr)

	fields, ferr := flattenSelections(op.SelectionSet, "Widget", fragments, nil, map[string]bool{})
	require.NoError(t, ferr)
	require.Len(t, fields, 1)
	assert.Equal(t, "a", fields[0].Name.Name)
}

func TestFlattenSelectionsMergesSameResponseKey(t *testing.T) {
	doc, err := parseAST(t, `{ a { x } a { y } }`)
	require.NoError(t, err)
	op, fragments, serr := selectOperation(doc, "")
	require.Nil(t, serr)

	fields, ferr := flattenSelections(op.SelectionSet, "Widget", fragments, nil, map[string]bool{})
	require.NoError(t, ferr)
	require.Len(t, fields, 1)
	require.NotNil(t, fields[0].SelectionSet)
	assert.Len(t, fields[0].SelectionSet.Selections, 2)
}

package validation_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphql "github.com/unrotten/graphql"
	"github.com/unrotten/graphql/errors"
	"github.com/unrotten/graphql/language"
	"github.com/unrotten/graphql/system"
	"github.com/unrotten/graphql/validation"
)

// dog is the Go value behind the "Dog" schema type used throughout this
// file. Mother is self-typed, exercising the registry's placeholder
// cycle-breaking during schema construction.
type dog struct {
	Name     string
	Nickname string
	Mother   *dog
}

type dogType struct{}

func (dogType) TypeName() string { return "Dog" }

func (dogType) Meta(r *system.Registry) (system.NamedType, error) {
	motherType, err := graphql.ResolveType(r, dogType{})
	if err != nil {
		return nil, err
	}
	ob := graphql.NewObject("Dog", "a dog", r)
	ob.FieldFunc("name", &system.NonNull{Type: r.Lookup("String")}, nil,
		func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
			return source.(*dog).Name, nil
		})
	ob.FieldFunc("nickname", r.Lookup("String"), nil,
		func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
			return source.(*dog).Nickname, nil
		})
	ob.FieldFunc("mother", motherType, nil,
		func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
			d := source.(*dog)
			if d.Mother == nil {
				return nil, nil
			}
			return d.Mother, nil
		})
	return ob.Build()
}

// buildTestSchema wires a `Query { dog(name: String!): Dog }` schema
// shared by every case in this file.
func buildTestSchema(t *testing.T) *graphql.Schema {
	t.Helper()
	s := graphql.NewSchema()
	r := s.Registry()

	dt, err := graphql.ResolveType(r, dogType{})
	require.NoError(t, err)

	s.Query().FieldFunc("dog", dt, map[string]*system.Argument{
		"name": {Type: &system.NonNull{Type: r.Lookup("String")}},
	}, func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		return &dog{Name: args["name"].(string)}, nil
	})

	schema, err := s.Build()
	require.NoError(t, err)
	return schema
}

func validateQuery(t *testing.T, schema *graphql.Schema, query string) []*errors.GraphQLError {
	t.Helper()
	doc, perr := language.Parse(query)
	require.Nil(t, perr, "query must parse cleanly")
	return validation.Validate(schema.Registry(), schema.QueryType(), schema.MutationType(), doc)
}

func TestValidateAcceptsWellFormedQuery(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `{ dog(name: "Rex") { name nickname __typename } }`)
	assert.Empty(t, errs)
}

func TestValidateRejectsUnknownField(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `{ dog(name: "Rex") { name barks } }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `Cannot query field "barks" on type "Dog"`)
}

func TestValidateRequiresSubselectionOnObjectField(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `{ dog(name: "Rex") }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `must have a selection of subfields`)
}

func TestValidateRejectsSubselectionOnScalarField(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `{ dog(name: "Rex") { name { first } } }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `must not have a selection`)
}

func TestValidateRejectsUnknownArgument(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `{ dog(name: "Rex", breed: "Lab") { name } }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `Unknown argument "breed"`)
}

func TestValidateRequiresNonNullArgument(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `{ dog { name } }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `argument "name"`)
	assert.Contains(t, errs[0].Message, `is required but not provided`)
}

func TestValidateRejectsUnknownFragment(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `{ dog(name: "Rex") { ...missing } }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `Unknown fragment "missing"`)
}

func TestValidateRejectsNeverUsedFragment(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `
		fragment Unused on Dog { name }
		{ dog(name: "Rex") { name } }
	`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `Fragment "Unused" is never used`)
}

func TestValidateDetectsFragmentCycle(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `
		fragment Loop on Dog { mother { ...Loop } }
		{ dog(name: "Rex") { ...Loop } }
	`)
	found := false
	for _, e := range errs {
		if strings.Contains(e.Message, "within itself") {
			found = true
		}
	}
	assert.True(t, found, "expected a NoFragmentCycles violation, got %v", errs)
}

func TestValidateRejectsUnusedVariable(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `query ($unused: String) { dog(name: "Rex") { name } }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `Variable "$unused" is never used`)
}

func TestValidateRejectsUndefinedVariable(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `{ dog(name: $missing) { name } }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `Variable "$missing" is not defined`)
}

func TestValidateRejectsIncompatibleVariableType(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `query ($n: Int!) { dog(name: $n) { name } }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `used in position expecting type "String!"`)
}

func TestValidateRejectsDuplicateArgumentNames(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `{ dog(name: "Rex", name: "Fido") { name } }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `only one argument named "name"`)
}

func TestValidateRejectsDuplicateOperationNames(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `
		query Rex { dog(name: "Rex") { name } }
		query Rex { dog(name: "Fido") { name } }
	`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `only one operation named "Rex"`)
}

func TestValidateRejectsSecondAnonymousOperation(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `
		{ dog(name: "Rex") { name } }
		{ dog(name: "Fido") { name } }
	`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `must be the only defined operation`)
}

func TestValidateAcceptsSkipAndIncludeDirectives(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `
		query ($cond: Boolean!) {
			dog(name: "Rex") {
				name @skip(if: $cond)
				nickname @include(if: $cond)
			}
		}
	`)
	assert.Empty(t, errs)
}

func TestValidateRejectsUnknownDirective(t *testing.T) {
	schema := buildTestSchema(t)
	errs := validateQuery(t, schema, `{ dog(name: "Rex") { name @upper } }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `Unknown directive "upper"`)
}

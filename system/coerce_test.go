package system_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unrotten/graphql/ast"
	"github.com/unrotten/graphql/system"
)

func registry(t *testing.T) *system.Registry {
	t.Helper()
	return system.NewRegistry()
}

func TestCoerceValueScalars(t *testing.T) {
	r := registry(t)
	intType := r.Lookup("Int")

	v, err := system.CoerceValue(float64(42), intType)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	_, err = system.CoerceValue(float64(1.5), intType)
	assert.Error(t, err)

	boolType := r.Lookup("Boolean")
	v, err = system.CoerceValue(true, boolType)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestCoerceValueNonNullRejectsNull(t *testing.T) {
	r := registry(t)
	nonNullString := &system.NonNull{Type: r.Lookup("String")}
	_, err := system.CoerceValue(nil, nonNullString)
	assert.Error(t, err)
}

func TestCoerceValueList(t *testing.T) {
	r := registry(t)
	listOfInt := &system.List{Type: r.Lookup("Int")}

	v, err := system.CoerceValue([]interface{}{float64(1), float64(2), float64(3)}, listOfInt)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int32(1), int32(2), int32(3)}, v)

	v, err = system.CoerceValue(float64(7), listOfInt)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int32(7)}, v)
}

func TestCoerceValueEnum(t *testing.T) {
	enum := &system.Enum{Name: "Episode", Values: []string{"NEWHOPE", "EMPIRE", "JEDI"}}
	v, err := system.CoerceValue("EMPIRE", enum)
	require.NoError(t, err)
	assert.Equal(t, "EMPIRE", v)

	_, err = system.CoerceValue("UNKNOWN", enum)
	assert.Error(t, err)
}

func TestCoerceValueEnumDistinguishesWrongGoTypeFromUnknownMember(t *testing.T) {
	enum := &system.Enum{Name: "Color", Values: []string{"RED", "GREEN", "BLUE"}}

	_, err := system.CoerceValue("BLURPLE", enum)
	require.Error(t, err)
	assert.Equal(t, `Invalid value for enum "Color".`, err.Error())

	_, err = system.CoerceValue(123, enum)
	require.Error(t, err)
	assert.Equal(t, `Expected "Color", found not a string or enum.`, err.Error())
}

// TestCoerceLiteralRejectsStringForEnum guards against the bug where a
// quoted string literal and a bare enum token both reduce to the same Go
// string before the enum membership check runs, letting `color: "RED"`
// through as readily as `color: RED`.
func TestCoerceLiteralRejectsStringForEnum(t *testing.T) {
	enum := &system.Enum{Name: "Color", Values: []string{"RED", "GREEN", "BLUE"}}

	_, err := system.CoerceLiteral(&ast.StringValue{Value: "RED"}, enum)
	assert.Error(t, err)

	v, err := system.CoerceLiteral(&ast.EnumValue{Value: "RED"}, enum)
	require.NoError(t, err)
	assert.Equal(t, "RED", v)

	_, err = system.CoerceLiteral(&ast.EnumValue{Value: "BLURPLE"}, enum)
	assert.Error(t, err)
}

func TestCoerceLiteralRejectsStringForEnumBehindNonNull(t *testing.T) {
	enum := &system.Enum{Name: "Color", Values: []string{"RED"}}
	nonNullEnum := &system.NonNull{Type: enum}

	_, err := system.CoerceLiteral(&ast.StringValue{Value: "RED"}, nonNullEnum)
	assert.Error(t, err)
}

func TestCoerceLiteralEnumInList(t *testing.T) {
	enum := &system.Enum{Name: "Color", Values: []string{"RED", "GREEN"}}
	list := &system.List{Type: enum}

	v, err := system.CoerceLiteral(&ast.ListValue{Values: []ast.Value{
		&ast.EnumValue{Value: "RED"},
		&ast.EnumValue{Value: "GREEN"},
	}}, list)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"RED", "GREEN"}, v)

	_, err = system.CoerceLiteral(&ast.ListValue{Values: []ast.Value{
		&ast.StringValue{Value: "RED"},
	}}, list)
	assert.Error(t, err)
}

func TestCoerceValueInputObjectAppliesDefaultsAndRequiredFields(t *testing.T) {
	r := registry(t)
	input := &system.InputObject{
		Name: "ReviewInput",
		Fields: map[string]*system.InputField{
			"stars":   {Type: &system.NonNull{Type: r.Lookup("Int")}},
			"comment": {Type: r.Lookup("String"), DefaultValue: "no comment"},
		},
	}

	v, err := system.CoerceValue(map[string]interface{}{"stars": float64(5)}, input)
	require.NoError(t, err)
	obj := v.(map[string]interface{})
	assert.Equal(t, int32(5), obj["stars"])
	assert.Equal(t, "no comment", obj["comment"])

	_, err = system.CoerceValue(map[string]interface{}{}, input)
	assert.Error(t, err)

	_, err = system.CoerceValue(map[string]interface{}{"stars": float64(5), "bogus": true}, input)
	assert.Error(t, err)
}

type reviewInput struct {
	Stars   int32  `json:"stars" validate:"min=0,max=5"`
	Comment string `json:"comment"`
}

func TestCoerceValueInputObjectRunsStructValidation(t *testing.T) {
	r := registry(t)
	input := &system.InputObject{
		Name: "ReviewInput",
		Fields: map[string]*system.InputField{
			"stars":   {Type: &system.NonNull{Type: r.Lookup("Int")}},
			"comment": {Type: r.Lookup("String"), DefaultValue: ""},
		},
		StructType: reflect.TypeOf(reviewInput{}),
	}

	_, err := system.CoerceValue(map[string]interface{}{"stars": float64(5)}, input)
	require.NoError(t, err)

	_, err = system.CoerceValue(map[string]interface{}{"stars": float64(9)}, input)
	assert.Error(t, err)
}

func TestCoerceLiteralWithVariable(t *testing.T) {
	r := registry(t)
	_, err := system.CoerceLiteral(&ast.Variable{Name: &ast.Name{Name: "x"}}, r.Lookup("Int"))
	assert.Error(t, err, "raw AST variables must be substituted before reaching CoerceLiteral")
}

func TestCoerceLiteralString(t *testing.T) {
	r := registry(t)
	v, err := system.CoerceLiteral(&ast.StringValue{Value: "hello"}, r.Lookup("String"))
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-management-api/internal/dto"
)

func validateJSON(t *testing.T, body string, target any) error {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), target))
	return New().Struct(target)
}

func TestIsHexColor(t *testing.T) {
	assert.True(t, IsHexColor("#ABCDEF"))
	assert.True(t, IsHexColor("#a1b2c3"))
	assert.False(t, IsHexColor("123456"))
	assert.False(t, IsHexColor("#12345"))
	assert.False(t, IsHexColor("#GGGGGG"))
	assert.False(t, IsHexColor("#1234567"))
}

func TestCreateCategory_Color(t *testing.T) {
	var ok dto.CreateCategoryRequest
	assert.NoError(t, validateJSON(t, `{"name":"Work","color":"#ABCDEF"}`, &ok))

	for _, color := range []string{`"123456"`, `"#12345"`} {
		var req dto.CreateCategoryRequest
		err := validateJSON(t, `{"name":"Work","color":`+color+`}`, &req)
		require.Error(t, err, color)

		fields, terr := Translate(err)
		require.NoError(t, terr)
		require.Len(t, fields, 1)
		assert.Equal(t, "color", fields[0].Field)
	}
}

func TestUpdateCategory_NullColorAllowed(t *testing.T) {
	var req dto.UpdateCategoryRequest
	assert.NoError(t, validateJSON(t, `{"color":null}`, &req))
	assert.True(t, req.Color.Set)
	assert.False(t, req.Color.Valid)

	var bad dto.UpdateCategoryRequest
	assert.Error(t, validateJSON(t, `{"color":"red"}`, &bad))
}

func TestCreateTodo_Rules(t *testing.T) {
	var req dto.CreateTodoRequest
	err := validateJSON(t, `{"title":"ab","priority":"urgent","category_ids":[1,0]}`, &req)
	require.Error(t, err)

	fields, terr := Translate(err)
	require.NoError(t, terr)

	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "must be at least 3 characters", byField["title"])
	assert.Equal(t, "must be one of: low, medium, high", byField["priority"])
	assert.Contains(t, byField, "category_ids[1]")
}

func TestUpdateTodo_NullableCategoryIDs(t *testing.T) {
	var cleared dto.UpdateTodoRequest
	assert.NoError(t, validateJSON(t, `{"category_ids":null}`, &cleared))

	var empty dto.UpdateTodoRequest
	assert.NoError(t, validateJSON(t, `{"category_ids":[]}`, &empty))

	var bad dto.UpdateTodoRequest
	assert.Error(t, validateJSON(t, `{"category_ids":[0]}`, &bad))
}

func TestRegister_Confirmation(t *testing.T) {
	var req dto.RegisterRequest
	err := validateJSON(t, `{"name":"Ann","email":"ann@example.com","password":"secret123","password_confirmation":"secret124"}`, &req)
	require.Error(t, err)

	fields, _ := Translate(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "password_confirmation", fields[0].Field)
}

func TestTranslate_TypeError(t *testing.T) {
	var req dto.CreateTodoRequest
	err := json.Unmarshal([]byte(`{"title":123}`), &req)
	require.Error(t, err)

	fields, terr := Translate(err)
	require.NoError(t, terr)
	require.Len(t, fields, 1)
	assert.Equal(t, "title", fields[0].Field)
	assert.Equal(t, "must be of type string", fields[0].Message)
}

func TestTranslate_Malformed(t *testing.T) {
	var req dto.CreateTodoRequest
	err := json.Unmarshal([]byte(`{"title":`), &req)
	require.Error(t, err)

	_, terr := Translate(err)
	assert.True(t, errors.Is(terr, ErrMalformedBody))
}

package converter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-service/internal/model"
)

func TestModelToDTO_FormatsCreatedAtAsISO8601(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	todo := model.Todo{
		ID:        42,
		Title:     "Write report",
		CreatedAt: time.Date(2024, 3, 1, 8, 30, 0, 123456789, loc),
	}

	dto := ModelToDTO(todo)

	assert.Equal(t, "2024-03-01T00:30:00.123Z", dto.CreatedAt)

	raw, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"title":"Write report","completed":false,"createdAt":"2024-03-01T00:30:00.123Z"}`, string(raw))
}

func TestModelsToDTOs_EmptyMarshalsAsArray(t *testing.T) {
	raw, err := json.Marshal(ModelsToDTOs(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestDTOToModel_ParsesCreatedAt(t *testing.T) {
	todo, err := DTOToModel(Todo{ID: 1, Title: "a", Completed: true, CreatedAt: "2024-03-01T00:30:00.123Z"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), todo.ID)
	assert.True(t, todo.Completed)
	assert.True(t, todo.CreatedAt.Equal(time.Date(2024, 3, 1, 0, 30, 0, 123000000, time.UTC)))
}

func TestDTOToModel_InvalidCreatedAt(t *testing.T) {
	_, err := DTOToModel(Todo{ID: 1, CreatedAt: "yesterday"})
	assert.Error(t, err)
}

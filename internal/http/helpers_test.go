package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopstadt/impactcheck/internal/database/repository"
)

func TestPopIDList(t *testing.T) {
	// Absent key: nil list, association untouched.
	updates := map[string]any{"label": "klima"}
	ids, ok := popIDList(updates, "tag_ids")
	assert.True(t, ok)
	assert.Nil(t, ids)
	assert.Contains(t, updates, "label")

	// Present list: converted and removed from the map.
	updates = map[string]any{"label": "klima", "tag_ids": []any{float64(1), float64(3)}}
	ids, ok = popIDList(updates, "tag_ids")
	assert.True(t, ok)
	assert.Equal(t, []uint{1, 3}, ids)
	assert.NotContains(t, updates, "tag_ids")

	// Empty list stays distinguishable from absent.
	updates = map[string]any{"tag_ids": []any{}}
	ids, ok = popIDList(updates, "tag_ids")
	assert.True(t, ok)
	require.NotNil(t, ids)
	assert.Empty(t, ids)

	// Malformed values are rejected.
	_, ok = popIDList(map[string]any{"tag_ids": "nope"}, "tag_ids")
	assert.False(t, ok)
	_, ok = popIDList(map[string]any{"tag_ids": []any{"x"}}, "tag_ids")
	assert.False(t, ok)
	_, ok = popIDList(map[string]any{"tag_ids": []any{float64(-1)}}, "tag_ids")
	assert.False(t, ok)
}

func TestRespondRepositoryError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", &repository.NotFoundError{Entity: "Tag", Key: "id", Value: "9"}, http.StatusNotFound},
		{"invalid field", &repository.InvalidFieldError{Entity: "Tag", Field: "id"}, http.StatusBadRequest},
		{"forbidden", &repository.AuthorizationError{Reason: "wrong municipality"}, http.StatusForbidden},
		{"wrapped commit error", &repository.CommitError{Err: errors.New("disk full")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondRepositoryError(c, tc.err, "test")
			assert.Equal(t, tc.status, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body.Error)
			} else {
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	t.Run("unwraps wrapped errors", func(t *testing.T) {
		err := fmt.Errorf("liking plan: %w", BadRequest("already liked"))
		got := From(err)
		require.Equal(t, http.StatusBadRequest, got.Status)
		require.Equal(t, "already liked", got.Message)
		require.True(t, Is(err, http.StatusBadRequest))
	})

	t.Run("hides unknown errors", func(t *testing.T) {
		got := From(errors.New("connection reset by peer"))
		require.Equal(t, http.StatusInternalServerError, got.Status)
		require.Equal(t, "internal server error", got.Message)
	})
}

func TestErrorString(t *testing.T) {
	require.Equal(t, "404 Not Found: meal plan not found", NotFound("meal plan not found").Error())
	require.Equal(t, http.StatusUnprocessableEntity, UnprocessableEntity("x").Status)
	require.Equal(t, http.StatusForbidden, Forbidden("x").Status)
}

package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/address-tiles/internal/pkg/errors"
)

func TestAppError_WithDetailsDoesNotMutateShared(t *testing.T) {
	detailed := errors.ErrInvalidZoomRange.WithDetails(map[string]interface{}{"min_zoom": 20})

	assert.Equal(t, 20, detailed.Details["min_zoom"])
	assert.Empty(t, errors.ErrInvalidZoomRange.Details)
	assert.True(t, stderrors.Is(detailed, errors.ErrInvalidZoomRange))
	assert.False(t, stderrors.Is(detailed, errors.ErrInvalidGeometry))
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("load street: %w", errors.ErrStreetNotFound)

	appErr, ok := errors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
	assert.Equal(t, "STREET_NOT_FOUND: Street not found", appErr.Error())

	_, ok = errors.As(stderrors.New("plain"))
	assert.False(t, ok)
}

package errors

import "net/http"

var (
	ErrStreetNotFound = New(
		"STREET_NOT_FOUND",
		"Street not found",
		http.StatusNotFound,
	)

	ErrAddressNotFound = New(
		"ADDRESS_NOT_FOUND",
		"Address point not found",
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidGeometry = New(
		"INVALID_GEOMETRY",
		"Invalid or missing geometry",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidZoomRange = New(
		"INVALID_ZOOM_RANGE",
		"Invalid zoom configuration: zoom must be between 0 and 24 and min_zoom <= max_zoom",
		http.StatusBadRequest,
	)

	ErrTooManyTiles = New(
		"TOO_MANY_TILES",
		"Geometry covers too many tiles at requested zoom",
		http.StatusUnprocessableEntity,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

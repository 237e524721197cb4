package errors

import "net/http"

var (
	ErrParcelNotFound = New(
		"PARCEL_NOT_FOUND",
		"Parcel not found",
		http.StatusNotFound,
	)

	ErrTransformFailed = New(
		"TRANSFORM_FAILED",
		"Coordinate transformation failed",
		http.StatusUnprocessableEntity,
	)

	ErrInsufficientPoints = New(
		"INSUFFICIENT_POINTS",
		"Not enough survey points to build parcel geometry",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidGeometry = New(
		"INVALID_GEOMETRY",
		"Invalid polygon geometry",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
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

	ErrStreamError = New(
		"STREAM_ERROR",
		"Stream operation failed",
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

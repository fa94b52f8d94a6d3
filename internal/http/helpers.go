package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/koopstadt/impactcheck/internal/database/repository"
)

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with a message.
type SuccessResponse struct {
	Message string `json:"message"`
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondRepositoryError maps the typed repository errors onto HTTP status
// codes. Anything unrecognized is logged and reported as a 500 without
// exposing the underlying error.
func respondRepositoryError(c *gin.Context, err error, context string) {
	switch {
	case repository.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case repository.IsInvalidField(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case isAuthorizationError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("Internal error (%s): %v", context, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func isAuthorizationError(err error) bool {
	var authErr *repository.AuthorizationError
	return errors.As(err, &authErr)
}

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// popIDList removes key from a decoded JSON update map and converts its
// value to an ID list. Returns nil when the key is absent, which callers
// treat as "leave the association untouched". The second return is false
// when the value is present but malformed.
func popIDList(updates map[string]any, key string) ([]uint, bool) {
	raw, present := updates[key]
	if !present {
		return nil, true
	}
	delete(updates, key)

	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	ids := make([]uint, 0, len(list))
	for _, v := range list {
		f, ok := v.(float64)
		if !ok || f < 0 {
			return nil, false
		}
		ids = append(ids, uint(f))
	}
	return ids, true
}

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 and returns false on failure.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

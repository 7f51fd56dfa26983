package handler // handler defines the HTTP handlers of the API

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ludo-board-api/internal/validate"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// pathID parses the numeric :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// fieldError renders a validation failure in the field-tagged shape used by
// the resource endpoints: {"<field>": ["<message>"]}.
func fieldError(c echo.Context, err *validate.Error) error {
	return c.JSON(http.StatusBadRequest, echo.Map{err.Field: []string{err.Message}})
}

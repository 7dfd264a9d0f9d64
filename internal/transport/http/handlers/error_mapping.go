package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCase maps a sentinel error to an envelope code and message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError resolves the error against known cases or falls
// back to a 500 envelope.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase) {
	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			Fail(c, cs.Status, cs.Message)
			return
		}
	}

	_ = c.Error(err)
	Fail(c, http.StatusInternalServerError, "internal server error")
}

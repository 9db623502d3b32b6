package qerrors

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrorResponse is the JSON body written for a failed request.
type ErrorResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Render writes err as an ErrorResponse with the status from StatusCode.
func Render(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, StatusCode(err))
	render.JSON(w, r, ErrorResponse{Title: Title(err), Description: err.Error()})
}

package response

import (
	"net/http"
)

func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	h.write(w, r, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/GregMSThompson/onboarding/internal/errs"
)

const maxBodyBytes = 1 << 20

// decodeJSON treats an empty body as the zero value so the service layer
// reports which fields are missing. Any other decode failure, including a
// truncated body, is a 400.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return errs.NewMalformedBodyError(err)
	}
	return nil
}

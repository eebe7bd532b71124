package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// bind decodes a JSON body into dst and validates it.
// Validation failures on an "email" tag are reported as an invalid address.
func bind(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return newHTTPError(http.StatusRequestEntityTooLarge, "Request body too large", err)
		}
		return newHTTPError(http.StatusBadRequest, msgInvalidBody, err)
	}

	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && isEmailField(verrs[0]) {
			return newHTTPError(http.StatusBadRequest, msgInvalidEmail, err)
		}
		return newHTTPError(http.StatusBadRequest, msgInvalidBody, err)
	}
	return nil
}

type normalizer interface {
	normalize()
}

func isEmailField(fe validator.FieldError) bool {
	return fe.Field() == "Email" || fe.Field() == "To"
}

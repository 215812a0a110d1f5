package handlers

import (
	"errors"
	"log"
	"net/http"

	"codeassess/internal/api"
	"codeassess/internal/validation"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}

// errorMessage picks the text shown inline for err: the failing field for
// validation errors, the backend detail for API errors, fallback otherwise
func errorMessage(err error, fallback string) string {
	var ve validation.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return api.ErrorDetail(err, fallback)
}

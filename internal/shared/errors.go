package shared

import "errors"

var (

	// common errors
	ErrorNotFound = errors.New("not found")

	// credential-store errors
	ErrorInvalidCredential = errors.New("invalid credential")

	// input/row validation errors
	ErrorValidation = errors.New("validation error")

	// external AI collaborator errors; converted to degraded content
	// at the provider boundary, never surfaced to navigation
	ErrorProviderFailure = errors.New("provider failure")
)

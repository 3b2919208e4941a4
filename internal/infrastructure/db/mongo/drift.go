package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// documentValidationFailure is the server error code raised when a write
// violates a collection's $jsonSchema validator.
const documentValidationFailure = 121

const unknownColumnPrefix = "unknown column: "

// mapDriftError classifies write failures caused by a storage schema that
// lags behind the application. Gateways fronting the store reject
// unrecognized fields with a textual "unknown column: <name>" error; the
// server itself raises code 121 on validator mismatches. Everything else
// passes through untouched.
func mapDriftError(err error) error {
	if err == nil {
		return nil
	}

	if i := strings.Index(err.Error(), unknownColumnPrefix); i >= 0 {
		field := strings.TrimSpace(err.Error()[i+len(unknownColumnPrefix):])
		return &domain.SchemaDriftError{Field: field}
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, writeErr := range we.WriteErrors {
			if writeErr.Code == documentValidationFailure {
				return &domain.SchemaDriftError{}
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == documentValidationFailure {
		return &domain.SchemaDriftError{}
	}

	return err
}

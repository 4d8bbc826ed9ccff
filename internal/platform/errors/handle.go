package errors

import (
	"errors"

	"github.com/therili1/buckshot-roulette-bot/internal/platform/errors/i18n"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultLocale is the default locale for error messages.
const DefaultLocale = "en-US"

// HandleError converts domain errors to gRPC status for client responses.
// The user-facing message is formatted from the i18n catalog for locale.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && GetCode(err) == CodeUnknown {
		return err
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		catalog := i18n.GetCatalog(localeOrDefault(locale))
		return appErr.ToGRPCStatus(catalog.Locale(), catalog.Format(string(appErr.Code), appErr.Metadata))
	}

	return status.Error(codes.Internal, "an unexpected error occurred")
}

// UserMessage renders the localized user-facing message for err.
func UserMessage(err error, locale string) string {
	catalog := i18n.GetCatalog(localeOrDefault(locale))
	var appErr *Error
	if errors.As(err, &appErr) {
		return catalog.Format(string(appErr.Code), appErr.Metadata)
	}
	return catalog.Format(string(CodeUnknown), nil)
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

func localeOrDefault(locale string) string {
	if locale == "" {
		return DefaultLocale
	}
	return locale
}

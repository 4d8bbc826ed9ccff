// Package errors provides structured error handling with i18n support.
package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInvalidFilter   Code = "INVALID_FILTER"

	// Table errors
	CodeSessionNotFound        Code = "SESSION_NOT_FOUND"
	CodePlayerInAnotherSession Code = "PLAYER_IN_ANOTHER_SESSION"

	// Session errors
	CodeAlreadyJoined    Code = "ALREADY_JOINED"
	CodeNotEnoughPlayers Code = "NOT_ENOUGH_PLAYERS"
	CodeInvalidState     Code = "INVALID_STATE"
	CodeUnknownPlayer    Code = "UNKNOWN_PLAYER"
	CodeNotYourTurn      Code = "NOT_YOUR_TURN"
	CodeNoItems          Code = "NO_ITEMS"
	CodeNoPlayers        Code = "NO_PLAYERS"

	// Invariant violations
	CodeEmptyChamber Code = "EMPTY_CHAMBER"

	// Storage errors
	CodeMatchNotFound Code = "MATCH_NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidArgument,
		CodeInvalidFilter:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeNotEnoughPlayers,
		CodeInvalidState,
		CodeNotYourTurn,
		CodeNoItems,
		CodeNoPlayers,
		CodePlayerInAnotherSession:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeSessionNotFound,
		CodeUnknownPlayer,
		CodeMatchNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeAlreadyJoined:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c.GRPCCode() {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.FailedPrecondition, codes.AlreadyExists:
		return http.StatusConflict
	case codes.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

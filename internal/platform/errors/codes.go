// Package errors provides structured error handling for the game core.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Session errors
	CodeSessionUserHasActiveGame Code = "SESSION_USER_HAS_ACTIVE_GAME"
	CodeSessionAlreadyStarted    Code = "SESSION_ALREADY_STARTED"
	CodeSessionOwnGameJoin       Code = "SESSION_OWN_GAME_JOIN"
	CodeSessionNotWaiting        Code = "SESSION_NOT_WAITING"
	CodeSessionNotActive         Code = "SESSION_NOT_ACTIVE"
	CodeSessionNotParticipant    Code = "SESSION_NOT_PARTICIPANT"
	CodeSessionNotCreator        Code = "SESSION_NOT_CREATOR"
	CodeSessionTerminal          Code = "SESSION_TERMINAL"
	CodeSessionInvalidTransition Code = "SESSION_INVALID_STATUS_TRANSITION"
	CodeSessionNotOverYet        Code = "SESSION_NOT_OVER_YET"
	CodeSessionJoinCodeExhausted Code = "SESSION_JOIN_CODE_EXHAUSTED"
	CodeSessionOutOfTurn         Code = "SESSION_OUT_OF_TURN"
	CodeSessionEmptyUserID       Code = "SESSION_EMPTY_USER_ID"
	CodeSessionEmptyTeamID       Code = "SESSION_EMPTY_TEAM_ID"
	CodeSessionInvalidJoinCode   Code = "SESSION_INVALID_JOIN_CODE"

	// Team errors
	CodeTeamNotOwned   Code = "TEAM_NOT_OWNED"
	CodeTeamIncomplete Code = "TEAM_INCOMPLETE"

	// Play resolution errors
	CodeDiceInvalidRoll Code = "DICE_INVALID_ROLL"
	CodeDiceMissing     Code = "DICE_MISSING"
	CodeDiceInvalidSpec Code = "DICE_INVALID_SPEC"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
	CodeStorage  Code = "STORAGE_FAILURE"
)

// Class is the coarse business-rule category a code belongs to. Clients use
// the class to decide whether to reprompt, pick a different action, or show
// a terminal error.
type Class string

const (
	// ClassValidation covers malformed input and incomplete rosters.
	ClassValidation Class = "validation_error"
	// ClassForbidden covers non-owner and non-participant access.
	ClassForbidden Class = "forbidden"
	// ClassNotFound covers unknown ids and join codes.
	ClassNotFound Class = "not_found"
	// ClassConflict covers session state that disallows the operation.
	ClassConflict Class = "conflict"
	// ClassInternal covers transient infrastructure failures.
	ClassInternal Class = "internal"
)

// Class maps a code to its business-rule category.
func (c Code) Class() Class {
	switch c {
	case CodeSessionEmptyUserID,
		CodeSessionEmptyTeamID,
		CodeSessionInvalidJoinCode,
		CodeTeamIncomplete,
		CodeDiceInvalidRoll,
		CodeDiceMissing,
		CodeDiceInvalidSpec:
		return ClassValidation

	case CodeSessionNotParticipant,
		CodeSessionNotCreator,
		CodeTeamNotOwned:
		return ClassForbidden

	case CodeNotFound:
		return ClassNotFound

	case CodeSessionUserHasActiveGame,
		CodeSessionAlreadyStarted,
		CodeSessionOwnGameJoin,
		CodeSessionNotWaiting,
		CodeSessionNotActive,
		CodeSessionTerminal,
		CodeSessionInvalidTransition,
		CodeSessionNotOverYet,
		CodeSessionOutOfTurn:
		return ClassConflict

	default:
		return ClassInternal
	}
}

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c.Class() {
	case ClassValidation:
		return codes.InvalidArgument
	case ClassForbidden:
		return codes.PermissionDenied
	case ClassNotFound:
		return codes.NotFound
	case ClassConflict:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// Retriable reports whether the code represents a transient failure that an
// external retry policy may safely attempt again. Business-rule rejections
// are deterministic and never retriable.
func (c Code) Retriable() bool {
	return c.Class() == ClassInternal
}

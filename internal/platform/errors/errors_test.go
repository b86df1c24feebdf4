package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeSessionNotActive, "game is not active")
	target := New(CodeSessionNotActive, "different message")

	if !errors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(err, New(CodeNotFound, "other")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeStorage, "save session", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be found in chain")
	}
	if err.Error() != "save session" {
		t.Fatalf("expected message %q, got %q", "save session", err.Error())
	}
}

func TestClassMapping(t *testing.T) {
	tests := []struct {
		code Code
		want Class
	}{
		{CodeTeamIncomplete, ClassValidation},
		{CodeSessionOwnGameJoin, ClassConflict},
		{CodeDiceInvalidRoll, ClassValidation},
		{CodeTeamNotOwned, ClassForbidden},
		{CodeSessionNotParticipant, ClassForbidden},
		{CodeNotFound, ClassNotFound},
		{CodeSessionUserHasActiveGame, ClassConflict},
		{CodeSessionAlreadyStarted, ClassConflict},
		{CodeSessionOutOfTurn, ClassConflict},
		{CodeStorage, ClassInternal},
		{CodeUnknown, ClassInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.Class(); got != tt.want {
				t.Fatalf("expected class %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRetriability(t *testing.T) {
	if IsRetriable(New(CodeSessionNotWaiting, "already started")) {
		t.Fatal("business errors must not be retriable")
	}
	if !IsRetriable(Wrap(CodeStorage, "save session", fmt.Errorf("timeout"))) {
		t.Fatal("storage failures must be retriable")
	}
	if !IsRetriable(fmt.Errorf("plain transient error")) {
		t.Fatal("non-domain errors count as transient and retriable")
	}
	if IsRetriable(nil) {
		t.Fatal("nil error is not retriable")
	}
}

func TestToGRPCStatus(t *testing.T) {
	err := WithMetadata(CodeSessionNotCreator, "only the creator can cancel", map[string]string{
		"UserID": "u1",
	})

	st, ok := status.FromError(err.ToGRPCStatus())
	if !ok {
		t.Fatal("expected a gRPC status error")
	}
	if st.Code() != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", st.Code())
	}
	if st.Message() != "only the creator can cancel" {
		t.Fatalf("unexpected status message %q", st.Message())
	}
	if len(st.Details()) == 0 {
		t.Fatal("expected error details to be attached")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeSessionInvalidJoinCode, codes.InvalidArgument},
		{CodeSessionNotCreator, codes.PermissionDenied},
		{CodeNotFound, codes.NotFound},
		{CodeSessionTerminal, codes.FailedPrecondition},
		{CodeStorage, codes.Internal},
	}
	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Errorf("code %s: expected %v, got %v", tt.code, tt.want, got)
		}
	}
}

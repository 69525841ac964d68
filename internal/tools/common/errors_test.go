package common

import (
	"errors"
	"strings"
	"testing"

	"github.com/teemow/tickdone/internal/ticktick"
)

func TestFormatToolError_PlainError(t *testing.T) {
	msg := FormatToolError("create task", errors.New("boom"))

	if !strings.Contains(msg, "Failed to create task") {
		t.Errorf("expected action in message, got %q", msg)
	}
	if !strings.Contains(msg, "boom") {
		t.Errorf("expected original error in message, got %q", msg)
	}
}

func TestFormatToolError_Guidance(t *testing.T) {
	tests := []struct {
		kind     ticktick.ErrorKind
		guidance string
	}{
		{ticktick.KindAuthentication, "session is no longer valid"},
		{ticktick.KindNotFound, "does not exist"},
		{ticktick.KindValidation, "rejected the request"},
		{ticktick.KindConfiguration, "silently mishandled"},
		{ticktick.KindRateLimit, "Too many requests"},
		{ticktick.KindQuota, "plan limit"},
		{ticktick.KindForbidden, "not allowed"},
		{ticktick.KindServer, "server error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := &ticktick.APIError{Kind: tt.kind, Op: "test", Message: "nope"}
			msg := FormatToolError("update task", err)

			if !strings.Contains(msg, tt.guidance) {
				t.Errorf("expected guidance %q in message, got %q", tt.guidance, msg)
			}
		})
	}
}

func TestFormatToolError_UnknownKindNoGuidance(t *testing.T) {
	err := &ticktick.APIError{Kind: ticktick.KindUnknown, Op: "test", Message: "nope"}
	msg := FormatToolError("sync", err)

	if strings.Contains(msg, "\n\n") {
		t.Errorf("expected no guidance block for unknown kind, got %q", msg)
	}
}

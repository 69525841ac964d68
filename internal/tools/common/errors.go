package common

import (
	"errors"
	"fmt"

	"github.com/teemow/tickdone/internal/ticktick"
)

// FormatToolError converts a client error into a message with actionable
// guidance for the calling agent. The raw error text is always included so
// the agent can report specifics.
func FormatToolError(action string, err error) string {
	var guidance string

	var apiErr *ticktick.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case ticktick.KindAuthentication:
			guidance = "The TickTick session is no longer valid. Restart the server or wait for the session keeper to sign in again."
		case ticktick.KindNotFound:
			guidance = "The referenced task or project does not exist. List projects or sync first to get current ids."
		case ticktick.KindValidation:
			guidance = "The service rejected the request. Check the field values and try again."
		case ticktick.KindConfiguration:
			guidance = "The request was not sent because it would be silently mishandled by the service. Fix the noted field first."
		case ticktick.KindRateLimit:
			guidance = "Too many requests. Wait before retrying."
		case ticktick.KindQuota:
			guidance = "A plan limit was reached. Remove items or upgrade the TickTick plan."
		case ticktick.KindForbidden:
			guidance = "The account is not allowed to perform this operation."
		case ticktick.KindServer:
			guidance = "TickTick returned a server error. Retrying later may help."
		}
	}

	if guidance == "" {
		return fmt.Sprintf("Failed to %s: %v", action, err)
	}
	return fmt.Sprintf("Failed to %s: %v\n\n%s", action, err, guidance)
}

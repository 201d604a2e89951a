package protocol

import (
	"consultoria-tcp/errors"
)

// FromError converts a handler or framing error into the reply sent to the
// client. Known sentinels keep their text; anything else is reported as a
// processing failure.
func FromError(requestID string, err error) Response {
	if requestID == "" {
		requestID = UnknownRequestID
	}
	if errors.KindOf(err) == errors.KindInternal {
		return CreateError(requestID, "failed to process command: "+err.Error())
	}
	return CreateError(requestID, err.Error())
}

package domain

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrNotHost            = errors.New("only the host can do this")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTransition  = errors.New("invalid phase transition")
	ErrNotInRoom          = errors.New("connection is not in this room")
	ErrAlreadyInRoom      = errors.New("connection already occupies a room")
	ErrSubmissionClosed   = errors.New("question submission is closed")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrUnknownEvent       = errors.New("unknown event")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique room code")
)

// Reason codes sent to clients in error replies.
const (
	ReasonRoomNotFound      = "RoomNotFound"
	ReasonRoomFull          = "RoomFull"
	ReasonNotHost           = "NotHost"
	ReasonInvalidInput      = "InvalidInput"
	ReasonInvalidTransition = "InvalidTransition"
	ReasonNotInRoom         = "NotInRoom"
	ReasonAlreadyInRoom     = "AlreadyInRoom"
	ReasonSubmissionClosed  = "SubmissionClosed"
	ReasonRateLimited       = "RateLimited"
	ReasonUnknownEvent      = "UnknownEvent"
	ReasonInternal          = "InternalError"
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrRoomNotFound, ReasonRoomNotFound},
	{ErrRoomFull, ReasonRoomFull},
	{ErrNotHost, ReasonNotHost},
	{ErrInvalidInput, ReasonInvalidInput},
	{ErrInvalidTransition, ReasonInvalidTransition},
	{ErrNotInRoom, ReasonNotInRoom},
	{ErrAlreadyInRoom, ReasonAlreadyInRoom},
	{ErrSubmissionClosed, ReasonSubmissionClosed},
	{ErrRateLimited, ReasonRateLimited},
	{ErrUnknownEvent, ReasonUnknownEvent},
}

// Reason maps err to its client-facing reason code. The second result is
// false for errors outside the recoverable taxonomy.
func Reason(err error) (string, bool) {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason, true
		}
	}
	return ReasonInternal, false
}

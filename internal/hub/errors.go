package hub

import "errors"

// ErrChannelNotFound is returned when no sender is registered for a channel tag.
var ErrChannelNotFound = errors.New("invalid notification type")

// ErrSendFailed wraps a sender's transport error. Subscribers are not notified
// when it occurs.
var ErrSendFailed = errors.New("send failed")

package app

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a failed deletion call.
type ErrorKind int

const (
	// KindTransient covers network failures, timeouts and anything unexpected.
	KindTransient ErrorKind = iota
	// KindAlreadyGone means the posts no longer exist.
	KindAlreadyGone
	// KindUnauthorized means the deletion is not permitted in the channel.
	KindUnauthorized
	// KindUnsupported means the channel kind does not allow the deletion.
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindAlreadyGone:
		return "already_gone"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnsupported:
		return "unsupported"
	default:
		return "transient"
	}
}

var (
	ErrAlreadyGone  = errors.New("posts already deleted.")
	ErrUnauthorized = errors.New("not allowed to delete posts in channel.")
	ErrUnsupported  = errors.New("channel does not support post deletion.")
)

// DeleteError is returned by a Deleter when a batch could not be fully deleted.
type DeleteError struct {
	Kind      ErrorKind
	ChannelID string
	Err       error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete in channel %s failed (%s): %v", e.ChannelID, e.Kind, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Errors that carry no kind are transient.
func KindOf(err error) ErrorKind {
	var de *DeleteError
	if errors.As(err, &de) {
		return de.Kind
	}

	switch {
	case errors.Is(err, ErrAlreadyGone):
		return KindAlreadyGone
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	}
	return KindTransient
}

// IsAlreadyGone reports whether err only means the posts no longer exist.
func IsAlreadyGone(err error) bool {
	return err != nil && KindOf(err) == KindAlreadyGone
}

package cli

import "errors"

var (
	ErrPurgeFailed   = errors.New("some users could not be purged")
	ErrRestoreFailed = errors.New("some users could not be restored")
	ErrInvalidUserID = errors.New("user ids must be positive integers")
)

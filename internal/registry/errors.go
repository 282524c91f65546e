package registry

import "errors"

var (
	ErrUnknownPurpose    = errors.New("unknown reference purpose")
	ErrReadingRegistry   = errors.New("failed to read registry file")
	ErrDecodingRegistry  = errors.New("failed to decode registry file")
	ErrPluginCheckFailed = errors.New("failed to check plugin installation")
)

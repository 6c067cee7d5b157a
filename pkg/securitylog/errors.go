package securitylog

import "errors"

var (
	ErrBufferFull     = errors.New("security event buffer is full")
	ErrSinkClosed     = errors.New("security event sink is closed")
	ErrEmptyEventName = errors.New("security event name is required")
	ErrStoreOpen      = errors.New("failed to open security event store")
	ErrStoreQuery     = errors.New("failed to query security events")
	ErrStoreWrite     = errors.New("failed to write security event")
)

package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// Status is the decision a purge run recorded for a user. The zero value
// means "not yet decided": such users simply have no ledger entry.
//
// Statuses are persisted as their text code, never as an ordinal, so that
// adding or reordering statuses does not change the meaning of stored rows.
type Status string

const (
	// StatusNoPurge marks a user that still owns content and will not be purged.
	StatusNoPurge Status = "no_purge"

	// StatusSuspensionNotified marks a user that was warned about an upcoming suspension.
	StatusSuspensionNotified Status = "suspension_notified"

	// StatusSuspended marks a suspended user.
	StatusSuspended Status = "suspended"

	// StatusDeleted marks a user whose identity record was archived and removed.
	StatusDeleted Status = "deleted"

	// StatusRestored marks a user whose identity record was re-inserted from the archive.
	StatusRestored Status = "restored"
)

var ErrUnknownStatus = errors.New("unknown user status")

var knownStatuses = []Status{
	StatusNoPurge,
	StatusSuspensionNotified,
	StatusSuspended,
	StatusDeleted,
	StatusRestored,
}

// Valid reports whether s is one of the known status codes.
func (s Status) Valid() bool {
	for _, known := range knownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(src any) error {
	var code string
	switch v := src.(type) {
	case string:
		code = v
	case []byte:
		code = string(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrUnknownStatus, src)
	}

	status := Status(code)
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, code)
	}
	*s = status
	return nil
}

// StatusEntry is the current ledger row for one (user, status) pair.
type StatusEntry struct {
	UserID    int64
	Status    Status
	Timestamp time.Time
}

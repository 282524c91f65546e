package models

import "time"

// Backup is an archived copy of a host record taken right before the record
// was deleted. It is identified by (Table, RecordID, UserID).
type Backup struct {
	// Table is the name of the table the record was taken from.
	Table string

	// RecordID is the primary key of the archived record.
	RecordID int64

	// UserID is the user the record belongs to. For identity records it equals RecordID.
	UserID int64

	// Timestamp is the moment the snapshot was taken.
	Timestamp time.Time

	// Record is the full row as it was before deletion.
	Record Snapshot
}

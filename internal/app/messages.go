// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// purgeusers commands.
//
// All Msg* constants are human-readable strings written to the command
// output to describe the outcome of a run. Keeping them in one place ensures
// consistent wording across commands and their tests.
package app

const (
	// MsgNoUsersToPurge is printed when the candidate fetch returns no users.
	MsgNoUsersToPurge = "There are no users to purge."

	// MsgNoUsersToRestore is printed when restore is called without ids.
	MsgNoUsersToRestore = "There are no users to restore."

	// MsgUsersToPurge heads the dry-run list of purgeable users.
	MsgUsersToPurge = "The following users will be purged:"

	// MsgUsersToKeep heads the dry-run list of users kept because of their
	// activity. Each id is followed by the group that blocked it.
	MsgUsersToKeep = "The following users have activity and will be kept:"

	// MsgUsersToRestore heads the dry-run list of restorable users.
	MsgUsersToRestore = "The following users will be restored:"

	// MsgUsersAlreadyPresent heads the dry-run list of users whose identity
	// record still exists.
	MsgUsersAlreadyPresent = "The following users are already present:"

	// MsgUsersWithoutBackup heads the dry-run list of users that have nothing
	// to restore.
	MsgUsersWithoutBackup = "No backup was found for the following users:"

	// MsgRegistryIsValid is printed by validate on success.
	MsgRegistryIsValid = "Registry is valid."

	// MsgNoUsersToShow is printed when status is called without ids.
	MsgNoUsersToShow = "There are no users to show."

	// MsgNoLedgerEntries follows the id of a user that has no ledger entry.
	MsgNoLedgerEntries = "has no ledger entries"
)

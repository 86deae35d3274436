package services

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	ErrTeamNotFound      = errors.New("team not found")
	ErrNotTeamMember     = errors.New("user is not a member of this team")
	ErrMemberNotFound    = errors.New("member not found")
	ErrAlreadyMember     = errors.New("user is already a member of this team")
	ErrCannotRemoveOwner = errors.New("cannot remove team owner")
	ErrCannotChangeOwner = errors.New("cannot change the owner's role")
	ErrInvalidRole       = errors.New("invalid member role")

	ErrArtistNotFound   = errors.New("artist not found")
	ErrNameRequired     = errors.New("name is required")
	ErrTaskNotFound     = errors.New("task not found")
	ErrProspectNotFound = errors.New("prospect not found")
	ErrBudgetNotFound   = errors.New("budget line not found")
	ErrSnapshotNotFound = errors.New("no performance snapshot for artist")

	ErrInvalidStage      = errors.New("invalid prospect stage")
	ErrInvalidPriority   = errors.New("invalid prospect priority")
	ErrInvalidQuarter    = errors.New("quarter must look like 2026-Q1")
	ErrInvalidBudgetKind = errors.New("kind must be income or expense")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrUnknownSection    = errors.New("unknown dashboard section")
	ErrInvalidDirection  = errors.New("direction must be up or down")

	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

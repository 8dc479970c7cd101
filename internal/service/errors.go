package service

import "errors"

// Domain errors returned by the services. The handler layer translates each
// of these into an HTTP status; anything else is a 500 with a generic body.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrUserNotFound   = errors.New("user not found")
	ErrTenantNotFound = errors.New("tenant not found")
	ErrNoteNotFound   = errors.New("note not found")

	ErrSlugTaken  = errors.New("tenant slug already exists")
	ErrEmailTaken = errors.New("email already registered in this tenant")

	ErrInvitationNotFound = errors.New("invitation not found or already used")
	ErrInvitationInvalid  = errors.New("invalid or expired invitation")

	ErrForbidden = errors.New("forbidden")

	ErrTitleRequired = errors.New("title is required")
	ErrInvalidID     = errors.New("invalid id")
	ErrSelfToggle    = errors.New("you cannot change your own status")

	// ErrQuotaExceeded carries the exact message surfaced to free-plan users.
	ErrQuotaExceeded = errors.New("Free plan limit reached. Upgrade to Pro.")
)

package services

import "errors"

// Failures the web layer is expected to recover from and translate into a
// user-facing message. Every service operation returns one of these (or
// wraps an unexpected storage error).
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicate            = errors.New("username or email already in use")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrAccountDisabled      = errors.New("account is suspended")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrNotFound             = errors.New("not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotOwner             = errors.New("only the owner may do this")
	ErrNotBuyer             = errors.New("only the buyer may confirm the purchase")
	ErrAlreadySold          = errors.New("listing is no longer available")
	ErrNotReserved          = errors.New("listing is not reserved")
	ErrSelfPurchase         = errors.New("you cannot buy your own listing")
	ErrSelfReport           = errors.New("you cannot report yourself")
	ErrAlreadyReported      = errors.New("already reported")
	ErrInvalidPrice         = errors.New("price must be a positive integer")
	ErrInvalidAmount        = errors.New("amount must be a positive integer")
	ErrInsufficientFunds    = errors.New("wallet balance is too low")
	ErrCannotActOnAdmin     = errors.New("cannot sanction an administrator")
	ErrForbidden            = errors.New("permission denied")
)

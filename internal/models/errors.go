package models

import "errors"

// Sentinel errors for every expected credit/gating outcome. All of them are
// recoverable results surfaced to the caller; storage failures wrap
// ErrStorage and mean the operation did not commit.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyEarned       = errors.New("points already earned for this content")
	ErrContentNotPremium   = errors.New("content is not premium")
	ErrInsufficientBalance = errors.New("insufficient credit points")
	ErrDuplicateEarn       = errors.New("duplicate earn transaction")
	ErrAlreadySaved        = errors.New("content already saved")
	ErrAlreadyUnlocked     = errors.New("content already unlocked")

	ErrStorage = errors.New("storage failure")
)

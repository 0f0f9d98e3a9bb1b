package types

import (
	"errors"
	"fmt"
)

// Error categories. Every sentinel below wraps exactly one of these, so
// callers can match either the precise condition or the whole category
// with errors.Is (prd001-registry-core R7.1).
var (
	ErrUnauthorized = errors.New("caller is not authorized")
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Validation errors (prd001-registry-core R7.2).
var (
	ErrNoAdministrators      = fmt.Errorf("%w: administrator list must not be empty", ErrValidation)
	ErrTooManyAdministrators = fmt.Errorf("%w: administrator list exceeds %d entries", ErrValidation, MaxAdministrators)
	ErrZeroAdministrator     = fmt.Errorf("%w: administrator identity must not be zero", ErrValidation)
	ErrZeroOwner             = fmt.Errorf("%w: owner identity must not be zero", ErrValidation)
	ErrZeroCaller            = fmt.Errorf("%w: caller identity must not be zero", ErrValidation)
	ErrKeyValueMismatch      = fmt.Errorf("%w: property key and value lists differ in length", ErrValidation)
	ErrMetadataMismatch      = fmt.Errorf("%w: metadata key and value lists differ in length", ErrValidation)
	ErrEmptyAccessList       = fmt.Errorf("%w: access list must not be empty", ErrValidation)
	ErrCounterOverflow       = fmt.Errorf("%w: id counter exhausted", ErrValidation)
)

// Lookup errors (prd001-registry-core R7.3).
var (
	ErrAssetNotFound    = fmt.Errorf("%w: asset", ErrNotFound)
	ErrEventNotFound    = fmt.Errorf("%w: tracking event", ErrNotFound)
	ErrPropertyNotFound = fmt.Errorf("%w: property", ErrNotFound)
	ErrMetadataNotFound = fmt.Errorf("%w: metadata key", ErrNotFound)
)

// Backend lifecycle errors (prd002-sqlite-host R7).
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrAdminMismatch   = errors.New("stored administrator set differs from configuration")
)

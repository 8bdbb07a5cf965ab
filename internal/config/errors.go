package config

import (
	"errors"
	"fmt"
)

// Errors returned by settings operations.
var (
	// ErrUnknownKey indicates the key is not a known setting.
	ErrUnknownKey = errors.New("unknown setting")

	// ErrInvalidValue indicates the value does not parse for its setting.
	ErrInvalidValue = errors.New("invalid setting value")

	// ErrInvalidKey indicates a key without a "group." prefix.
	ErrInvalidKey = errors.New("invalid setting key")

	// ErrClosed indicates the store was closed.
	ErrClosed = errors.New("settings store closed")
)

// ValidationError describes a rejected setting value.
type ValidationError struct {
	// Key is the "group.name" key.
	Key string
	// Value is the rejected raw value.
	Value string
	// Code categorizes the failure.
	Code ValidationErrorCode
	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %q)", e.Key, e.Message, e.Value)
}

// Is matches ErrInvalidValue, and ErrUnknownKey for unknown settings.
func (e *ValidationError) Is(target error) bool {
	if e.Code == ErrCodeUnknownSetting {
		return target == ErrUnknownKey
	}
	return target == ErrInvalidValue
}

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode uint8

const (
	// ErrCodeUnknownSetting indicates an unrecognized key.
	ErrCodeUnknownSetting ValidationErrorCode = iota
	// ErrCodeTypeMismatch indicates the value does not parse as the setting's type.
	ErrCodeTypeMismatch
	// ErrCodeOutOfRange indicates a numeric value is out of range.
	ErrCodeOutOfRange
	// ErrCodeInvalidEnum indicates the value is not an allowed choice.
	ErrCodeInvalidEnum
	// ErrCodeInvalidKeybind indicates the value is not a key spec.
	ErrCodeInvalidKeybind
)

// String returns a short name for the error code.
func (c ValidationErrorCode) String() string {
	switch c {
	case ErrCodeUnknownSetting:
		return "unknown_setting"
	case ErrCodeTypeMismatch:
		return "type_mismatch"
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodeInvalidEnum:
		return "invalid_enum"
	case ErrCodeInvalidKeybind:
		return "invalid_keybind"
	default:
		return "unknown"
	}
}

// BackendError wraps a failure of the persistence backend.
type BackendError struct {
	// Op is "load" or "save".
	Op string
	// Backend names the backend, e.g. a file path or profile.
	Backend string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("%s settings from %s: %v", e.Op, e.Backend, e.Err)
}

// Unwrap returns the underlying error.
func (e *BackendError) Unwrap() error {
	return e.Err
}

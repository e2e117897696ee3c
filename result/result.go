// Package result defines the closed set of result codes returned by fallible
// adapter operations.
package result

import (
	"errors"
	"fmt"
)

// Code is a categorical operation result.
type Code uint8

const (
	OK Code = iota
	// Fail is the generic catch-all.
	Fail
	// USBNotDetected means no USB core was found on attempted use.
	USBNotDetected
	// I2CNotInitialized means the bus was used before initialization.
	I2CNotInitialized
	// I2CFailure means bus communication failed.
	I2CFailure
	// BatteryTypeNotSet means the operation needs a configured battery type.
	BatteryTypeNotSet
)

var codeTitles = [...]string{
	OK:                "ok",
	Fail:              "failure",
	USBNotDetected:    "usb core not detected",
	I2CNotInitialized: "i2c not initialized",
	I2CFailure:        "i2c communication failed",
	BatteryTypeNotSet: "battery type not set",
}

func (c Code) String() string {
	if int(c) < len(codeTitles) {
		return codeTitles[c]
	}
	return fmt.Sprintf("Code(%d)", uint8(c))
}

// Error carries a non-OK Code and an occurrence-specific detail.
type Error struct {
	Code   Code
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// Is matches any *Error with the same Code, so sentinels below work with
// errors.Is regardless of detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrFail              = &Error{Code: Fail}
	ErrUSBNotDetected    = &Error{Code: USBNotDetected}
	ErrI2CNotInitialized = &Error{Code: I2CNotInitialized}
	ErrI2CFailure        = &Error{Code: I2CFailure}
	ErrBatteryTypeNotSet = &Error{Code: BatteryTypeNotSet}
)

// Factory helpers returning *Error.
func NewFail(detail string) *Error { return &Error{Code: Fail, Detail: detail} }
func NewUSBNotDetected(detail string) *Error {
	return &Error{Code: USBNotDetected, Detail: detail}
}
func NewI2CNotInitialized(detail string) *Error {
	return &Error{Code: I2CNotInitialized, Detail: detail}
}
func NewI2CFailure(detail string) *Error { return &Error{Code: I2CFailure, Detail: detail} }
func NewBatteryTypeNotSet(detail string) *Error {
	return &Error{Code: BatteryTypeNotSet, Detail: detail}
}

// CodeOf maps err onto the closed enumeration: nil is OK, an *Error anywhere
// in the chain yields its code, anything else is Fail.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return Fail
}

// Wrap normalizes any error into *Error.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	return NewFail(err.Error())
}

package exbatch

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the workbook file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the workbook file is not a valid xlsx package.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrUnknownAction is returned when an action name is not registered.
var ErrUnknownAction = errors.New("unknown action")

// ActionError is the failure of one dispatcher action.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// InspectError represents a failure reading one part of a sheet back.
type InspectError struct {
	SheetName string
	Component string // "cells", "tables", "panes", "charts"
	Err       error
}

func (e *InspectError) Error() string {
	return fmt.Sprintf("inspect sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *InspectError) Unwrap() error {
	return e.Err
}

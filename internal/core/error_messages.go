package core

// # Error Codes Reference
//
// This file defines user-facing messages with codes for support reference.
// Operators can quote the code from the CLI output or the web error page.
//
// # Load Errors (LOAD001-LOAD099)
//
//	LOAD001 - File not found: The shipment export does not exist
//	          Action: Check the --input path or SHIPDASH_INPUT
//	LOAD002 - Unreadable file: The export could not be read or parsed as CSV
//	          Action: Re-export the file as comma-separated UTF-8
//	LOAD003 - Missing column: A required column is absent from the header
//	          Action: Export with Created Date, Tags, Customer Business Name,
//	          Vehicle Info, Distance and VIN # columns
//	LOAD004 - Empty file: The export has no data rows
//	          Action: Check that the export covers at least one shipment
//
// # Data Errors (DATA001-DATA099)
//
//	DATA001 - Empty dataset: No shipments remain after the tag rule
//	          Action: Check REPORT_EXCLUDE_TAG and the export's date column
//
// # Secondary Export (SEC001)
//
//	SEC001 - Secondary table skipped: The EOD Update-2 export was unusable
//	         Action: The report was produced without the secondary table
//
// # Input Discovery (INP001)
//
//	INP001 - No input: No CSV export was found in the input directory
//	         Action: Pass --input or place the export in SHIPDASH_INPUT_DIR
//
// # Configuration (CFG001)
//
//	CFG001 - Invalid configuration: A setting failed to load or validate
//	         Action: Fix the settings listed in the error
//
// # Output Errors (OUT001-OUT099)
//
//	OUT001 - Unknown format: The requested report format is not supported
//	         Action: Use html, xlsx or pdf
//	OUT002 - Write failed: The report file could not be written
//	         Action: Check that the output directory exists and is writable
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the logs for the technical error
//
// # Matching
//
// Typed errors (*LoadError, *EmptyDatasetError, *SecondaryAggregationError)
// are matched with errors.As first. Anything else falls through to the
// pattern table, matched case-insensitively with strings.Contains; the first
// match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var loadMessages = map[LoadErrorKind]UserMessage{
	LoadMissingFile: {
		Message: "Shipment export not found",
		Action:  "Check the --input path or SHIPDASH_INPUT",
		Code:    "LOAD001",
	},
	LoadUnreadable: {
		Message: "Shipment export could not be read",
		Action:  "Re-export the file as comma-separated UTF-8",
		Code:    "LOAD002",
	},
	LoadMissingColumn: {
		Message: "Required column is missing from the export",
		Action:  "Export with Created Date, Tags, Customer Business Name, Vehicle Info, Distance and VIN # columns",
		Code:    "LOAD003",
	},
	LoadEmpty: {
		Message: "Shipment export has no data rows",
		Action:  "Check that the export covers at least one shipment",
		Code:    "LOAD004",
	},
}

var emptyDatasetMessage = UserMessage{
	Message: "No shipments remain after cleaning",
	Action:  "Check REPORT_EXCLUDE_TAG and the export's date column",
	Code:    "DATA001",
}

var secondaryMessage = UserMessage{
	Message: "Secondary table skipped",
	Action:  "The report was produced without the EOD Update-2 table",
	Code:    "SEC001",
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch untyped errors, mostly from the output side.
// More specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "no csv file found",
		msg: UserMessage{
			Message: "No shipment export found",
			Action:  "Pass --input or place the export in SHIPDASH_INPUT_DIR",
			Code:    "INP001",
		},
	},
	{
		pattern: "config ",
		msg: UserMessage{
			Message: "Invalid configuration",
			Action:  "Fix the settings listed in the error (environment, .env or SHIPDASH_CONFIG)",
			Code:    "CFG001",
		},
	},
	{
		pattern: "unknown format",
		msg: UserMessage{
			Message: "Report format is not supported",
			Action:  "Use html, xlsx or pdf",
			Code:    "OUT001",
		},
	},
	{
		pattern: "write report",
		msg: UserMessage{
			Message: "Report file could not be written",
			Action:  "Check that the output directory exists and is writable",
			Code:    "OUT002",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "Report file could not be written",
			Action:  "Check that the output directory exists and is writable",
			Code:    "OUT002",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := core.Load(ctx, "missing.csv", core.LoadOptions{})
//	msg := MapError(err)
//	// msg.Code == "LOAD001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}
	// A secondary failure wraps a *LoadError, so it is checked first.
	var sae *SecondaryAggregationError
	if errors.As(err, &sae) {
		return secondaryMessage
	}
	var le *LoadError
	if errors.As(err, &le) {
		if msg, ok := loadMessages[le.Kind]; ok {
			return msg
		}
	}
	if errors.Is(err, ErrEmptyDataset) {
		return emptyDatasetMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil, and err
// itself if it already carries a UserError.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}

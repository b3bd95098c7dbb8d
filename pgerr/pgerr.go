// Package pgerr defines the error taxonomy shared across the module:
// caller mistakes (validation), internal defects (build), database
// failures (execution) and connection-establishment failures, each as a
// distinct type so callers can branch with errors.As.
package pgerr

import "fmt"

// ValidationError reports a caller-supplied input that can never
// execute: an invalid filter value, a missing required clause, a bad
// assignment. It is surfaced immediately and never retried. ItemIndex
// is the 0-based index of the input record being processed.
type ValidationError struct {
	Op        string
	ItemIndex int
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: record %d, field %q: %s", e.opName(), e.ItemIndex, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: record %d: %s", e.opName(), e.ItemIndex, e.Reason)
}

func (e *ValidationError) opName() string {
	if e.Op == "" {
		return "validation failed"
	}
	return e.Op + ": validation failed"
}

// UnknownColumnError reports a row key with no matching table column.
type UnknownColumnError struct {
	Column    string
	Table     string
	ItemIndex int
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("record %d: column %q does not exist in table %q", e.ItemIndex, e.Column, e.Table)
}

// NotNullViolationError reports a null value for a NOT NULL column,
// caught before the statement reaches the database.
type NotNullViolationError struct {
	Column    string
	ItemIndex int
}

func (e *NotNullViolationError) Error() string {
	return fmt.Sprintf("record %d: column %q is not nullable and has no value", e.ItemIndex, e.Column)
}

// BuildError reports a structural inconsistency between a statement's
// placeholders and its parameter list. It indicates a defect in the
// builder, not bad caller input, and is always fatal to the statement.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string {
	return "statement build error: " + e.Reason
}

// ExecutionError wraps a failure raised by the database while running
// one statement of a batch. Index is the 0-based position of the failed
// statement within the batch.
type ExecutionError struct {
	Op    string
	Index int
	Err   error
}

func (e *ExecutionError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: statement %d failed: %v", e.Op, e.Index, e.Err)
	}
	return fmt.Sprintf("statement %d failed: %v", e.Index, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ConnKind classifies a connection failure for operator diagnosis.
type ConnKind string

const (
	ConnRefused         ConnKind = "connection refused"
	ConnHostNotFound    ConnKind = "host not found"
	ConnTimeout         ConnKind = "connection timed out"
	ConnAuthFailed      ConnKind = "authentication failed"
	ConnDatabaseMissing ConnKind = "database does not exist"
	ConnSSLFailure      ConnKind = "ssl negotiation failed"
	ConnDNSFailure      ConnKind = "dns resolution failed"
	ConnUnknown         ConnKind = "connection failed"
)

// ConnectionError wraps a connect-time failure with a human-readable
// classification. The core never retries these; retry policy belongs to
// the caller.
type ConnectionError struct {
	Kind ConnKind
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

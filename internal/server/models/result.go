package models

import "net/http"

// ResultStatus is the outcome of a submit or update.
type ResultStatus string

const (
	ResultSuccess   ResultStatus = "success"
	ResultCancelled ResultStatus = "cancelled"
	ResultFailed    ResultStatus = "failed"
)

const (
	// DefaultCancelMessage is reported when a plugin cancels without a message.
	DefaultCancelMessage = "The feedback submission was cancelled by the server."
	// FailedMessage is reported when persisting a new entry fails.
	FailedMessage = "The feedback submission could not be saved due to an error on the server."
	// UpdateFailedMessage is reported when persisting an edited entry fails.
	UpdateFailedMessage = "The feedback submission could not be updated due to an error on the server."
)

// EntryResult reports how a submit or update went. StatusCode follows
// HTTP semantics so an HTTP or gRPC edge can map it directly.
type EntryResult struct {
	Status     ResultStatus
	StatusCode int
	Entry      *Entry
	Message    string
}

// Success reports a persisted entry.
func Success(e *Entry) *EntryResult {
	return &EntryResult{Status: ResultSuccess, StatusCode: http.StatusOK, Entry: e}
}

// Created reports a persisted entry with a 201 status code.
func Created(e *Entry) *EntryResult {
	return &EntryResult{Status: ResultSuccess, StatusCode: http.StatusCreated, Entry: e}
}

// Cancelled reports a plugin veto. Empty message and zero code fall back to defaults.
func Cancelled(msg string, code int) *EntryResult {
	if msg == "" {
		msg = DefaultCancelMessage
	}
	if code == 0 {
		code = http.StatusBadRequest
	}
	return &EntryResult{Status: ResultCancelled, StatusCode: code, Message: msg}
}

// Failed reports a persistence failure without exposing its cause.
func Failed(msg string) *EntryResult {
	if msg == "" {
		msg = FailedMessage
	}
	return &EntryResult{Status: ResultFailed, StatusCode: http.StatusInternalServerError, Message: msg}
}

// OK reports whether the entry was persisted.
func (r *EntryResult) OK() bool { return r.Status == ResultSuccess }

// Package errors provides structured, code-registered errors and warnings
// for the binding engine.
//
// Every reportable condition has a stable code (e.g. "E002", "W101") mapping
// to a category, message and detail. Most conditions in this system are
// logged rather than thrown: the engine degrades best-effort on caller
// contract violations and reserves hard failures for the few cases where no
// meaningful fallback exists.
package errors

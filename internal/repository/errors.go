// Package repository defines the storage interfaces consumed by the
// handlers together with their MySQL implementations. The sentinel
// errors below let higher layers distinguish failure scenarios without
// inspecting database errors: ErrTaskForbidden means the caller is not
// the owner of an existing task (HTTP 403, deliberately distinct from
// not-found), while ErrConflict signals an all-or-nothing batch that was
// rejected wholesale (HTTP 409).
package repository

import "errors"

// ErrUserNotFound is returned when no user matches the given identifier.
var ErrUserNotFound = errors.New("user not found")

// ErrTaskNotFound is returned when no task exists with the given id.
var ErrTaskNotFound = errors.New("task not found")

// ErrTaskForbidden is returned when the caller attempts a mutation on a
// task owned by someone else. Handlers translate this into HTTP 403.
var ErrTaskForbidden = errors.New("task does not belong to the current user")

// ErrConflict is returned when a bulk priority update names task ids
// that are not all owned by the caller; the whole batch is rejected and
// nothing is written. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// Package storage defines the roll journal persistence contract.
//
// A journal records every face a session rolls so a run can be audited or
// its distribution inspected later. Implementations live in subpackages.
//
// # Error Types
//
//   - ErrInvalidRoll: a record is missing its session or sequence, or its
//     face is outside [1, 6].
//   - ErrAlreadyExists: a record with the same session and sequence exists.
package storage

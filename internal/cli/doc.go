// Package cli provides the interactive MediBook command-line client.
//
// It wires configuration, the key-value store, repositories, services and
// the background completion sweep, then runs a REPL. Patients browse doctors,
// view a doctor's two-week calendar, book and cancel appointments. Doctors
// review their schedule and dashboard counters and confirm, decline or
// cancel requests.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// ctx is cancelled. See runREPL for the command list.
package cli

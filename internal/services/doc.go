// Package services contains the MediBook application services.
//
// AuthService owns accounts and the current session: lookup, credential
// checks, signup and login flows, the demo account bootstrap and the signed
// session pointer. AppointmentService owns bookings: it applies the
// scheduling rules, enforces who may move an appointment between statuses and
// persists every change through the repositories.
//
// Validation problems are returned as a field -> message map, never as an
// error. Errors are reserved for lookups that must succeed, authorization,
// state-machine violations and storage failures, and wrap the sentinels in
// internal/common.
package services

// Package scheduling holds the pure appointment rules: slot availability,
// the upcoming list for a user, appointment ids, booking form validation and
// the calendar and dashboard views derived from a list of appointments.
//
// Nothing here touches storage; callers pass the appointments in and inject
// "today" so results do not depend on the wall clock.
package scheduling

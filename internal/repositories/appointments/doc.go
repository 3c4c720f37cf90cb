// Package appointments persists appointments in a kv.Store.
//
// Every appointment lives under "appointments/<id>" as JSON. A slot index
// "slots/<doctorID>/<date>/<time>" maps an occupied slot to the id holding it.
// Create claims the slot with kv.Store.SetIfAbsent before writing the record,
// so of two concurrent bookings of one slot exactly one succeeds. Cancelling
// releases the slot; RepairSlots drops claims left behind by interrupted
// writes.
package appointments

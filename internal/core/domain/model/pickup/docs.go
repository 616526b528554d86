// Package pickup provides the Pickup aggregate: one collection event in which a
// supplier hands a batch of parcels over to the carrier.
//
// A pickup keeps the ordered, duplicate-free list of parcel ids it claimed.
// The list is fixed at creation and kept after cancellation for audit. Status
// moves from Pending to either Completed or Cancelled, exactly once.
package pickup

// Package services holds domain logic that spans the parcel and pickup
// aggregates and therefore belongs to neither.
//
// ClaimService applies the cross-aggregate rules of the consistency
// coordinator: claiming parcels for a new pickup, releasing them when a pickup
// is cancelled, and auditing both collections for broken references. It works
// on aggregates already loaded by the caller and never touches storage.
package services

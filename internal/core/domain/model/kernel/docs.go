// Package kernel holds the value objects shared by the parcel and pickup
// aggregates: UUID identifiers, ten-digit Phone numbers and non-negative Money.
//
// Every value object embeds a guard.ConstructorGuard, so a zero value fails
// Validate and cannot slip into an aggregate unnoticed.
package kernel

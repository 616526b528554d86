// Package parcel provides the Parcel aggregate: a physical item travelling from
// a supplier to a client.
//
// A parcel owns its descriptive fields (client, product, city, price, phone,
// address...) and its Status. The pickup reference and the status are written
// only through Claim, Release and Return, which the consistency coordinator
// drives; Edit rejects any attempt to touch them with an InvariantViolationError.
package parcel

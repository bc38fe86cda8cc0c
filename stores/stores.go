// Package stores contains the MongoDB-backed persistence for the
// marketplace collections. Each store wraps one collection and returns
// apperr-kinded errors.
package stores

// DatabaseName is the MongoDB database all collections live in.
const DatabaseName = "marketplace"

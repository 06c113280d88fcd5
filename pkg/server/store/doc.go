// Package store defines the storage interfaces the gateway depends on.
//
// The interfaces abstract the persistent state shared by every request:
// identities and credentials, the RBAC relations, the target registry, and
// issued tickets. Implementations live in subpackages (gorm). All stores are
// read on the request hot path and written only by the administrative API,
// so implementations must support many concurrent readers.
package store

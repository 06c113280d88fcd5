// Package model defines the database models for the Omnitron gateway.
//
// This package contains GORM models that map to the gateway's PostgreSQL
// schema.
//
// # Core Models
//
//   - User: identities that may be granted access to targets
//   - PasswordCredential: bcrypt password hash owned by a user
//   - Role: named grouping connecting users to targets
//   - Target: named upstream endpoint with forwarding options
//   - Ticket: opaque bearer secret bound to a username
//   - UserRoleAssignment / TargetRoleAssignment: the two RBAC relations
//
// A user is authorized for a target when the set of roles assigned to the
// user intersects the set of roles assigned to the target.
package model

// Package audit emits an RFC5424 syslog audit trail of gateway decisions:
// authentication attempts, authorization verdicts, forwarded requests and
// ticket lifecycle changes. Events go to stdout and, when
// AUDIT_DATABASE_URL is set, to an audit database.
package audit

package audit

import "fmt"

// AuthenticateEvent records a ticket authentication attempt
type AuthenticateEvent struct {
	Username string
	ClientIP string
	Success  bool
	Reason   string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	subject := e.Username
	if subject == "" {
		subject = "unknown"
	}
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated", subject)
	}
	msg := fmt.Sprintf("%s failed to authenticate", subject)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// AuthorizeEvent records a target access decision
type AuthorizeEvent struct {
	Username string
	Target   string
	ClientIP string
	Allowed  bool
	Reason   string
}

func (e AuthorizeEvent) MessageID() string {
	return "authz"
}

func (e AuthorizeEvent) Message() string {
	if e.Allowed {
		return fmt.Sprintf("%s granted access to target %s", e.Username, e.Target)
	}
	msg := fmt.Sprintf("%s denied access to target %s", e.Username, e.Target)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e AuthorizeEvent) Severity() Severity {
	if e.Allowed {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthorizeEvent) Facility() int {
	return FacilityAuth
}

func (e AuthorizeEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDSubject: {
			"target": e.Target,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// TicketEvent records a ticket lifecycle change
type TicketEvent struct {
	TicketID string
	Username string
	Target   string

	// Operation is "issue" or "revoke"
	Operation string
}

func (e TicketEvent) MessageID() string {
	return "ticket"
}

func (e TicketEvent) Message() string {
	switch e.Operation {
	case "issue":
		return fmt.Sprintf("issued ticket %s for %s on target %s", e.TicketID, e.Username, e.Target)
	case "revoke":
		return fmt.Sprintf("revoked ticket %s", e.TicketID)
	default:
		return fmt.Sprintf("%s ticket %s", e.Operation, e.TicketID)
	}
}

func (e TicketEvent) Severity() Severity {
	return SeverityNotice
}

func (e TicketEvent) Facility() int {
	return FacilityAuthPriv
}

func (e TicketEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDTicket: {
			"id":        e.TicketID,
			"operation": e.Operation,
		},
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDSubject: {
			"target": e.Target,
		},
	}
}

// PasswordEvent records a password change
type PasswordEvent struct {
	Username string
	Success  bool
}

func (e PasswordEvent) MessageID() string {
	return "password"
}

func (e PasswordEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("password changed for %s", e.Username)
	}
	return fmt.Sprintf("failed to change password for %s", e.Username)
}

func (e PasswordEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e PasswordEvent) Facility() int {
	return FacilityAuthPriv
}

func (e PasswordEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
	}
}

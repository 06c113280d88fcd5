package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Target kinds. HTTP targets forward to an upstream URL; the WebAdmin kind
// is the single built-in target representing the gateway's own admin API.
const (
	TargetKindHTTP     = "Http"
	TargetKindWebAdmin = "WebAdmin"
)

// TLSMode controls how the forwarder connects to an upstream.
type TLSMode string

const (
	TLSModeDisabled  TLSMode = "disabled"
	TLSModePreferred TLSMode = "preferred"
	TLSModeRequired  TLSMode = "required"
)

// TLSOptions is the per-target TLS policy.
type TLSOptions struct {
	Mode   TLSMode `json:"mode"`
	Verify bool    `json:"verify"`
}

// TargetOptions is the forwarding configuration stored in the targets table
// as a JSON column.
type TargetOptions struct {
	Kind string     `json:"kind"`
	URL  string     `json:"url,omitempty"`
	TLS  TLSOptions `json:"tls"`
}

// Value implements driver.Valuer so gorm can persist options as jsonb.
func (o TargetOptions) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan implements sql.Scanner.
func (o *TargetOptions) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("unsupported type for target options: %T", value)
	}
}

// Target is a named upstream endpoint the gateway can forward to
type Target struct {
	ID      uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Name    string        `gorm:"column:name;uniqueIndex;not null"`
	Options TargetOptions `gorm:"column:options;type:jsonb"`
}

func (Target) TableName() string {
	return "targets"
}

package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PermissionBundle is the fixed-shape capability set attached to a
// community dashboard admin, persisted as JSONB. The shape is closed on
// purpose: approval-time grants are all-or-nothing and an admin edits
// individual flags through the permissions editor afterward.
type PermissionBundle struct {
	AddUsers       bool `json:"add_users"`
	AddEvents      bool `json:"add_events"`
	UploadBlogs    bool `json:"upload_blogs"`
	ViewMembers    bool `json:"view_members"`
	SendReminders  bool `json:"send_reminders"`
	MarkAttendance bool `json:"mark_attendance"`
	UploadProjects bool `json:"upload_projects"`
}

// Value marshals the bundle into JSON for Postgres.
func (b PermissionBundle) Value() (driver.Value, error) {
	buf, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the bundle.
func (b *PermissionBundle) Scan(value interface{}) error {
	if value == nil {
		*b = PermissionBundle{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("permission bundle: unsupported scan type %T", value)
	}

	return json.Unmarshal(raw, b)
}

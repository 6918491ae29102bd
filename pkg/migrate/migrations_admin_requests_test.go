package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memberhub/backend/pkg/migrate"
)

func TestAdminRequestsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_admin_requests.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no admin_requests migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS admin_requests",
		"status request_status NOT NULL DEFAULT 'pending'",
		"FOREIGN KEY (community_id) REFERENCES communities(id) ON DELETE SET NULL",
		"CHECK (admin_type <> 'community' OR community_id IS NOT NULL)",
		"DROP TABLE IF EXISTS admin_requests",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRoleLedgerMigrationsEnforceUniqueness(t *testing.T) {
	cases := map[string]string{
		"*_create_global_role_assignments.sql":         "ux_global_role_assignments_user",
		"*_create_community_admin_roles.sql":           "ux_community_admin_roles_active",
		"*_create_community_dashboard_permissions.sql": "ux_community_dashboard_permissions_pair",
	}

	for pattern, index := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil {
			t.Fatalf("glob %s: %v", pattern, err)
		}
		if len(matches) == 0 {
			t.Fatalf("no migration matching %s", pattern)
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read %s: %v", matches[0], err)
		}
		if !strings.Contains(string(data), index) {
			t.Errorf("migration %s missing unique index %q", matches[0], index)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

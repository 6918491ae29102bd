package permissions

import (
	"testing"

	"github.com/memberhub/backend/pkg/enums"
	pkgerrors "github.com/memberhub/backend/pkg/errors"
	"github.com/memberhub/backend/pkg/types"
)

func TestDefaultBundleCommunityEnablesAllCapabilities(t *testing.T) {
	bundle, err := DefaultBundle(enums.AdminTypeCommunity)
	if err != nil {
		t.Fatalf("default bundle: %v", err)
	}

	want := types.PermissionBundle{
		AddUsers:       true,
		AddEvents:      true,
		UploadBlogs:    true,
		ViewMembers:    true,
		SendReminders:  true,
		MarkAttendance: true,
		UploadProjects: true,
	}
	if bundle != want {
		t.Fatalf("expected all capabilities enabled, got %+v", bundle)
	}
}

func TestDefaultBundleGeneralHasNoDashboardScope(t *testing.T) {
	_, err := DefaultBundle(enums.AdminTypeGeneral)
	if err == nil {
		t.Fatal("general admins carry no dashboard bundle, expected an error")
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDefaultBundleUnknownTypeFailsLoudly(t *testing.T) {
	_, err := DefaultBundle(enums.AdminType("superuser"))
	if err == nil {
		t.Fatal("expected error for unknown admin type")
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

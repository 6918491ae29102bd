// Package permissions maps an admin type to the default capability
// bundle an approval grants. The mapping is pure; callers get an error
// for types without dashboard scope instead of an empty bundle.
package permissions

import (
	"github.com/memberhub/backend/pkg/enums"
	pkgerrors "github.com/memberhub/backend/pkg/errors"
	"github.com/memberhub/backend/pkg/types"
)

// DefaultBundle returns the permission bundle a fresh grant of the given
// admin type receives. Community admins start with every dashboard
// capability enabled; scoping down happens later through the permissions
// editor. Only community admins carry a dashboard bundle, so every other
// type is an error rather than a silent empty grant.
func DefaultBundle(adminType enums.AdminType) (types.PermissionBundle, error) {
	switch adminType {
	case enums.AdminTypeCommunity:
		return types.PermissionBundle{
			AddUsers:       true,
			AddEvents:      true,
			UploadBlogs:    true,
			ViewMembers:    true,
			SendReminders:  true,
			MarkAttendance: true,
			UploadProjects: true,
		}, nil
	default:
		return types.PermissionBundle{}, pkgerrors.New(pkgerrors.CodeValidation, "no dashboard bundle for admin type").
			WithDetails(map[string]any{"admin_type": string(adminType)})
	}
}

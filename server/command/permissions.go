package command

import (
	"strings"

	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/mattermost/mattermost-server/v6/model"

	"github.com/ericzzh/mattermost-plugin-purge/server/config"
)

// Permissions decides who may run purges.
type Permissions interface {
	CanPurge(userID string) bool
}

// RolePermissions lets system admins purge, plus users holding the configured role.
type RolePermissions struct {
	pluginAPI *pluginapi.Client
	config    config.Service
}

// NewRolePermissions reads the role from the configuration on every check so changes apply
// without a restart. An empty role leaves purging to system admins.
func NewRolePermissions(api *pluginapi.Client, cfg config.Service) *RolePermissions {
	return &RolePermissions{
		pluginAPI: api,
		config:    cfg,
	}
}

// IsAdmin reports whether the user is a system admin. The role does not count.
func (p *RolePermissions) IsAdmin(userID string) bool {
	return p.pluginAPI.User.HasPermissionTo(userID, model.PermissionManageSystem)
}

func (p *RolePermissions) CanPurge(userID string) bool {
	if p.IsAdmin(userID) {
		return true
	}

	role := strings.TrimSpace(p.config.GetConfiguration().PurgeRole)
	if role == "" {
		return false
	}

	usr, err := p.pluginAPI.User.Get(userID)
	if err != nil {
		return false
	}

	for _, r := range strings.Fields(usr.Roles) {
		if r == role {
			return true
		}
	}
	return false
}

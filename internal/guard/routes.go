package guard

import (
	"strings"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
)

// routeRule binds a path or path prefix to its role requirement.
type routeRule struct {
	path   string
	prefix bool
	req    AccessRequest
}

// defaultRules is the application's protected route table. Paths not listed
// here are public. Order matters: the first match wins, so exact paths come
// before prefixes.
var defaultRules = []routeRule{
	{path: "/dashboard", req: AccessRequest{}},
	{path: "/classes", req: AccessRequest{}},
	{path: "/profile", req: AccessRequest{}},
	{path: "/members", req: AccessRequest{
		RequiredRoles: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleInstructor},
	}},
	{path: "/memberships", req: AccessRequest{
		RequiredRoles: []domainauth.Role{domainauth.RoleMember},
	}},
	{path: "/admin", prefix: true, req: AccessRequest{
		RequiredRoles: []domainauth.Role{domainauth.RoleAdmin},
	}},
}

// RequirementForPath returns the access requirement for a destination and
// whether the destination is protected at all.
func RequirementForPath(path string) (AccessRequest, bool) {
	for _, rule := range defaultRules {
		if rule.prefix {
			if path == rule.path || strings.HasPrefix(path, rule.path+"/") {
				return rule.req, true
			}
			continue
		}
		if path == rule.path {
			return rule.req, true
		}
	}
	return AccessRequest{}, false
}

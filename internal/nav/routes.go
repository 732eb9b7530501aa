package nav

import "strings"

// Well-known paths.
const (
	PathLogin    = "/login"
	PathRegister = "/register"
	PathHome     = "/dashboard/home"
	PathNotFound = "/404"
)

// Route is one navigable view with its static guard metadata. Metadata
// is fixed at construction and never mutated at runtime.
type Route struct {
	Path          string
	Name          string
	Title         string
	RequiresAuth  bool
	RequiresAdmin bool
}

// Routes returns the console's route table. Paths mirror the web
// console so redirect targets recorded by one client make sense to the
// other.
func Routes() []Route {
	return []Route{
		{Path: PathLogin, Name: "Login", Title: "Login"},
		{Path: PathRegister, Name: "Register", Title: "Register"},
		{Path: PathHome, Name: "Home", Title: "Home", RequiresAuth: true},
		{Path: "/dashboard/model/list", Name: "ModelList", Title: "Model List", RequiresAuth: true},
		{Path: "/dashboard/model/detail/:id", Name: "ModelDetail", Title: "Model Detail", RequiresAuth: true},
		{Path: "/dashboard/model/collects", Name: "MyCollects", Title: "My Favorites", RequiresAuth: true},
		{Path: "/dashboard/system/user", Name: "UserList", Title: "User Management", RequiresAuth: true, RequiresAdmin: true},
		{Path: "/dashboard/system/profile", Name: "Profile", Title: "My Profile", RequiresAuth: true},
		{Path: PathNotFound, Name: "NotFound", Title: "Page Not Found"},
	}
}

// matches reports whether path matches the route, honoring one-segment
// :param placeholders.
func (r *Route) matches(path string) bool {
	if !strings.Contains(r.Path, ":") {
		return r.Path == path
	}

	want := strings.Split(strings.Trim(r.Path, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if strings.HasPrefix(want[i], ":") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

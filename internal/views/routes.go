package views

import "strings"

// RouteKind identifies a screen.
type RouteKind int

const (
	RouteLogin RouteKind = iota
	RouteList
	RouteVendor
)

// Route is a navigable location. VendorID is set only for RouteVendor.
type Route struct {
	Kind     RouteKind
	VendorID string
}

// LoginRoute is where unauthenticated users are sent.
func LoginRoute() Route { return Route{Kind: RouteLogin} }

// ListRoute is the vendor list.
func ListRoute() Route { return Route{Kind: RouteList} }

// VendorRoute is the detail screen of one vendor.
func VendorRoute(id string) Route { return Route{Kind: RouteVendor, VendorID: id} }

// ParseRoute maps a path to a route. "/" and unknown paths go to login;
// the caller decides whether an authenticated user skips past it.
func ParseRoute(path string) Route {
	path = strings.Trim(path, "/")
	switch {
	case path == "dashboard":
		return ListRoute()
	case strings.HasPrefix(path, "vendor/"):
		id := strings.TrimPrefix(path, "vendor/")
		if id != "" && !strings.Contains(id, "/") {
			return VendorRoute(id)
		}
	}
	return LoginRoute()
}

// Path is the inverse of ParseRoute.
func (r Route) Path() string {
	switch r.Kind {
	case RouteList:
		return "/dashboard"
	case RouteVendor:
		return "/vendor/" + r.VendorID
	}
	return "/login"
}

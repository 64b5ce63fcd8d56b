package helpdesk

import (
	"sort"
	"strings"
)

// Route groups the services a user can file tickets against. Routes are
// transient DTOs: each refresh replaces the previous set wholesale, there is
// no incremental patching.
type Route struct {
	Origin      Origin    `json:"origin"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Services    []Service `json:"services"`
}

// Service belongs to exactly one Route, referenced by code rather than by
// pointer since the entities are transient.
type Service struct {
	Origin      Origin `json:"origin"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	RouteCode   string `json:"route_code"`
	Avatar      string `json:"avatar,omitempty"`
}

// SortRoutes orders routes alphabetically by name, case-insensitively. The
// sort is stable so merged input from multiple backends always produces the
// same output regardless of backend completion order.
func SortRoutes(routes []Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		return strings.ToLower(routes[i].Name) < strings.ToLower(routes[j].Name)
	})
}

package planner

import (
	"fmt"
	"strings"

	"github.com/ukydev/fleet-dispatch/internal/models"
)

// MapsLink formats a route's waypoints into a Google Maps directions URL so
// drivers can open the route in an external maps app. Pure string assembly;
// an empty waypoint list yields an empty string.
func MapsLink(wps []models.Waypoint) string {
	if len(wps) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("https://www.google.com/maps/dir")
	for _, w := range wps {
		fmt.Fprintf(&b, "/%.6f,%.6f", w.Lat, w.Lng)
	}
	return b.String()
}

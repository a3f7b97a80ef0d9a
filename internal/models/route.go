package models

import (
	"strconv"
	"strings"
)

// Priority indicates how urgent a route is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Route describes an ordered sequence of waypoints for a delivery run, with
// display-oriented distance and duration estimates. Routes are immutable
// reference data once built.
type Route struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Waypoints     []Waypoint `json:"waypoints"`
	Distance      string     `json:"distance"`       // e.g. "156.7 mi"
	EstimatedTime string     `json:"estimated_time"` // e.g. "4h 30m"
	Efficiency    float64    `json:"efficiency"`
	Priority      Priority   `json:"priority"`
}

// DistanceMiles parses the leading numeric portion of the textual Distance
// field. Unparseable text yields 0.
func (r Route) DistanceMiles() float64 {
	s := strings.TrimSpace(r.Distance)
	end := 0
	for end < len(s) && (s[end] == '.' || s[end] == '-' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

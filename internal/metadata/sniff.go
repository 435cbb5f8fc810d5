// internal/metadata/sniff.go
//
// Ordered user-agent classification tables.
//
// Context
// -------
// Browser, OS, and device class are decided by substring predicates
// evaluated in a fixed priority order.  The order is load-bearing: a
// Chrome UA also contains "Safari", and an Android UA also contains
// "Linux", so the first matching predicate wins and reordering the table
// changes historical classifications.  The tables below reproduce the
// exact order the store schema was built around.  Known consequences:
//
//   • Chrome is tested before Safari, so Chrome UAs classify correctly,
//     but Chromium-era Edge ("Edg/") still reports as Chrome because the
//     legacy "Edge" token is tested after "Chrome".
//   • "Linux" precedes "Android", so Android devices report OS "Linux".
//
// Both are long-standing behaviors the analytics data depends on; do not
// reorder to "fix" them.
package metadata

import (
	"regexp"
	"strings"
)

// probe pairs a predicate with the label it yields.
type probe struct {
	match func(ua string) bool
	label string
}

func contains(token string) func(string) bool {
	return func(ua string) bool { return strings.Contains(ua, token) }
}

func containsAny(tokens ...string) func(string) bool {
	return func(ua string) bool {
		for _, t := range tokens {
			if strings.Contains(ua, t) {
				return true
			}
		}
		return false
	}
}

// browserProbes: Firefox → Chrome → Safari → Edge → Opera.
var browserProbes = []probe{
	{contains("Firefox"), "Firefox"},
	{contains("Chrome"), "Chrome"},
	{contains("Safari"), "Safari"},
	{contains("Edge"), "Edge"},
	{contains("Opera"), "Opera"},
}

// osProbes: Win → Mac → Linux → Android → iPhone/iPad.
var osProbes = []probe{
	{contains("Win"), "Windows"},
	{contains("Mac"), "macOS"},
	{contains("Linux"), "Linux"},
	{contains("Android"), "Android"},
	{containsAny("iPhone", "iPad"), "iOS"},
}

// Device regexes match the historical case-insensitive token lists.
var (
	tabletRe = regexp.MustCompile(`(?i)tablet|ipad|playbook|silk`)
	mobileRe = regexp.MustCompile(`(?i)mobile|iphone|ipod|android|blackberry|opera|mini|windows\sce|palm|smartphone|iemobile`)
)

// SniffBrowser returns the browser family or Unknown.
func SniffBrowser(ua string) string {
	return firstMatch(browserProbes, ua)
}

// SniffOS returns the operating-system family or Unknown.
func SniffOS(ua string) string {
	return firstMatch(osProbes, ua)
}

// SniffDevice classifies tablet before mobile; anything else is desktop.
func SniffDevice(ua string) string {
	switch {
	case tabletRe.MatchString(ua):
		return "Tablet"
	case mobileRe.MatchString(ua):
		return "Móvil"
	default:
		return "Escritorio"
	}
}

func firstMatch(probes []probe, ua string) string {
	for _, p := range probes {
		if p.match(ua) {
			return p.label
		}
	}
	return Unknown
}

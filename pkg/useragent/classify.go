// Package useragent classifies incoming requests into coarse device buckets
// for click analytics and optionally enriches them with browser/OS details
// via the uap-core regex database.
package useragent

import "strings"

// Device classes recorded on click events.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

// ClassifyDevice maps a User-Agent string to one of the coarse device
// classes. Matching is case-insensitive; "mobile" wins over "tablet" when
// both substrings are present. An empty User-Agent is the only input that
// yields DeviceUnknown.
func ClassifyDevice(userAgent string) string {
	if userAgent == "" {
		return DeviceUnknown
	}

	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "mobile") {
		return DeviceMobile
	}
	if strings.Contains(ua, "tablet") {
		return DeviceTablet
	}
	return DeviceDesktop
}

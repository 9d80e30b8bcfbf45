package core

import "time"

// ClassifyExpiration is the pure severity classifier of spec §4.4: it
// depends only on expiresAt and now (testable property 6, "severity
// purity"). A nil expiresAt yields NoExpiration.
func ClassifyExpiration(expiresAt *time.Time, now time.Time) Severity {
	if expiresAt == nil {
		return SeverityNoExpiration
	}
	if expiresAt.Before(now) {
		return SeverityExpired
	}
	delta := expiresAt.Sub(now)
	switch {
	case delta <= 24*time.Hour:
		return SeverityCritical
	case delta <= 72*time.Hour:
		return SeverityWarning
	default:
		return SeverityOk
	}
}

// Package domain defines core data models and contracts shared across the app.
// It contains plain types (key records, wire snapshots) and interfaces only.
package domain

// Package models defines server-side data models.
package models

import "time"

// Translation is a text collection as listed by the scripture provider. It is
// not persisted.
type Translation struct {
	Code         string
	Title        string
	LastModified time.Time
}

// Version is the durable local record of a Translation, matched by Code.
//
// Service and LastModified are carried in memory only; they come from the
// provider catalog and drive default-version selection.
type Version struct {
	ID    int64
	Code  string
	Title string

	Service      string
	LastModified time.Time
}

// VersionInfo is the provider's attribution for one translation.
type VersionInfo struct {
	Code string
	Name string
}

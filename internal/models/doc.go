// Package models defines the core domain models for warikan.
//
// A Session is the caller-owned state of one bill-splitting form: the selected
// mode, the raw values typed into the numeric fields, the registered people
// and the last computed result. It is a plain value; the session package
// mutates it and the storage package persists it for the lifetime of the
// process.
//
// People and items carry generated IDs (UUID format). Names are display
// labels only and may repeat.
package models

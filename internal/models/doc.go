// Package models defines the core domain models for the workload planner.
//
// # Entities
//
//   - Team: optional grouping of persons
//   - Person: identified by the natural key (Name, Firstname)
//   - SubjectType: category of a subject, with a display color
//   - Subject: identified by its Label, optionally typed
//
// Comments (one per person and subject) and workload entries (one load per
// person, subject and month) are only written through storage.Writer.
//
// # Views
//
// LineView and WorkloadRow are read-only joins over the entities above. They
// are what the line-creation endpoints and the pivot view consume.
//
// # Identity
//
// Persons, subjects and subject types are only ever created explicitly.
// The import path resolves them by natural key and skips rows that do not
// resolve; it never creates them.
package models

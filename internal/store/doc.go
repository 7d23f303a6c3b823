// Package store defines the persistence interfaces for users, tasks, and
// comments, the shared error family returned by implementations, and the
// transaction helper used by services. Concrete implementations live in
// internal/platform/postgres.
package store

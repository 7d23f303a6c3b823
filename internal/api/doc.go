// Package api implements the HTTP handlers for the task tracking API:
// registration and login, task CRUD with filtering and pagination, and
// task comments. Handlers decode and validate requests, consult the
// authorization policy, delegate to the services, and translate errors
// into the shared response taxonomy.
package api

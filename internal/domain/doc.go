// Package domain defines the core business entities of the kanban service
// (users, boards and tasks) together with the validation rules each entity
// enforces on itself. It has no knowledge of persistence or transport.
package domain

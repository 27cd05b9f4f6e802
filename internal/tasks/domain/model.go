package domain

import "time"

// Task belongs to exactly one project. ProjectID never changes after creation.
type Task struct {
	ID        int64
	ProjectID int64
	Title     string
	Priority  string
	DueDate   *time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input carries client-supplied task fields. DueDate is YYYY-MM-DD or blank.
type Input struct {
	Title    string
	Priority string
	DueDate  string
	Status   string
}

// Stats counts a user's tasks in the two tracked statuses.
type Stats struct {
	Completed  int64
	InProgress int64
}

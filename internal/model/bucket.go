package model

import "time"

// Bucket is the full task collection as persisted in task-bucket.json.
type Bucket struct {
	Tasks       []Task `json:"tasks"`
	NextID      int    `json:"next_id"`
	LastUpdated string `json:"last_updated"`
}

// NewBucket creates an empty bucket.
func NewBucket() *Bucket {
	return &Bucket{
		Tasks:  []Task{},
		NextID: 1,
	}
}

// FindTask returns the task with the given ID, or nil.
func (b *Bucket) FindTask(id int) *Task {
	for i := range b.Tasks {
		if b.Tasks[i].ID == id {
			return &b.Tasks[i]
		}
	}
	return nil
}

// TakeNextID returns the next task ID and advances the counter.
func (b *Bucket) TakeNextID() int {
	id := b.NextID
	b.NextID++
	return id
}

// RemoveTask removes a task by ID. Returns false if no task matched.
func (b *Bucket) RemoveTask(id int) bool {
	for i := range b.Tasks {
		if b.Tasks[i].ID == id {
			b.Tasks = append(b.Tasks[:i], b.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// TasksByStatus returns tasks with the given status, in collection order.
func (b *Bucket) TasksByStatus(status string) []Task {
	var result []Task
	for _, t := range b.Tasks {
		if t.Status == status {
			result = append(result, t)
		}
	}
	return result
}

// Stats summarizes the bucket by status plus an overdue count.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Blocked   int `json:"blocked"`
	Overdue   int `json:"overdue"`
}

// Stats computes task counts as of now.
func (b *Bucket) Stats(now time.Time) Stats {
	var s Stats
	for i := range b.Tasks {
		t := &b.Tasks[i]
		s.Total++
		switch t.Status {
		case StatusTodo:
			s.Pending++
		case StatusInProgress:
			s.Active++
		case StatusDone:
			s.Completed++
		case StatusBlocked:
			s.Blocked++
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
	}
	return s
}

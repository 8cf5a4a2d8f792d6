package cron

import "context"

// Job is a unit of scheduled maintenance work. Names show up in logs and
// metrics labels, so they should be stable identifiers like "order_ttl".
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker executes each cycle. Jobs run in
// registration order.
type Registry struct {
	ordered []Job
}

// NewRegistry builds a registry from the given jobs, skipping nil entries.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{ordered: make([]Job, 0, len(jobs))}
	for _, job := range jobs {
		r.Register(job)
	}
	return r
}

// Register appends a job. Nil jobs are ignored.
func (r *Registry) Register(job Job) {
	if job != nil {
		r.ordered = append(r.ordered, job)
	}
}

// Jobs returns a copy of the registered jobs in execution order.
func (r *Registry) Jobs() []Job {
	out := make([]Job, len(r.ordered))
	copy(out, r.ordered)
	return out
}

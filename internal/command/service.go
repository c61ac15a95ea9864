// Package command implements the mutating operations over the task and
// project collections. Every command validates its input first, applies
// the mutation in memory, and only then calls save; a validation failure
// leaves the persisted state untouched.
package command

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/seanmcc/taskbucket/internal/config"
	"github.com/seanmcc/taskbucket/internal/dateparse"
	"github.com/seanmcc/taskbucket/internal/model"
	"github.com/seanmcc/taskbucket/internal/query"
	"github.com/seanmcc/taskbucket/internal/schema"
	"github.com/seanmcc/taskbucket/internal/storage"
)

// ActivationHook is notified after a task mutation that should be mirrored
// into a project's external document (CLAUDE.md). Hooks run after the
// mutation has been saved; a hook error is reported to the caller but
// never rolls the task state back.
type ActivationHook interface {
	TaskActivated(task *model.Task, project *model.Project, mode string) error
	TaskCompleted(task *model.Task, project *model.Project) error
	TaskDeactivated(task *model.Task, project *model.Project) error
}

// Recorder receives a short audit record for each completed mutation.
// Recording failures are ignored.
type Recorder interface {
	Record(op, details string) error
}

// Service is the synchronous command surface used by the CLI and TUI. It
// lazily loads the collections on first use and keeps them resident until
// Reload; each save rewrites the whole document.
type Service struct {
	cfg    *config.Config
	store  *storage.Store
	logger *slog.Logger
	hook   ActivationHook
	rec    Recorder
	now    func() time.Time

	bucket   *model.Bucket
	projects *model.ProjectSet
}

// Option configures a Service.
type Option func(*Service)

// WithHook sets the activation hook.
func WithHook(h ActivationHook) Option { return func(s *Service) { s.hook = h } }

// WithRecorder sets the operation recorder.
func WithRecorder(r Recorder) Option { return func(s *Service) { s.rec = r } }

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates a command service over the given store.
func NewService(cfg *config.Config, store *storage.Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		cfg:    cfg,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) loadBucket() (*model.Bucket, error) {
	if s.bucket == nil {
		bucket, err := s.store.LoadBucket()
		if err != nil {
			return nil, err
		}
		s.bucket = bucket
	}
	return s.bucket, nil
}

func (s *Service) loadProjects() (*model.ProjectSet, error) {
	if s.projects == nil {
		projects, err := s.store.LoadProjects()
		if err != nil {
			return nil, err
		}
		s.projects = projects
	}
	return s.projects, nil
}

// Reload discards the resident snapshots and re-reads both collections.
// Long-lived sessions call this to pick up externally made changes.
func (s *Service) Reload() error {
	bucket, err := s.store.Reload()
	if err != nil {
		return err
	}
	projects, err := s.store.LoadProjects()
	if err != nil {
		return err
	}
	s.bucket = bucket
	s.projects = projects
	return nil
}

func (s *Service) record(op, details string) {
	s.logger.Info(op, "details", details)
	if s.rec != nil {
		_ = s.rec.Record(op, details)
	}
}

// resolveProject maps a project ID or code to a project ID.
func (s *Service) resolveProject(identifier string) (string, error) {
	projects, err := s.loadProjects()
	if err != nil {
		return "", err
	}
	id, ok := projects.Resolve(identifier)
	if !ok {
		return "", &NotFoundError{Kind: "project", ID: identifier}
	}
	return id, nil
}

// AddTaskInput are the fields accepted when creating a task.
type AddTaskInput struct {
	Description  string
	Project      string // ID or code
	Type         string
	Priority     string
	Deadline     string // ISO or natural language
	TimeEstimate *float64
	Client       string // override; usually inherited from the project
	Tags         []string
	Notes        string
}

// AddTask validates the input, creates the task, and saves the bucket.
func (s *Service) AddTask(in AddTaskInput) (*model.Task, error) {
	bucket, err := s.loadBucket()
	if err != nil {
		return nil, err
	}

	projectID := in.Project
	if projectID == "" {
		projectID = s.cfg.DefaultProject
	}
	if projectID == "" {
		return nil, &schema.ValidationError{Field: "project", Reason: "required"}
	}
	projectID, err = s.resolveProject(projectID)
	if err != nil {
		return nil, err
	}

	deadline := ""
	if in.Deadline != "" {
		deadline, err = dateparse.Parse(in.Deadline, s.now())
		if err != nil {
			return nil, &schema.ValidationError{Field: "deadline", Reason: err.Error()}
		}
	}

	taskType := in.Type
	if taskType == "" {
		taskType = s.cfg.DefaultTaskType
	}
	priority := in.Priority
	if priority == "" {
		priority = s.cfg.DefaultPriority
	}

	task := model.Task{
		ID:             bucket.NextID,
		Description:    in.Description,
		Project:        projectID,
		Status:         model.StatusTodo,
		Created:        s.now().Format(model.DateLayout),
		Priority:       priority,
		Deadline:       deadline,
		Type:           taskType,
		ClientOverride: in.Client,
		TimeEstimate:   in.TimeEstimate,
		Tags:           in.Tags,
		Notes:          in.Notes,
	}
	if err := schema.ValidateTask(&task); err != nil {
		return nil, err
	}

	bucket.TakeNextID()
	bucket.Tasks = append(bucket.Tasks, task)
	if err := s.store.SaveBucket(bucket); err != nil {
		return nil, err
	}

	s.record("ADD", fmt.Sprintf("task %d: %s", task.ID, task.Description))
	return bucket.FindTask(task.ID), nil
}

// UpdateTaskInput holds a partial update: nil fields are left unchanged.
type UpdateTaskInput struct {
	Description  *string
	Status       *string
	Priority     *string
	Deadline     *string // empty string clears the deadline
	Notes        *string
	Type         *string
	Client       *string
	TimeEstimate *float64
	Tags         *[]string
}

// UpdateTask applies a partial update to a task and saves the bucket.
func (s *Service) UpdateTask(id int, in UpdateTaskInput) (*model.Task, error) {
	bucket, err := s.loadBucket()
	if err != nil {
		return nil, err
	}
	task := bucket.FindTask(id)
	if task == nil {
		return nil, &NotFoundError{Kind: "task", ID: strconv.Itoa(id)}
	}

	// Apply to a copy first so a validation failure leaves the snapshot
	// unchanged.
	updated := *task
	if in.Description != nil {
		updated.Description = *in.Description
	}
	if in.Status != nil {
		updated.Status = *in.Status
	}
	if in.Priority != nil {
		updated.Priority = *in.Priority
	}
	if in.Deadline != nil {
		if *in.Deadline == "" {
			updated.Deadline = ""
		} else {
			deadline, err := dateparse.Parse(*in.Deadline, s.now())
			if err != nil {
				return nil, &schema.ValidationError{Field: "deadline", Reason: err.Error()}
			}
			updated.Deadline = deadline
		}
	}
	if in.Notes != nil {
		updated.Notes = *in.Notes
	}
	if in.Type != nil {
		updated.Type = *in.Type
	}
	if in.Client != nil {
		updated.ClientOverride = *in.Client
	}
	if in.TimeEstimate != nil {
		updated.TimeEstimate = in.TimeEstimate
	}
	if in.Tags != nil {
		updated.Tags = *in.Tags
	}

	if err := schema.ValidateTask(&updated); err != nil {
		return nil, err
	}
	if _, err := s.resolveProject(updated.Project); err != nil {
		return nil, err
	}

	*task = updated
	if err := s.store.SaveBucket(bucket); err != nil {
		return nil, err
	}

	s.record("UPDATE", fmt.Sprintf("task %d: %s", task.ID, task.Description))
	return task, nil
}

// CompleteResult reports a completion plus any hook outcome.
type CompleteResult struct {
	Task    *model.Task
	HookErr error // reported, never rolls back the completion
}

// CompleteTask marks a task DONE, stamps the completion date, and appends
// the note. Completing an already-DONE task is a no-op: notes and time
// logs are left untouched.
func (s *Service) CompleteTask(id int, notes string) (*CompleteResult, error) {
	bucket, err := s.loadBucket()
	if err != nil {
		return nil, err
	}
	task := bucket.FindTask(id)
	if task == nil {
		return nil, &NotFoundError{Kind: "task", ID: strconv.Itoa(id)}
	}

	if task.Status == model.StatusDone {
		return &CompleteResult{Task: task}, nil
	}

	task.Status = model.StatusDone
	task.Completed = s.now().Format(model.DateLayout)
	if notes != "" {
		if task.Notes != "" {
			task.Notes += "\n[Completed] " + notes
		} else {
			task.Notes = "[Completed] " + notes
		}
	}

	if err := s.store.SaveBucket(bucket); err != nil {
		return nil, err
	}
	s.record("COMPLETE", fmt.Sprintf("task %d: %s", task.ID, task.Description))

	result := &CompleteResult{Task: task}
	if s.hook != nil {
		if project := s.projectOf(task); project != nil {
			if hookErr := s.hook.TaskCompleted(task, project); hookErr != nil {
				s.logger.Warn("completion hook failed", "task", task.ID, "error", hookErr)
				result.HookErr = hookErr
			}
		}
	}
	return result, nil
}

// DeleteTask removes a task. It refuses to run without confirm and never
// mutates state when it refuses.
func (s *Service) DeleteTask(id int, confirm bool) error {
	bucket, err := s.loadBucket()
	if err != nil {
		return err
	}
	task := bucket.FindTask(id)
	if task == nil {
		return &NotFoundError{Kind: "task", ID: strconv.Itoa(id)}
	}
	if !confirm {
		return &ConfirmationRequiredError{Op: "delete"}
	}

	description := task.Description
	bucket.RemoveTask(id)
	if err := s.store.SaveBucket(bucket); err != nil {
		return err
	}
	s.record("DELETE", fmt.Sprintf("task %d: %s", id, description))
	return nil
}

// LogTime appends a time log entry to a task and updates its running
// total. The date may be natural language; empty means today.
func (s *Service) LogTime(id int, hours float64, description, date string) (*model.Task, error) {
	if hours <= 0 {
		return nil, &schema.ValidationError{Field: "hours", Reason: fmt.Sprintf("must be positive, got %v", hours)}
	}

	bucket, err := s.loadBucket()
	if err != nil {
		return nil, err
	}
	task := bucket.FindTask(id)
	if task == nil {
		return nil, &NotFoundError{Kind: "task", ID: strconv.Itoa(id)}
	}

	logDate := s.now().Format(model.DateLayout)
	if date != "" {
		logDate, err = dateparse.Parse(date, s.now())
		if err != nil {
			return nil, &schema.ValidationError{Field: "date", Reason: err.Error()}
		}
	}

	task.TimeLogs = append(task.TimeLogs, model.TimeLog{
		Date:        logDate,
		Hours:       hours,
		Description: description,
		LoggedAt:    s.now().Format(time.RFC3339),
	})
	task.TimeSpent += hours

	if err := s.store.SaveBucket(bucket); err != nil {
		return nil, err
	}
	s.record("LOG_TIME", fmt.Sprintf("task %d: %vh %s", id, hours, description))
	return task, nil
}

// Activation modes
const (
	ModeQuick = "quick"
	ModePRD   = "prd"
)

// ActivationResult reports an activation plus any hook outcome.
type ActivationResult struct {
	Task    *model.Task
	HookErr error // reported, never rolls back the activation
}

// ActivateTask marks a task IN_PROGRESS and notifies the activation hook
// after the mutation has committed.
func (s *Service) ActivateTask(id int, mode string) (*ActivationResult, error) {
	if mode != ModePRD {
		mode = ModeQuick
	}

	bucket, err := s.loadBucket()
	if err != nil {
		return nil, err
	}
	task := bucket.FindTask(id)
	if task == nil {
		return nil, &NotFoundError{Kind: "task", ID: strconv.Itoa(id)}
	}

	task.Status = model.StatusInProgress
	task.Activated = s.now().Format(model.DateLayout)

	if err := s.store.SaveBucket(bucket); err != nil {
		return nil, err
	}
	s.record("ACTIVATE", fmt.Sprintf("task %d (%s): %s", task.ID, mode, task.Description))

	result := &ActivationResult{Task: task}
	if s.hook != nil {
		if project := s.projectOf(task); project != nil {
			if hookErr := s.hook.TaskActivated(task, project, mode); hookErr != nil {
				s.logger.Warn("activation hook failed", "task", task.ID, "error", hookErr)
				result.HookErr = hookErr
			}
		}
	}
	return result, nil
}

// DeactivateTask sets a task back to TODO and asks the hook to remove it
// from the project document.
func (s *Service) DeactivateTask(id int) (*ActivationResult, error) {
	bucket, err := s.loadBucket()
	if err != nil {
		return nil, err
	}
	task := bucket.FindTask(id)
	if task == nil {
		return nil, &NotFoundError{Kind: "task", ID: strconv.Itoa(id)}
	}

	task.Status = model.StatusTodo
	task.Activated = ""

	if err := s.store.SaveBucket(bucket); err != nil {
		return nil, err
	}
	s.record("DEACTIVATE", fmt.Sprintf("task %d: %s", task.ID, task.Description))

	result := &ActivationResult{Task: task}
	if s.hook != nil {
		if project := s.projectOf(task); project != nil {
			if hookErr := s.hook.TaskDeactivated(task, project); hookErr != nil {
				s.logger.Warn("deactivation hook failed", "task", task.ID, "error", hookErr)
				result.HookErr = hookErr
			}
		}
	}
	return result, nil
}

func (s *Service) projectOf(task *model.Task) *model.Project {
	projects, err := s.loadProjects()
	if err != nil {
		return nil
	}
	if p, ok := projects.Get(task.Project); ok {
		return &p
	}
	return nil
}

// AddProjectInput are the fields accepted when creating a project.
type AddProjectInput struct {
	ID          string
	Name        string
	Code        string
	Lab         string
	Path        string
	Status      string
	Description string
}

// AddProject validates and persists a new project. Project codes are
// unique across the collection.
func (s *Service) AddProject(in AddProjectInput) (*model.Project, error) {
	projects, err := s.loadProjects()
	if err != nil {
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := projects.Projects[id]; exists {
		return nil, &schema.ValidationError{Field: "id", Reason: fmt.Sprintf("project %q already exists", id)}
	}
	if projects.CodeInUse(in.Code) {
		return nil, &schema.ValidationError{Field: "code", Reason: fmt.Sprintf("code %q is already in use", in.Code)}
	}

	status := in.Status
	if status == "" {
		status = model.ProjectActive
	}
	project := model.Project{
		ID:           id,
		Name:         in.Name,
		Code:         in.Code,
		Lab:          in.Lab,
		Path:         in.Path,
		Status:       status,
		LastAccessed: s.now().Format(model.DateLayout),
		Description:  in.Description,
	}
	if err := schema.ValidateProject(&project); err != nil {
		return nil, err
	}

	projects.Projects[id] = project
	if err := s.store.SaveProjects(projects); err != nil {
		return nil, err
	}
	s.record("ADD_PROJECT", fmt.Sprintf("project %s (%s): %s", id, project.Code, project.Name))
	return &project, nil
}

// Projects returns the resident project collection.
func (s *Service) Projects() (*model.ProjectSet, error) {
	return s.loadProjects()
}

// ListOptions select and order tasks for ListTasks.
type ListOptions struct {
	Filter query.Filter
	SortBy string // deadline (default), priority, status
}

// ListTasks filters and sorts the task collection. The Project field of
// the filter may be an ID or a code.
func (s *Service) ListTasks(opts ListOptions) ([]model.Task, error) {
	bucket, err := s.loadBucket()
	if err != nil {
		return nil, err
	}
	if opts.Filter.Project != "" {
		id, err := s.resolveProject(opts.Filter.Project)
		if err != nil {
			return nil, err
		}
		opts.Filter.Project = id
	}

	tasks := query.Apply(bucket.Tasks, opts.Filter, s.now())
	switch opts.SortBy {
	case "priority":
		tasks = query.SortByPriority(tasks)
	case "status":
		tasks = query.SortByStatus(tasks)
	case "", "deadline":
		tasks = query.SortByDeadline(tasks)
	}
	return tasks, nil
}

// ShowTask returns a single task by ID.
func (s *Service) ShowTask(id int) (*model.Task, error) {
	bucket, err := s.loadBucket()
	if err != nil {
		return nil, err
	}
	task := bucket.FindTask(id)
	if task == nil {
		return nil, &NotFoundError{Kind: "task", ID: strconv.Itoa(id)}
	}
	return task, nil
}

// SearchTasks searches descriptions, notes, tags, and clients.
func (s *Service) SearchTasks(q, field string) ([]model.Task, error) {
	bucket, err := s.loadBucket()
	if err != nil {
		return nil, err
	}
	return query.Search(bucket.Tasks, q, field), nil
}

// Stats summarizes the bucket.
func (s *Service) Stats() (model.Stats, error) {
	bucket, err := s.loadBucket()
	if err != nil {
		return model.Stats{}, err
	}
	return bucket.Stats(s.now()), nil
}

// ReportOptions select the tasks and range for TimeReport.
type ReportOptions struct {
	Project string // ID or code
	Client  string
	Start   string // YYYY-MM-DD; empty means open
	End     string
	GroupBy string // project (default) or client
}

// TimeReport aggregates time logs whose date falls in the requested range.
func (s *Service) TimeReport(opts ReportOptions) (query.Report, error) {
	bucket, err := s.loadBucket()
	if err != nil {
		return query.Report{}, err
	}
	projects, err := s.loadProjects()
	if err != nil {
		return query.Report{}, err
	}

	tasks := bucket.Tasks
	if opts.Project != "" {
		id, err := s.resolveProject(opts.Project)
		if err != nil {
			return query.Report{}, err
		}
		tasks = query.Apply(tasks, query.Filter{Project: id}, s.now())
	}
	if opts.Client != "" {
		var filtered []model.Task
		for i := range tasks {
			if projects.ClientFor(&tasks[i]) == opts.Client {
				filtered = append(filtered, tasks[i])
			}
		}
		tasks = filtered
	}

	start := opts.Start
	if start == "" {
		start = "2000-01-01"
	}
	end := opts.End
	if end == "" {
		end = "2099-12-31"
	}
	return query.TimeReport(tasks, projects, start, end, opts.GroupBy), nil
}

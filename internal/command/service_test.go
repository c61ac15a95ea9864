package command

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanmcc/taskbucket/internal/model"
	"github.com/seanmcc/taskbucket/internal/query"
	"github.com/seanmcc/taskbucket/internal/schema"
	"github.com/seanmcc/taskbucket/internal/storage"
	"github.com/seanmcc/taskbucket/internal/testutil"
)

// fakeHook records hook calls and can be told to fail.
type fakeHook struct {
	activated   []int
	completed   []int
	deactivated []int
	fail        bool
}

func (h *fakeHook) err() error {
	if h.fail {
		return fmt.Errorf("CLAUDE.md unwritable")
	}
	return nil
}

func (h *fakeHook) TaskActivated(task *model.Task, project *model.Project, mode string) error {
	h.activated = append(h.activated, task.ID)
	return h.err()
}

func (h *fakeHook) TaskCompleted(task *model.Task, project *model.Project) error {
	h.completed = append(h.completed, task.ID)
	return h.err()
}

func (h *fakeHook) TaskDeactivated(task *model.Task, project *model.Project) error {
	h.deactivated = append(h.deactivated, task.ID)
	return h.err()
}

type fixture struct {
	svc   *Service
	store *storage.Store
	env   *testutil.Env
	hook  *fakeHook
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := testutil.Setup(t)
	store := storage.New(env.Cfg, testutil.Logger())
	require.NoError(t, store.SaveProjects(testutil.SampleProjects()))

	f := &fixture{
		store: store,
		env:   env,
		hook:  &fakeHook{},
		now:   time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(env.Cfg, store, testutil.Logger(),
		WithHook(f.hook),
		WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) addTask(t *testing.T, in AddTaskInput) *model.Task {
	t.Helper()
	task, err := f.svc.AddTask(in)
	require.NoError(t, err)
	return task
}

func TestAddTaskAssignsSequentialIDsAndDefaults(t *testing.T) {
	f := newFixture(t)

	first := f.addTask(t, AddTaskInput{Description: "Draft PRJ1 outline", Project: "thesis"})
	second := f.addTask(t, AddTaskInput{Description: "Collect PRJ1 data", Project: "THES"})

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "thesis", second.Project, "project code resolves to the project ID")
	assert.Equal(t, model.StatusTodo, first.Status)
	assert.Equal(t, "medium", first.Priority)
	assert.Equal(t, "work", first.Type)
	assert.Equal(t, "2026-01-15", first.Created)
}

func TestAddTaskParsesNaturalDeadline(t *testing.T) {
	f := newFixture(t)
	task := f.addTask(t, AddTaskInput{Description: "Slides", Project: "thesis", Deadline: "in 3 days"})
	assert.Equal(t, "2026-01-18", task.Deadline)
}

func TestAddTaskRejectsUnknownProject(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddTask(AddTaskInput{Description: "orphan", Project: "nope"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "project", nf.Kind)

	tasks, err := f.svc.ListTasks(ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, tasks, "failed add must not persist anything")
}

func TestAddTaskRequiresProjectWithoutDefault(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddTask(AddTaskInput{Description: "floating"})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "project", verr.Field)
}

func TestAddTaskUsesDefaultProject(t *testing.T) {
	f := newFixture(t)
	f.env.Cfg.DefaultProject = "CONS"

	task := f.addTask(t, AddTaskInput{Description: "routed by default"})
	assert.Equal(t, "consulting", task.Project)
}

func TestUpdateTaskPartialPatch(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "original", Project: "thesis", Tags: []string{"keep"}})

	desc := "rewritten"
	priority := "high"
	updated, err := f.svc.UpdateTask(1, UpdateTaskInput{Description: &desc, Priority: &priority})
	require.NoError(t, err)

	assert.Equal(t, "rewritten", updated.Description)
	assert.Equal(t, "high", updated.Priority)
	assert.Equal(t, []string{"keep"}, updated.Tags, "unset fields stay as they were")
}

func TestUpdateTaskValidationFailureLeavesTaskUntouched(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "stable", Project: "thesis"})

	bad := "SOMEDAY"
	_, err := f.svc.UpdateTask(1, UpdateTaskInput{Status: &bad})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	task, err := f.svc.ShowTask(1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTodo, task.Status)
}

func TestUpdateTaskClearsDeadline(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "dated", Project: "thesis", Deadline: "2026-02-01"})

	empty := ""
	updated, err := f.svc.UpdateTask(1, UpdateTaskInput{Deadline: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Deadline)
}

func TestCompleteTaskStampsDateAndNotes(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "finish me", Project: "thesis"})

	result, err := f.svc.CompleteTask(1, "done during sprint")
	require.NoError(t, err)
	require.NoError(t, result.HookErr)

	assert.Equal(t, model.StatusDone, result.Task.Status)
	assert.Equal(t, "2026-01-15", result.Task.Completed)
	assert.Equal(t, "[Completed] done during sprint", result.Task.Notes)
	assert.Equal(t, []int{1}, f.hook.completed)
}

func TestCompleteTaskIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "finish once", Project: "thesis"})

	_, err := f.svc.CompleteTask(1, "first")
	require.NoError(t, err)

	f.now = f.now.AddDate(0, 0, 5)
	result, err := f.svc.CompleteTask(1, "second attempt")
	require.NoError(t, err)

	assert.Equal(t, "2026-01-15", result.Task.Completed, "completion date keeps the first run")
	assert.Equal(t, "[Completed] first", result.Task.Notes, "repeat completion appends nothing")
	assert.Equal(t, []int{1}, f.hook.completed, "hook fires once")
}

func TestDeleteTaskRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "precious", Project: "thesis"})

	err := f.svc.DeleteTask(1, false)
	var confirm *ConfirmationRequiredError
	require.ErrorAs(t, err, &confirm)

	task, err := f.svc.ShowTask(1)
	require.NoError(t, err)
	assert.Equal(t, "precious", task.Description)

	require.NoError(t, f.svc.DeleteTask(1, true))
	_, err = f.svc.ShowTask(1)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestDeleteTaskMissingBeforeConfirmation(t *testing.T) {
	f := newFixture(t)

	err := f.svc.DeleteTask(99, false)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf, "a missing task reports not-found even without confirm")
}

func TestLogTimeAccumulates(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "tracked", Project: "consulting"})

	_, err := f.svc.LogTime(1, 2, "analysis", "2026-01-05")
	require.NoError(t, err)
	task, err := f.svc.LogTime(1, 3, "writeup", "2026-01-10")
	require.NoError(t, err)

	assert.Equal(t, 5.0, task.TimeSpent)
	require.Len(t, task.TimeLogs, 2)
	assert.Equal(t, "2026-01-05", task.TimeLogs[0].Date)
	assert.NotEmpty(t, task.TimeLogs[0].LoggedAt)
}

func TestLogTimeDefaultsToToday(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "tracked", Project: "thesis"})

	task, err := f.svc.LogTime(1, 1.5, "", "")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", task.TimeLogs[0].Date)
}

func TestLogTimeRejectsNonPositiveHours(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "tracked", Project: "thesis"})

	for _, hours := range []float64{0, -1} {
		_, err := f.svc.LogTime(1, hours, "", "")
		var verr *schema.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "hours", verr.Field)
	}
}

func TestTimeReportWindows(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "tracked", Project: "consulting"})
	_, err := f.svc.LogTime(1, 2, "analysis", "2026-01-05")
	require.NoError(t, err)
	_, err = f.svc.LogTime(1, 3, "writeup", "2026-01-10")
	require.NoError(t, err)

	full, err := f.svc.TimeReport(ReportOptions{Start: "2026-01-01", End: "2026-01-31"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, full.Total)

	partial, err := f.svc.TimeReport(ReportOptions{Start: "2026-01-06", End: "2026-01-31"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, partial.Total)

	open, err := f.svc.TimeReport(ReportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 5.0, open.Total, "an open range covers every log")

	byClient, err := f.svc.TimeReport(ReportOptions{GroupBy: query.GroupClient})
	require.NoError(t, err)
	require.Len(t, byClient.Groups, 1)
	assert.Equal(t, "Acme Corp", byClient.Groups[0].Key, "client resolves through the project")
}

func TestTimeReportClientRestriction(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "thesis work", Project: "thesis"})
	f.addTask(t, AddTaskInput{Description: "client work", Project: "consulting"})
	f.addTask(t, AddTaskInput{Description: "side gig", Project: "consulting", Client: "Globex"})
	for id, hours := range map[int]float64{1: 1, 2: 2, 3: 4} {
		_, err := f.svc.LogTime(id, hours, "", "2026-01-10")
		require.NoError(t, err)
	}

	// Restriction runs on the resolved client: inherited from the project
	// unless the task carries an override.
	acme, err := f.svc.TimeReport(ReportOptions{Client: "Acme Corp"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, acme.Total, "override tasks no longer count toward the project's client")

	globex, err := f.svc.TimeReport(ReportOptions{Client: "Globex"})
	require.NoError(t, err)
	assert.Equal(t, 4.0, globex.Total)

	none, err := f.svc.TimeReport(ReportOptions{Client: "Initech"})
	require.NoError(t, err)
	assert.Zero(t, none.Total)
}

func TestActivateTaskRunsHookAfterCommit(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "focus next", Project: "thesis"})

	result, err := f.svc.ActivateTask(1, ModeQuick)
	require.NoError(t, err)
	require.NoError(t, result.HookErr)

	assert.Equal(t, model.StatusInProgress, result.Task.Status)
	assert.Equal(t, "2026-01-15", result.Task.Activated)
	assert.Equal(t, []int{1}, f.hook.activated)
}

func TestActivateTaskHookFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "focus next", Project: "thesis"})
	f.hook.fail = true

	result, err := f.svc.ActivateTask(1, ModePRD)
	require.NoError(t, err, "a hook failure is not an operation failure")
	require.Error(t, result.HookErr)

	// The committed state survives the hook failure, on disk too.
	fresh, err := f.store.LoadBucket()
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, fresh.Tasks[0].Status)
}

func TestDeactivateTask(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "step back", Project: "thesis"})
	_, err := f.svc.ActivateTask(1, ModeQuick)
	require.NoError(t, err)

	result, err := f.svc.DeactivateTask(1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTodo, result.Task.Status)
	assert.Empty(t, result.Task.Activated)
	assert.Equal(t, []int{1}, f.hook.deactivated)
}

func TestAddProjectUniqueness(t *testing.T) {
	f := newFixture(t)

	project, err := f.svc.AddProject(AddProjectInput{ID: "sideproj", Name: "Side Project", Code: "SIDE"})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectActive, project.Status)
	assert.Equal(t, "2026-01-15", project.LastAccessed)

	_, err = f.svc.AddProject(AddProjectInput{ID: "sideproj", Name: "Dup", Code: "DUPE"})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Field)

	_, err = f.svc.AddProject(AddProjectInput{ID: "other", Name: "Other", Code: "side"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "code", verr.Field, "codes are unique case-insensitively")
}

func TestAddProjectGeneratesID(t *testing.T) {
	f := newFixture(t)

	project, err := f.svc.AddProject(AddProjectInput{Name: "Unnamed", Code: "UNNM"})
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
}

func TestListTasksSortsAndResolvesCodes(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "late", Project: "thesis", Deadline: "2026-03-01"})
	f.addTask(t, AddTaskInput{Description: "soon", Project: "thesis", Deadline: "2026-01-20"})
	f.addTask(t, AddTaskInput{Description: "undated", Project: "consulting"})

	tasks, err := f.svc.ListTasks(ListOptions{})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "soon", tasks[0].Description, "default sort is by deadline")
	assert.Equal(t, "undated", tasks[2].Description, "undated tasks sort last")

	tasks, err = f.svc.ListTasks(ListOptions{Filter: query.Filter{Project: "THES"}})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	_, err = f.svc.ListTasks(ListOptions{Filter: query.Filter{Project: "ghost"}})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestStatsCountsByStatus(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "a", Project: "thesis"})
	f.addTask(t, AddTaskInput{Description: "b", Project: "thesis", Deadline: "2026-01-01"})
	f.addTask(t, AddTaskInput{Description: "c", Project: "consulting"})
	_, err := f.svc.ActivateTask(3, ModeQuick)
	require.NoError(t, err)
	_, err = f.svc.CompleteTask(1, "")
	require.NoError(t, err)

	stats, err := f.svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Overdue)
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "mine", Project: "thesis"})

	// Another process rewrites the bucket between operations.
	other := storage.New(f.env.Cfg, testutil.Logger())
	external, err := other.LoadBucket()
	require.NoError(t, err)
	external.Tasks = append(external.Tasks, model.Task{
		ID: external.TakeNextID(), Description: "theirs", Project: "thesis",
		Status: model.StatusTodo, Created: "2026-01-15",
	})
	require.NoError(t, other.SaveBucket(external))

	// The resident snapshot does not see it until Reload.
	tasks, err := f.svc.ListTasks(ListOptions{})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	require.NoError(t, f.svc.Reload())
	tasks, err = f.svc.ListTasks(ListOptions{})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestSearchTasks(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, AddTaskInput{Description: "Write methods chapter", Project: "thesis"})
	f.addTask(t, AddTaskInput{Description: "Invoice batch", Project: "consulting", Tags: []string{"billing"}})

	found, err := f.svc.SearchTasks("methods", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].ID)

	found, err = f.svc.SearchTasks("billing", query.FieldTags)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 2, found[0].ID)
}

func TestCorruptBucketSurfacesStorageError(t *testing.T) {
	f := newFixture(t)
	f.env.WriteFile("task-bucket.json", "{broken")

	_, err := f.svc.ListTasks(ListOptions{})
	var serr *storage.StorageError
	require.True(t, errors.As(err, &serr))
}

package refresh

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	clientapi "github.com/wkarimi/shulebook/internal/client/api"
	"github.com/wkarimi/shulebook/internal/client/auth"
	"github.com/wkarimi/shulebook/internal/client/state"
	"github.com/wkarimi/shulebook/pkg/api"
)

// errLoadFailed is the single coarse message shown for any non-404
// fetch failure during a refresh cycle.
const errLoadFailed = "Failed to load data. Please try again later."

// DataAPI is the slice of the backend surface a refresh cycle fetches.
type DataAPI interface {
	TeacherClassAttendance(ctx context.Context) ([]api.AttendanceRecord, error)
	TeacherCourses(ctx context.Context) (*api.TeacherCoursesResponse, error)
	StudentAttendance(ctx context.Context, studentID int64) ([]api.AttendanceRecord, error)
	StudentCourses(ctx context.Context, studentID int64) ([]api.Course, error)
}

// SessionSource provides the current session snapshot.
type SessionSource interface {
	Session() auth.Session
}

// Orchestrator consumes the staleness latch and fans out exactly the
// fetches appropriate to the current role, exactly once per latch
// activation. A re-entrancy guard keeps at most one cycle running
// system-wide regardless of how many observers trigger it.
type Orchestrator struct {
	client   DataAPI
	sessions SessionSource
	store    *state.Store
	logger   *slog.Logger
	running  atomic.Bool
}

// NewOrchestrator creates a refresh orchestrator.
func NewOrchestrator(client DataAPI, sessions SessionSource, store *state.Store, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		client:   client,
		sessions: sessions,
		store:    store,
		logger:   logger,
	}
}

// Run watches the staleness latch until ctx is cancelled, executing one
// fetch cycle per latch activation.
func (o *Orchestrator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-o.store.RefreshSignal():
			o.RunCycle(ctx)
		}
	}
}

// RunCycle executes one refresh cycle if the latch is raised and no
// cycle is already in progress; otherwise it returns immediately.
// Whatever the outcome — success, handled 404 or failure — the cycle
// ends with loading false and the latch cleared. A failed cycle is not
// retried automatically; the user re-raises the latch manually.
func (o *Orchestrator) RunCycle(ctx context.Context) {
	if !o.running.CompareAndSwap(false, true) {
		return
	}
	defer o.running.Store(false)

	if !o.store.State().NeedsRefresh {
		return
	}

	session := o.sessions.Session()
	if !session.Authenticated {
		o.store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: false})
		return
	}

	o.store.Dispatch(state.SetLoading{Loading: true})
	o.store.Dispatch(state.SetError{})

	var err error
	switch session.User.Role {
	case api.RoleTeacher:
		err = o.fetchTeacherData(ctx)
	case api.RoleStudent:
		err = o.fetchStudentData(ctx, session.User.ID)
	default:
		// Admins and parents have their own pages fetching on demand;
		// the shared dashboard cache stays empty.
	}

	if err != nil {
		o.logger.Warn("refresh cycle failed", "role", session.User.Role, "error", err)
		o.store.Dispatch(state.SetError{Message: errLoadFailed})
	}

	o.store.Dispatch(state.SetLoading{Loading: false})
	o.store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: false})
}

// fetchTeacherData issues the two teacher fetches in parallel and, when
// both settle, writes attendance, courses and the unique student count.
// A 404 from either endpoint means "no data yet" and produces an empty
// list; any other failure leaves the previously cached lists untouched.
func (o *Orchestrator) fetchTeacherData(ctx context.Context) error {
	var (
		attendance []api.AttendanceRecord
		courses    *api.TeacherCoursesResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		attendance, err = o.client.TeacherClassAttendance(gctx)
		if clientapi.IsNotFound(err) {
			attendance = []api.AttendanceRecord{}
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = o.client.TeacherCourses(gctx)
		if clientapi.IsNotFound(err) {
			courses = &api.TeacherCoursesResponse{Courses: []api.Course{}}
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	o.store.Dispatch(state.SetTeacherAttendance{Records: attendance})
	o.store.Dispatch(state.SetCourses{Courses: courses.Courses})
	o.store.Dispatch(state.SetUniqueStudentCount{Count: courses.UniqueStudentCount})

	return nil
}

// fetchStudentData issues the two student fetches in parallel and
// writes attendance and enrolled courses. 404 handling matches
// fetchTeacherData.
func (o *Orchestrator) fetchStudentData(ctx context.Context, studentID int64) error {
	var (
		attendance []api.AttendanceRecord
		courses    []api.Course
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		attendance, err = o.client.StudentAttendance(gctx, studentID)
		if clientapi.IsNotFound(err) {
			attendance = []api.AttendanceRecord{}
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = o.client.StudentCourses(gctx, studentID)
		if clientapi.IsNotFound(err) {
			courses = []api.Course{}
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	o.store.Dispatch(state.SetStudentAttendance{Records: attendance})
	o.store.Dispatch(state.SetCourses{Courses: courses})

	return nil
}

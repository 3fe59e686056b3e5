package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/wkarimi/shulebook/internal/client/api"
	"github.com/wkarimi/shulebook/internal/client/auth"
	"github.com/wkarimi/shulebook/internal/client/state"
	"github.com/wkarimi/shulebook/pkg/api"
)

// mockDataAPI implements DataAPI and counts calls per endpoint
type mockDataAPI struct {
	teacherAttendanceFunc func(ctx context.Context) ([]api.AttendanceRecord, error)
	teacherCoursesFunc    func(ctx context.Context) (*api.TeacherCoursesResponse, error)
	studentAttendanceFunc func(ctx context.Context, studentID int64) ([]api.AttendanceRecord, error)
	studentCoursesFunc    func(ctx context.Context, studentID int64) ([]api.Course, error)

	teacherAttendanceCalls atomic.Int32
	teacherCoursesCalls    atomic.Int32
	studentAttendanceCalls atomic.Int32
	studentCoursesCalls    atomic.Int32
}

func (m *mockDataAPI) TeacherClassAttendance(ctx context.Context) ([]api.AttendanceRecord, error) {
	m.teacherAttendanceCalls.Add(1)
	if m.teacherAttendanceFunc != nil {
		return m.teacherAttendanceFunc(ctx)
	}
	return []api.AttendanceRecord{}, nil
}

func (m *mockDataAPI) TeacherCourses(ctx context.Context) (*api.TeacherCoursesResponse, error) {
	m.teacherCoursesCalls.Add(1)
	if m.teacherCoursesFunc != nil {
		return m.teacherCoursesFunc(ctx)
	}
	return &api.TeacherCoursesResponse{Courses: []api.Course{}}, nil
}

func (m *mockDataAPI) StudentAttendance(ctx context.Context, studentID int64) ([]api.AttendanceRecord, error) {
	m.studentAttendanceCalls.Add(1)
	if m.studentAttendanceFunc != nil {
		return m.studentAttendanceFunc(ctx, studentID)
	}
	return []api.AttendanceRecord{}, nil
}

func (m *mockDataAPI) StudentCourses(ctx context.Context, studentID int64) ([]api.Course, error) {
	m.studentCoursesCalls.Add(1)
	if m.studentCoursesFunc != nil {
		return m.studentCoursesFunc(ctx, studentID)
	}
	return []api.Course{}, nil
}

// fixedSession is a SessionSource returning a constant snapshot
type fixedSession struct {
	session auth.Session
}

func (f *fixedSession) Session() auth.Session { return f.session }

func teacherSession() *fixedSession {
	return &fixedSession{session: auth.Session{
		User:          &api.User{ID: 1, Username: "teacher", Role: api.RoleTeacher},
		Authenticated: true,
	}}
}

func studentSession(id int64) *fixedSession {
	return &fixedSession{session: auth.Session{
		User:          &api.User{ID: id, Username: "student", Role: api.RoleStudent},
		Authenticated: true,
	}}
}

func notFoundErr() error {
	return &clientapi.Error{StatusCode: http.StatusNotFound, Detail: "No records found."}
}

func newTestOrchestrator(client DataAPI, sessions SessionSource) (*Orchestrator, *state.Store) {
	store := state.NewStore()
	logger := slog.New(slog.DiscardHandler)
	return NewOrchestrator(client, sessions, store, logger), store
}

func TestRunCycle_TeacherFetchPlan(t *testing.T) {
	client := &mockDataAPI{
		teacherAttendanceFunc: func(ctx context.Context) ([]api.AttendanceRecord, error) {
			return []api.AttendanceRecord{{StudentID: 2, CourseID: 1, Status: api.AttendancePresent}}, nil
		},
		teacherCoursesFunc: func(ctx context.Context) (*api.TeacherCoursesResponse, error) {
			return &api.TeacherCoursesResponse{
				Courses:            []api.Course{{ID: 1, Name: "Mathematics"}},
				UniqueStudentCount: 17,
			}, nil
		},
	}
	o, store := newTestOrchestrator(client, teacherSession())
	store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})

	o.RunCycle(context.Background())

	assert.Equal(t, int32(1), client.teacherAttendanceCalls.Load())
	assert.Equal(t, int32(1), client.teacherCoursesCalls.Load())
	assert.Equal(t, int32(0), client.studentAttendanceCalls.Load())
	assert.Equal(t, int32(0), client.studentCoursesCalls.Load())

	st := store.State()
	require.Len(t, st.TeacherAttendance, 1)
	require.Len(t, st.Courses, 1)
	assert.Equal(t, 17, st.UniqueStudentCount)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.False(t, st.NeedsRefresh)
}

func TestRunCycle_StudentFetchPlan(t *testing.T) {
	client := &mockDataAPI{
		studentAttendanceFunc: func(ctx context.Context, studentID int64) ([]api.AttendanceRecord, error) {
			assert.Equal(t, int64(9), studentID)
			return []api.AttendanceRecord{{StudentID: 9, CourseID: 1, Status: api.AttendanceLate}}, nil
		},
		studentCoursesFunc: func(ctx context.Context, studentID int64) ([]api.Course, error) {
			return []api.Course{{ID: 1, Name: "Physics"}}, nil
		},
	}
	o, store := newTestOrchestrator(client, studentSession(9))
	store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})

	o.RunCycle(context.Background())

	assert.Equal(t, int32(0), client.teacherAttendanceCalls.Load())
	assert.Equal(t, int32(0), client.teacherCoursesCalls.Load())
	assert.Equal(t, int32(1), client.studentAttendanceCalls.Load())
	assert.Equal(t, int32(1), client.studentCoursesCalls.Load())

	st := store.State()
	require.Len(t, st.StudentAttendance, 1)
	require.Len(t, st.Courses, 1)
	assert.False(t, st.NeedsRefresh)
}

func TestRunCycle_OtherRoleFetchesNothing(t *testing.T) {
	client := &mockDataAPI{}
	sessions := &fixedSession{session: auth.Session{
		User:          &api.User{ID: 3, Username: "parent", Role: api.RoleParent},
		Authenticated: true,
	}}
	o, store := newTestOrchestrator(client, sessions)
	store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})

	o.RunCycle(context.Background())

	assert.Equal(t, int32(0), client.teacherAttendanceCalls.Load())
	assert.Equal(t, int32(0), client.teacherCoursesCalls.Load())
	assert.Equal(t, int32(0), client.studentAttendanceCalls.Load())
	assert.Equal(t, int32(0), client.studentCoursesCalls.Load())
	assert.False(t, store.State().NeedsRefresh)
}

func TestRunCycle_SkipsWhenLatchDown(t *testing.T) {
	client := &mockDataAPI{}
	o, _ := newTestOrchestrator(client, teacherSession())

	o.RunCycle(context.Background())

	assert.Equal(t, int32(0), client.teacherAttendanceCalls.Load())
	assert.Equal(t, int32(0), client.teacherCoursesCalls.Load())
}

func TestRunCycle_UnauthenticatedClearsLatch(t *testing.T) {
	client := &mockDataAPI{}
	sessions := &fixedSession{session: auth.Session{}}
	o, store := newTestOrchestrator(client, sessions)
	store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})

	o.RunCycle(context.Background())

	assert.False(t, store.State().NeedsRefresh)
	assert.Equal(t, int32(0), client.teacherAttendanceCalls.Load())
}

func TestRunCycle_NotFoundMapsToEmpty(t *testing.T) {
	client := &mockDataAPI{
		teacherAttendanceFunc: func(ctx context.Context) ([]api.AttendanceRecord, error) {
			return nil, notFoundErr()
		},
		teacherCoursesFunc: func(ctx context.Context) (*api.TeacherCoursesResponse, error) {
			return &api.TeacherCoursesResponse{
				Courses:            []api.Course{{ID: 1, Name: "Mathematics"}},
				UniqueStudentCount: 5,
			}, nil
		},
	}
	o, store := newTestOrchestrator(client, teacherSession())
	store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})

	o.RunCycle(context.Background())

	st := store.State()
	// 404 means "no data yet", not an error
	assert.Empty(t, st.Error)
	assert.NotNil(t, st.TeacherAttendance)
	assert.Empty(t, st.TeacherAttendance)
	// The sibling fetch still lands
	require.Len(t, st.Courses, 1)
	assert.Equal(t, 5, st.UniqueStudentCount)
}

func TestRunCycle_FailureKeepsCachedData(t *testing.T) {
	client := &mockDataAPI{
		studentAttendanceFunc: func(ctx context.Context, studentID int64) ([]api.AttendanceRecord, error) {
			return nil, &clientapi.Error{StatusCode: http.StatusInternalServerError, Detail: "boom"}
		},
	}
	o, store := newTestOrchestrator(client, studentSession(9))

	// Pre-populate the cache from an earlier successful cycle
	store.Dispatch(state.SetCourses{Courses: []api.Course{{ID: 1, Name: "Physics"}}})
	store.Dispatch(state.SetStudentAttendance{Records: []api.AttendanceRecord{{CourseID: 1}}})
	store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})

	o.RunCycle(context.Background())

	st := store.State()
	assert.Equal(t, "Failed to load data. Please try again later.", st.Error)
	// Stale data stays visible alongside the error
	require.Len(t, st.Courses, 1)
	require.Len(t, st.StudentAttendance, 1)
	assert.False(t, st.Loading)
	// The latch is cleared even on failure; no automatic retry
	assert.False(t, st.NeedsRefresh)
}

func TestRunCycle_ErrorClearedOnNextCycle(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	client := &mockDataAPI{
		studentAttendanceFunc: func(ctx context.Context, studentID int64) ([]api.AttendanceRecord, error) {
			if fail.Load() {
				return nil, fmt.Errorf("network down")
			}
			return []api.AttendanceRecord{}, nil
		},
	}
	o, store := newTestOrchestrator(client, studentSession(9))

	store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})
	o.RunCycle(context.Background())
	assert.NotEmpty(t, store.State().Error)

	fail.Store(false)
	store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})
	o.RunCycle(context.Background())
	assert.Empty(t, store.State().Error)
}

func TestRunCycle_ReentrancyGuard(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	client := &mockDataAPI{
		teacherAttendanceFunc: func(ctx context.Context) ([]api.AttendanceRecord, error) {
			close(started)
			<-block
			return []api.AttendanceRecord{}, nil
		},
	}
	o, store := newTestOrchestrator(client, teacherSession())
	store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.RunCycle(context.Background())
	}()
	<-started

	// Concurrent invocations return immediately without a second fetch
	o.RunCycle(context.Background())
	o.RunCycle(context.Background())

	close(block)
	wg.Wait()

	assert.Equal(t, int32(1), client.teacherAttendanceCalls.Load())
	assert.Equal(t, int32(1), client.teacherCoursesCalls.Load())
}

func TestRun_ConsumesLatchSignal(t *testing.T) {
	done := make(chan struct{})
	client := &mockDataAPI{
		teacherCoursesFunc: func(ctx context.Context) (*api.TeacherCoursesResponse, error) {
			defer close(done)
			return &api.TeacherCoursesResponse{Courses: []api.Course{}}, nil
		},
	}
	o, store := newTestOrchestrator(client, teacherSession())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})

	<-done
}

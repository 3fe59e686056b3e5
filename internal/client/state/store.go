package state

import (
	"fmt"
	"sync"

	"github.com/wkarimi/shulebook/pkg/api"
)

// Toast is the single transient user notification. Kind is "success" or
// "error".
type Toast struct {
	Message string
	Kind    string
}

// Toast kinds
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// State is the process-wide cache of role-relevant dashboard data plus
// the shared loading/error flags and the staleness latch.
type State struct {
	Loading            bool
	Error              string
	Toast              *Toast
	Courses            []api.Course
	StudentAttendance  []api.AttendanceRecord
	TeacherAttendance  []api.AttendanceRecord
	UniqueStudentCount int
	NeedsRefresh       bool
}

// Store owns the application state. All mutation goes through Dispatch;
// State returns a snapshot copy so readers never alias the cache.
type Store struct {
	mu        sync.RWMutex
	state     State
	refreshCh chan struct{}
}

// NewStore creates a store in the initial shape.
func NewStore() *Store {
	return &Store{
		state:     initialState(),
		refreshCh: make(chan struct{}, 1),
	}
}

// initialState is the fixed shape the store starts in and returns to on
// ClearAll.
func initialState() State {
	return State{
		Courses:           []api.Course{},
		StudentAttendance: []api.AttendanceRecord{},
		TeacherAttendance: []api.AttendanceRecord{},
	}
}

// Dispatch applies one action. The type switch is exhaustive over the
// closed Action set; an unknown action is a programming error.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a := action.(type) {
	case SetLoading:
		s.state.Loading = a.Loading
	case SetError:
		s.state.Error = a.Message
	case SetCourses:
		s.state.Courses = cloneSlice(a.Courses)
	case SetStudentAttendance:
		s.state.StudentAttendance = cloneSlice(a.Records)
	case SetTeacherAttendance:
		s.state.TeacherAttendance = cloneSlice(a.Records)
	case SetUniqueStudentCount:
		s.state.UniqueStudentCount = a.Count
	case ShowToast:
		toast := a.Toast
		s.state.Toast = &toast
	case ClearToast:
		s.state.Toast = nil
	case SetNeedsRefresh:
		s.state.NeedsRefresh = a.NeedsRefresh
		if a.NeedsRefresh {
			s.signalRefresh()
		}
	case ClearAll:
		s.state = initialState()
	default:
		panic(fmt.Sprintf("state: unknown action %T", action))
	}
}

// State returns a snapshot of the current state. Slices are copied so
// a later dispatch cannot mutate data a view is holding.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state
	snapshot.Courses = cloneSlice(s.state.Courses)
	snapshot.StudentAttendance = cloneSlice(s.state.StudentAttendance)
	snapshot.TeacherAttendance = cloneSlice(s.state.TeacherAttendance)
	if s.state.Toast != nil {
		toast := *s.state.Toast
		snapshot.Toast = &toast
	}
	return snapshot
}

// RefreshSignal is signalled whenever the staleness latch is raised.
// The channel is buffered with capacity one: repeated raises while a
// consumer is busy collapse into a single pending signal.
func (s *Store) RefreshSignal() <-chan struct{} {
	return s.refreshCh
}

func (s *Store) signalRefresh() {
	select {
	case s.refreshCh <- struct{}{}:
	default:
	}
}

// cloneSlice copies a slice, normalising nil to empty. The cache always
// holds non-nil lists so "no data yet" and "cleared" look the same.
func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

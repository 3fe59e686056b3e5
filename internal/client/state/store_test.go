package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wkarimi/shulebook/pkg/api"
)

func TestNewStore_InitialShape(t *testing.T) {
	store := NewStore()
	st := store.State()

	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Nil(t, st.Toast)
	assert.NotNil(t, st.Courses)
	assert.Empty(t, st.Courses)
	assert.NotNil(t, st.StudentAttendance)
	assert.Empty(t, st.StudentAttendance)
	assert.NotNil(t, st.TeacherAttendance)
	assert.Empty(t, st.TeacherAttendance)
	assert.Zero(t, st.UniqueStudentCount)
	assert.False(t, st.NeedsRefresh)
}

func TestStore_Dispatch(t *testing.T) {
	store := NewStore()

	store.Dispatch(SetLoading{Loading: true})
	store.Dispatch(SetError{Message: "Failed to load data. Please try again later."})
	store.Dispatch(SetCourses{Courses: []api.Course{{ID: 1, Name: "Mathematics"}}})
	store.Dispatch(SetStudentAttendance{Records: []api.AttendanceRecord{{CourseID: 1, Status: api.AttendancePresent}}})
	store.Dispatch(SetUniqueStudentCount{Count: 42})

	st := store.State()
	assert.True(t, st.Loading)
	assert.Equal(t, "Failed to load data. Please try again later.", st.Error)
	require.Len(t, st.Courses, 1)
	assert.Equal(t, "Mathematics", st.Courses[0].Name)
	require.Len(t, st.StudentAttendance, 1)
	assert.Equal(t, 42, st.UniqueStudentCount)

	store.Dispatch(SetError{Message: ""})
	assert.Empty(t, store.State().Error)
}

func TestStore_ClearAll_RestoresInitialShape(t *testing.T) {
	store := NewStore()

	store.Dispatch(SetLoading{Loading: true})
	store.Dispatch(SetError{Message: "boom"})
	store.Dispatch(ShowToast{Toast: Toast{Message: "Welcome back", Kind: ToastSuccess}})
	store.Dispatch(SetCourses{Courses: []api.Course{{ID: 1}}})
	store.Dispatch(SetTeacherAttendance{Records: []api.AttendanceRecord{{CourseID: 1}}})
	store.Dispatch(SetUniqueStudentCount{Count: 9})
	store.Dispatch(SetNeedsRefresh{NeedsRefresh: true})

	store.Dispatch(ClearAll{})

	assert.Equal(t, NewStore().State(), store.State())
}

func TestStore_ToastReplacement(t *testing.T) {
	store := NewStore()

	store.Dispatch(ShowToast{Toast: Toast{Message: "first", Kind: ToastSuccess}})
	store.Dispatch(ShowToast{Toast: Toast{Message: "second", Kind: ToastError}})

	st := store.State()
	require.NotNil(t, st.Toast)
	assert.Equal(t, "second", st.Toast.Message)
	assert.Equal(t, ToastError, st.Toast.Kind)

	store.Dispatch(ClearToast{})
	assert.Nil(t, store.State().Toast)
}

func TestStore_SnapshotIsolation(t *testing.T) {
	store := NewStore()
	store.Dispatch(SetCourses{Courses: []api.Course{{ID: 1, Name: "Mathematics"}}})

	snapshot := store.State()
	store.Dispatch(SetCourses{Courses: []api.Course{{ID: 2, Name: "Physics"}}})

	require.Len(t, snapshot.Courses, 1)
	assert.Equal(t, "Mathematics", snapshot.Courses[0].Name)
}

func TestStore_RefreshSignal(t *testing.T) {
	store := NewStore()

	store.Dispatch(SetNeedsRefresh{NeedsRefresh: true})

	select {
	case <-store.RefreshSignal():
	default:
		t.Fatal("expected a pending refresh signal")
	}

	// Lowering the latch does not signal
	store.Dispatch(SetNeedsRefresh{NeedsRefresh: false})
	select {
	case <-store.RefreshSignal():
		t.Fatal("unexpected refresh signal")
	default:
	}
}

func TestStore_RefreshSignalCoalesces(t *testing.T) {
	store := NewStore()

	store.Dispatch(SetNeedsRefresh{NeedsRefresh: true})
	store.Dispatch(SetNeedsRefresh{NeedsRefresh: true})
	store.Dispatch(SetNeedsRefresh{NeedsRefresh: true})

	<-store.RefreshSignal()
	select {
	case <-store.RefreshSignal():
		t.Fatal("repeated raises must collapse into one pending signal")
	default:
	}
}

func TestStore_UnknownActionPanics(t *testing.T) {
	store := NewStore()

	assert.Panics(t, func() {
		store.Dispatch(nil)
	})
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(SetLoading{Loading: true})
			_ = store.State()
			store.Dispatch(SetLoading{Loading: false})
		}()
	}
	wg.Wait()

	assert.False(t, store.State().Loading)
}

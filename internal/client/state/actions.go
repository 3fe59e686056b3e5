package state

import (
	"github.com/wkarimi/shulebook/pkg/api"
)

// Action is the closed set of mutations the store accepts. The cache is
// never written any other way: pages, the transport and the session
// manager all go through Dispatch. The unexported marker method keeps
// the set closed to this package.
type Action interface {
	isAction()
}

// SetLoading toggles the shared loading flag.
type SetLoading struct {
	Loading bool
}

// SetError sets (or clears, with an empty message) the shared
// user-facing error message.
type SetError struct {
	Message string
}

// SetCourses replaces the cached course list.
type SetCourses struct {
	Courses []api.Course
}

// SetStudentAttendance replaces the cached student attendance list.
type SetStudentAttendance struct {
	Records []api.AttendanceRecord
}

// SetTeacherAttendance replaces the cached teacher attendance list.
type SetTeacherAttendance struct {
	Records []api.AttendanceRecord
}

// SetUniqueStudentCount stores the count derived from the teacher
// course response.
type SetUniqueStudentCount struct {
	Count int
}

// ShowToast replaces the current toast. There is never more than one:
// showing a new toast replaces the visible one, it is not queued.
type ShowToast struct {
	Toast Toast
}

// ClearToast removes the current toast.
type ClearToast struct{}

// SetNeedsRefresh raises or lowers the staleness latch. Raised by the
// session manager after login/session restore, lowered only by the
// refresh orchestrator once a fetch cycle settles.
type SetNeedsRefresh struct {
	NeedsRefresh bool
}

// ClearAll resets the store to its exact initial shape. Dispatched on
// logout; there are no partial clears.
type ClearAll struct{}

func (SetLoading) isAction()            {}
func (SetError) isAction()              {}
func (SetCourses) isAction()            {}
func (SetStudentAttendance) isAction()  {}
func (SetTeacherAttendance) isAction()  {}
func (SetUniqueStudentCount) isAction() {}
func (ShowToast) isAction()             {}
func (ClearToast) isAction()            {}
func (SetNeedsRefresh) isAction()       {}
func (ClearAll) isAction()              {}

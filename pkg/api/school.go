package api

// Course represents a course as served to dashboards. Students receive
// the courses they are enrolled in, teachers the courses they teach.
type Course struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	TeacherName string `json:"teacher_name,omitempty"`
}

// TeacherCoursesResponse is the body of /teachers/api/courses/. The
// unique student count is derived server-side across all listed courses.
type TeacherCoursesResponse struct {
	Courses            []Course `json:"courses"`
	UniqueStudentCount int      `json:"unique_student_count"`
}

// Attendance statuses as stored by the backend.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
)

// AttendanceRecord is one attendance entry. Teacher dashboards see the
// records of every student in their classes; students see their own.
type AttendanceRecord struct {
	StudentID   int64  `json:"student_id"`
	StudentName string `json:"student_name"`
	CourseID    int64  `json:"course_id"`
	CourseName  string `json:"course_name"`
	Date        string `json:"date"`
	Status      string `json:"status"`
}

// Notification is one entry of the polled notification feed.
type Notification struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
	Read      bool   `json:"read"`
}

package storage

import (
	"context"

	"github.com/wkarimi/shulebook/internal/models"
)

// SchoolStorage defines the interface for course, attendance and
// notification persistence.
type SchoolStorage interface {
	// CreateCourse stores a new course and returns its ID.
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)

	// EnrollStudent adds a student to a course roster.
	// Enrolling the same pair twice is a no-op.
	EnrollStudent(ctx context.Context, courseID, studentID int64) error

	// CreateAttendance stores a new attendance record and returns its ID.
	CreateAttendance(ctx context.Context, record *models.Attendance) (int64, error)

	// CreateNotification stores a new notification for a user.
	CreateNotification(ctx context.Context, n *models.Notification) error

	// CoursesByTeacher lists courses taught by a teacher.
	CoursesByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error)

	// CoursesByStudent lists courses a student is enrolled in.
	CoursesByStudent(ctx context.Context, studentID int64) ([]models.Course, error)

	// UniqueStudentCount counts distinct students across all of a
	// teacher's courses.
	UniqueStudentCount(ctx context.Context, teacherID int64) (int, error)

	// AttendanceByTeacher lists attendance records for all courses the
	// teacher owns, with student and course names resolved.
	AttendanceByTeacher(ctx context.Context, teacherID int64) ([]AttendanceRow, error)

	// AttendanceByStudent lists attendance records for one student.
	AttendanceByStudent(ctx context.Context, studentID int64) ([]AttendanceRow, error)

	// NotificationsByUser lists notifications for a user, newest first.
	NotificationsByUser(ctx context.Context, userID int64) ([]models.Notification, error)
}

// AttendanceRow is an attendance record joined with student and course
// names, ready to serialize.
type AttendanceRow struct {
	StudentID   int64
	StudentName string
	CourseID    int64
	CourseName  string
	Date        string
	Status      string
}

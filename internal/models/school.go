package models

import "time"

// Course is a course row. TeacherID references the teaching user;
// TeacherName is resolved on read.
type Course struct {
	ID          int64
	Name        string
	Code        string
	Description string
	TeacherID   int64
	TeacherName string
}

// Enrollment links a student to a course.
type Enrollment struct {
	CourseID  int64
	StudentID int64
}

// Attendance is one attendance entry for a student in a course.
type Attendance struct {
	ID        int64
	StudentID int64
	CourseID  int64
	Date      string
	Status    string
}

// Notification is one feed entry addressed to a user.
type Notification struct {
	ID        string
	UserID    int64
	Message   string
	Kind      string
	CreatedAt time.Time
	Read      bool
}

package sqlite

import (
	"context"
	"fmt"

	"github.com/wkarimi/shulebook/internal/models"
	"github.com/wkarimi/shulebook/internal/server/storage"
)

// CreateCourse stores a new course and returns its generated ID
func (s *Storage) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	query := `
		INSERT INTO courses (name, code, description, teacher_id)
		VALUES (?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		course.Name,
		course.Code,
		course.Description,
		course.TeacherID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted course id: %w", err)
	}

	return id, nil
}

// EnrollStudent adds a student to a course roster
func (s *Storage) EnrollStudent(ctx context.Context, courseID, studentID int64) error {
	query := `
		INSERT OR IGNORE INTO enrollments (course_id, student_id)
		VALUES (?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, courseID, studentID); err != nil {
		return fmt.Errorf("failed to enroll student: %w", err)
	}

	return nil
}

// CreateAttendance stores a new attendance record and returns its generated ID
func (s *Storage) CreateAttendance(ctx context.Context, record *models.Attendance) (int64, error) {
	query := `
		INSERT INTO attendance (student_id, course_id, date, status)
		VALUES (?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		record.StudentID,
		record.CourseID,
		record.Date,
		record.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert attendance: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted attendance id: %w", err)
	}

	return id, nil
}

// CreateNotification stores a new notification
func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message, kind, created_at, read)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Message,
		n.Kind,
		n.CreatedAt,
		n.Read,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

const courseSelect = `
	SELECT c.id, c.name, c.code, c.description, c.teacher_id,
	       TRIM(t.first_name || ' ' || t.last_name)
	FROM courses c
	JOIN users t ON t.id = c.teacher_id
`

func (s *Storage) queryCourses(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var courses []models.Course

	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.TeacherID, &c.TeacherName); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return courses, nil
}

// CoursesByTeacher lists courses taught by a teacher
func (s *Storage) CoursesByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error) {
	query := courseSelect + ` WHERE c.teacher_id = ? ORDER BY c.id`

	return s.queryCourses(ctx, query, teacherID)
}

// CoursesByStudent lists courses a student is enrolled in
func (s *Storage) CoursesByStudent(ctx context.Context, studentID int64) ([]models.Course, error) {
	query := courseSelect + `
		JOIN enrollments e ON e.course_id = c.id
		WHERE e.student_id = ?
		ORDER BY c.id
	`

	return s.queryCourses(ctx, query, studentID)
}

// UniqueStudentCount counts distinct students across all of a teacher's courses
func (s *Storage) UniqueStudentCount(ctx context.Context, teacherID int64) (int, error) {
	query := `
		SELECT COUNT(DISTINCT e.student_id)
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE c.teacher_id = ?
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, teacherID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}

	return count, nil
}

func (s *Storage) queryAttendance(ctx context.Context, query string, args ...any) ([]storage.AttendanceRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []storage.AttendanceRow

	for rows.Next() {
		var r storage.AttendanceRow
		if err := rows.Scan(
			&r.StudentID,
			&r.StudentName,
			&r.CourseID,
			&r.CourseName,
			&r.Date,
			&r.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

const attendanceSelect = `
	SELECT a.student_id,
	       TRIM(u.first_name || ' ' || u.last_name),
	       a.course_id,
	       c.name,
	       a.date,
	       a.status
	FROM attendance a
	JOIN users u ON u.id = a.student_id
	JOIN courses c ON c.id = a.course_id
`

// AttendanceByTeacher lists attendance records across a teacher's courses
func (s *Storage) AttendanceByTeacher(ctx context.Context, teacherID int64) ([]storage.AttendanceRow, error) {
	query := attendanceSelect + `
		WHERE c.teacher_id = ?
		ORDER BY a.date DESC, a.id DESC
	`

	return s.queryAttendance(ctx, query, teacherID)
}

// AttendanceByStudent lists attendance records for one student
func (s *Storage) AttendanceByStudent(ctx context.Context, studentID int64) ([]storage.AttendanceRow, error) {
	query := attendanceSelect + `
		WHERE a.student_id = ?
		ORDER BY a.date DESC, a.id DESC
	`

	return s.queryAttendance(ctx, query, studentID)
}

// NotificationsByUser lists notifications for a user, newest first
func (s *Storage) NotificationsByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, message, kind, created_at, read
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var notifications []models.Notification

	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Kind, &n.CreatedAt, &n.Read); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return notifications, nil
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wkarimi/shulebook/internal/server/storage"
	"github.com/wkarimi/shulebook/pkg/api"
)

// SchoolHandler serves the dashboard data endpoints
type SchoolHandler struct {
	logger  *slog.Logger
	storage storage.SchoolStorage
}

// NewSchoolHandler creates a new dashboard data handler
func NewSchoolHandler(logger *slog.Logger, st storage.SchoolStorage) *SchoolHandler {
	return &SchoolHandler{
		logger:  logger,
		storage: st,
	}
}

func attendanceResponse(rows []storage.AttendanceRow) []api.AttendanceRecord {
	records := make([]api.AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, api.AttendanceRecord{
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			CourseID:    r.CourseID,
			CourseName:  r.CourseName,
			Date:        r.Date,
			Status:      r.Status,
		})
	}
	return records
}

// TeacherClassAttendance handles GET /teachers/api/class-attendance/
// Lists attendance for every student in the teacher's classes. Returns
// 404 when the teacher has no records yet.
func (h *SchoolHandler) TeacherClassAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}
	if role, _ := RoleFromContext(ctx); role != api.RoleTeacher {
		sendError(h.logger, w, "Only teachers can access this resource.", http.StatusForbidden)
		return
	}

	rows, err := h.storage.AttendanceByTeacher(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load teacher attendance", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if len(rows) == 0 {
		sendError(h.logger, w, "No attendance records found.", http.StatusNotFound)
		return
	}

	sendJSON(h.logger, w, attendanceResponse(rows), http.StatusOK)
}

// TeacherCourses handles GET /teachers/api/courses/
// Lists the teacher's courses with the distinct student count across
// them. Returns 404 when the teacher has no courses yet.
func (h *SchoolHandler) TeacherCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}
	if role, _ := RoleFromContext(ctx); role != api.RoleTeacher {
		sendError(h.logger, w, "Only teachers can access this resource.", http.StatusForbidden)
		return
	}

	courses, err := h.storage.CoursesByTeacher(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load teacher courses", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if len(courses) == 0 {
		sendError(h.logger, w, "No courses found for this teacher.", http.StatusNotFound)
		return
	}

	count, err := h.storage.UniqueStudentCount(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count students", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.TeacherCoursesResponse{
		Courses:            make([]api.Course, 0, len(courses)),
		UniqueStudentCount: count,
	}
	for _, c := range courses {
		resp.Courses = append(resp.Courses, api.Course{
			ID:          c.ID,
			Name:        c.Name,
			Code:        c.Code,
			Description: c.Description,
			TeacherName: c.TeacherName,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// studentID extracts and authorizes the {id} path parameter. Students
// may only read their own records; superusers may read anyone's.
func (h *SchoolHandler) studentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return 0, false
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(h.logger, w, "invalid student id", http.StatusBadRequest)
		return 0, false
	}

	role, _ := RoleFromContext(ctx)
	if id != userID && role != api.RoleAdmin {
		sendError(h.logger, w, "You do not have permission to view these records.", http.StatusForbidden)
		return 0, false
	}

	return id, true
}

// StudentAttendance handles GET /students/{id}/attendance/
// Returns 404 when the student has no records yet.
func (h *SchoolHandler) StudentAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.studentID(w, r)
	if !ok {
		return
	}

	rows, err := h.storage.AttendanceByStudent(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load student attendance", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if len(rows) == 0 {
		sendError(h.logger, w, "No attendance records found.", http.StatusNotFound)
		return
	}

	sendJSON(h.logger, w, attendanceResponse(rows), http.StatusOK)
}

// StudentCourses handles GET /students/{id}/courses/
// Returns 404 when the student is not enrolled anywhere yet.
func (h *SchoolHandler) StudentCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.studentID(w, r)
	if !ok {
		return
	}

	courses, err := h.storage.CoursesByStudent(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load student courses", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if len(courses) == 0 {
		sendError(h.logger, w, "No enrolled courses found.", http.StatusNotFound)
		return
	}

	resp := make([]api.Course, 0, len(courses))
	for _, c := range courses {
		resp = append(resp, api.Course{
			ID:          c.ID,
			Name:        c.Name,
			Code:        c.Code,
			Description: c.Description,
			TeacherName: c.TeacherName,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Notifications handles GET /api/notifications/
// Always returns a list; an empty feed is a 200 with an empty array.
func (h *SchoolHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	notifications, err := h.storage.NotificationsByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load notifications", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.Notification, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, api.Notification{
			ID:        n.ID,
			Message:   n.Message,
			Kind:      n.Kind,
			CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Read:      n.Read,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

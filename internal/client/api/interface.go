package api

import (
	"context"

	"github.com/wkarimi/shulebook/pkg/api"
)

//go:generate go tool moq -out client_mock.go . ClientAPI

// ClientAPI is the full endpoint surface of the portal backend as seen
// by the client. Services depend on this interface (or a subset) so
// they can be tested against mocks.
type ClientAPI interface {
	CSRF(ctx context.Context) (*api.CSRFResponse, error)
	Login(ctx context.Context, req api.LoginRequest, csrfToken string) (*api.LoginResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.MessageResponse, error)
	Logout(ctx context.Context) error
	User(ctx context.Context) (*api.User, error)
	Refresh(ctx context.Context, refreshToken string) (*api.RefreshResponse, error)
	GetProfile(ctx context.Context) (*api.Profile, error)
	UpdateProfile(ctx context.Context, profile api.Profile) (*api.Profile, error)
	TeacherClassAttendance(ctx context.Context) ([]api.AttendanceRecord, error)
	TeacherCourses(ctx context.Context) (*api.TeacherCoursesResponse, error)
	StudentAttendance(ctx context.Context, studentID int64) ([]api.AttendanceRecord, error)
	StudentCourses(ctx context.Context, studentID int64) ([]api.Course, error)
	Notifications(ctx context.Context) ([]api.Notification, error)
}

var _ ClientAPI = (*Client)(nil)

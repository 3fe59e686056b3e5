package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wkarimi/shulebook/pkg/api"
)

// CSRF obtains an anti-forgery token, required before login.
func (c *Client) CSRF(ctx context.Context) (*api.CSRFResponse, error) {
	var resp api.CSRFResponse
	err := c.doRequest(ctx, http.MethodGet, "/api/auth/csrf/", nil, &resp, requestOptions{noRefresh: true})
	if err != nil {
		return nil, fmt.Errorf("csrf request failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates with credentials. The CSRF token from a preceding
// CSRF call is attached as the X-CSRFToken header.
func (c *Client) Login(ctx context.Context, req api.LoginRequest, csrfToken string) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	opts := requestOptions{
		noRefresh: true,
		headers:   map[string]string{"X-CSRFToken": csrfToken},
	}
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login/", req, &resp, opts); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new portal account.
func (c *Client) Signup(ctx context.Context, req api.SignupRequest) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/signup/", req, &resp, requestOptions{noRefresh: true}); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout notifies the server that the session ends. Best effort: the
// caller proceeds with the local teardown even when this fails.
func (c *Client) Logout(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodPost, "/api/auth/logout/", nil, nil, requestOptions{noRefresh: true})
}

// User re-validates the session and returns the current user record.
func (c *Client) User(ctx context.Context) (*api.User, error) {
	var user api.User
	if err := c.Get(ctx, "/api/auth/user/", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh exchanges the refresh token for a new access token. Used only
// by the session manager; it bypasses the 401 interception so a dead
// refresh token cannot recurse into another refresh.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.RefreshResponse, error) {
	var resp api.RefreshResponse
	req := api.RefreshRequest{Refresh: refreshToken}
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/refresh/", req, &resp, requestOptions{noRefresh: true}); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile reads the editable profile fields.
func (c *Client) GetProfile(ctx context.Context) (*api.Profile, error) {
	var profile api.Profile
	if err := c.Get(ctx, "/api/auth/profile/", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile writes the editable profile fields and returns the
// updated record.
func (c *Client) UpdateProfile(ctx context.Context, profile api.Profile) (*api.Profile, error) {
	var updated api.Profile
	if err := c.Put(ctx, "/api/auth/profile/", profile, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// TeacherClassAttendance fetches the attendance records of every
// student in the teacher's classes.
func (c *Client) TeacherClassAttendance(ctx context.Context) ([]api.AttendanceRecord, error) {
	var records []api.AttendanceRecord
	if err := c.Get(ctx, "/teachers/api/class-attendance/", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// TeacherCourses fetches the teacher's course list together with the
// derived unique student count.
func (c *Client) TeacherCourses(ctx context.Context) (*api.TeacherCoursesResponse, error) {
	var resp api.TeacherCoursesResponse
	if err := c.Get(ctx, "/teachers/api/courses/", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StudentAttendance fetches a student's own attendance records.
func (c *Client) StudentAttendance(ctx context.Context, studentID int64) ([]api.AttendanceRecord, error) {
	var records []api.AttendanceRecord
	path := fmt.Sprintf("/students/%d/attendance/", studentID)
	if err := c.Get(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// StudentCourses fetches a student's enrolled courses.
func (c *Client) StudentCourses(ctx context.Context, studentID int64) ([]api.Course, error) {
	var courses []api.Course
	path := fmt.Sprintf("/students/%d/courses/", studentID)
	if err := c.Get(ctx, path, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Notifications fetches the polled notification feed.
func (c *Client) Notifications(ctx context.Context) ([]api.Notification, error) {
	var notifications []api.Notification
	if err := c.Get(ctx, "/api/notifications/", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

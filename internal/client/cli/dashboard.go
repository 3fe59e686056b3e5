package cli

import (
	"context"
	"fmt"

	"github.com/wkarimi/shulebook/internal/client/state"
	"github.com/wkarimi/shulebook/pkg/api"
)

// RunDashboard runs one refresh cycle if the data is stale (or force is
// set, the manual retry affordance) and prints the role dashboard.
func (a *App) RunDashboard(ctx context.Context, force bool) error {
	session := a.Auth.Session()
	if !session.Authenticated {
		return fmt.Errorf("not logged in. Run 'shulebook login' first")
	}

	if force {
		a.Store.Dispatch(state.SetNeedsRefresh{NeedsRefresh: true})
	}

	a.Orchestrator.RunCycle(ctx)

	st := a.Store.State()
	if st.Error != "" {
		fmt.Printf("Error: %s\n", st.Error)
		fmt.Println("Run 'shulebook --refresh dashboard' to retry.")
		return nil
	}

	switch session.User.Role {
	case api.RoleTeacher:
		printTeacherDashboard(st)
	case api.RoleStudent:
		printStudentDashboard(st)
	default:
		fmt.Printf("No shared dashboard for role %q.\n", session.User.Role)
	}

	if st.Toast != nil {
		fmt.Printf("[%s] %s\n", st.Toast.Kind, st.Toast.Message)
	}

	return nil
}

func printTeacherDashboard(st state.State) {
	fmt.Printf("Courses taught (%d), %d unique students:\n", len(st.Courses), st.UniqueStudentCount)
	printCourses(st.Courses)

	fmt.Printf("\nClass attendance (%d records):\n", len(st.TeacherAttendance))
	printAttendance(st.TeacherAttendance)
}

func printStudentDashboard(st state.State) {
	fmt.Printf("Enrolled courses (%d):\n", len(st.Courses))
	printCourses(st.Courses)

	fmt.Printf("\nAttendance (%d records):\n", len(st.StudentAttendance))
	printAttendance(st.StudentAttendance)
}

func printCourses(courses []api.Course) {
	if len(courses) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, c := range courses {
		fmt.Printf("  %-10s %s\n", c.Code, c.Name)
	}
}

func printAttendance(records []api.AttendanceRecord) {
	if len(records) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, r := range records {
		fmt.Printf("  %s  %-20s %-20s %s\n", r.Date, r.StudentName, r.CourseName, r.Status)
	}
}

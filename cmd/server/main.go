package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wkarimi/shulebook/internal/config"
	"github.com/wkarimi/shulebook/internal/models"
	"github.com/wkarimi/shulebook/internal/server/handlers"
	"github.com/wkarimi/shulebook/internal/server/middleware"
	"github.com/wkarimi/shulebook/internal/server/storage/sqlite"
	"github.com/wkarimi/shulebook/pkg/api"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	seed := flag.Bool("seed", false, "Seed the database with demo accounts and data")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *seed); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, seed bool) error {
	store, err := sqlite.New(ctx, cfg.ServerDBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	if seed {
		if err := seedDemoData(ctx, store, logger); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	jwtConfig := handlers.JWTConfig{
		Secret:          []byte(cfg.JWTSecret),
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}

	authHandler := handlers.NewAuthHandler(logger, store, store, jwtConfig)
	schoolHandler := handlers.NewSchoolHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, Version)

	requireAuth := middleware.AuthMiddleware(logger, jwtConfig)
	optionalAuth := middleware.OptionalAuthMiddleware(logger, jwtConfig)
	loginLimit := middleware.RateLimitMiddleware(10, time.Minute, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health/", healthHandler.Health)
	mux.HandleFunc("GET /api/auth/csrf/", authHandler.CSRF)
	mux.Handle("POST /api/auth/login/", loginLimit(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/signup/", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/refresh/", authHandler.Refresh)
	mux.Handle("POST /api/auth/logout/", optionalAuth(http.HandlerFunc(authHandler.Logout)))

	mux.Handle("GET /api/auth/user/", requireAuth(http.HandlerFunc(authHandler.User)))
	mux.Handle("GET /api/auth/profile/", requireAuth(http.HandlerFunc(authHandler.GetProfile)))
	mux.Handle("PUT /api/auth/profile/", requireAuth(http.HandlerFunc(authHandler.UpdateProfile)))

	mux.Handle("GET /teachers/api/class-attendance/", requireAuth(http.HandlerFunc(schoolHandler.TeacherClassAttendance)))
	mux.Handle("GET /teachers/api/courses/", requireAuth(http.HandlerFunc(schoolHandler.TeacherCourses)))
	mux.Handle("GET /students/{id}/attendance/", requireAuth(http.HandlerFunc(schoolHandler.StudentAttendance)))
	mux.Handle("GET /students/{id}/courses/", requireAuth(http.HandlerFunc(schoolHandler.StudentCourses)))
	mux.Handle("GET /api/notifications/", requireAuth(http.HandlerFunc(schoolHandler.Notifications)))

	handler := middleware.RecoveryMiddleware(logger)(
		middleware.LoggingMiddleware(logger)(mux),
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// seedDemoData creates two demo accounts (teacher/student, password
// "password123") with courses, enrollments, attendance and a few
// notifications. Safe to re-run: it skips when the teacher exists.
func seedDemoData(ctx context.Context, store *sqlite.Storage, logger *slog.Logger) error {
	if _, err := store.GetUserByUsername(ctx, "demo_teacher"); err == nil {
		logger.Info("demo data already present, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	now := time.Now()

	teacherID, err := store.CreateUser(ctx, &models.User{
		Username:     "demo_teacher",
		PasswordHash: string(hash),
		Email:        "teacher@example.com",
		FirstName:    "Tabitha",
		LastName:     "Omondi",
		Role:         api.RoleTeacher,
		CreatedAt:    now,
	})
	if err != nil {
		return err
	}

	studentID, err := store.CreateUser(ctx, &models.User{
		Username:     "demo_student",
		PasswordHash: string(hash),
		Email:        "student@example.com",
		FirstName:    "Samuel",
		LastName:     "Kiprotich",
		Role:         api.RoleStudent,
		CreatedAt:    now,
	})
	if err != nil {
		return err
	}

	mathID, err := store.CreateCourse(ctx, &models.Course{
		Name:        "Mathematics",
		Code:        "MATH-101",
		Description: "Introductory algebra and geometry",
		TeacherID:   teacherID,
	})
	if err != nil {
		return err
	}

	physID, err := store.CreateCourse(ctx, &models.Course{
		Name:        "Physics",
		Code:        "PHYS-101",
		Description: "Mechanics and waves",
		TeacherID:   teacherID,
	})
	if err != nil {
		return err
	}

	for _, courseID := range []int64{mathID, physID} {
		if err := store.EnrollStudent(ctx, courseID, studentID); err != nil {
			return err
		}
	}

	records := []models.Attendance{
		{StudentID: studentID, CourseID: mathID, Date: now.AddDate(0, 0, -2).Format("2006-01-02"), Status: api.AttendancePresent},
		{StudentID: studentID, CourseID: mathID, Date: now.AddDate(0, 0, -1).Format("2006-01-02"), Status: api.AttendanceLate},
		{StudentID: studentID, CourseID: physID, Date: now.AddDate(0, 0, -1).Format("2006-01-02"), Status: api.AttendanceAbsent},
	}
	for i := range records {
		if _, err := store.CreateAttendance(ctx, &records[i]); err != nil {
			return err
		}
	}

	notifications := []models.Notification{
		{ID: uuid.New().String(), UserID: studentID, Message: "Mathematics assignment due Friday", Kind: "info", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: uuid.New().String(), UserID: teacherID, Message: "Staff meeting moved to 10:00", Kind: "info", CreatedAt: now.Add(-1 * time.Hour)},
	}
	for i := range notifications {
		if err := store.CreateNotification(ctx, &notifications[i]); err != nil {
			return err
		}
	}

	logger.Info("demo data seeded",
		slog.Int64("teacher_id", teacherID),
		slog.Int64("student_id", studentID))

	return nil
}

func printVersion() {
	fmt.Printf("Shulebook Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

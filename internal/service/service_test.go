package service

import (
	"path/filepath"
	"testing"
	"time"

	"cogassess/internal/database"
	"cogassess/internal/models"
	"cogassess/internal/repository"
	"cogassess/internal/security"
	"cogassess/migrations"
)

type testEnv struct {
	db          *database.DB
	sessions    *repository.SessionRepository
	assessments *repository.AssessmentRepository
	auth        *AuthService
	assessment  *AssessmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(migrations.FS); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	assessments := repository.NewAssessmentRepository(db)

	return &testEnv{
		db:          db,
		sessions:    sessions,
		assessments: assessments,
		auth:        NewAuthService(users, sessions, assessments, security.NewTokenIssuer("test-secret"), 7*24*time.Hour),
		assessment:  NewAssessmentService(sessions, assessments),
	}
}

func (e *testEnv) signup(t *testing.T) *models.User {
	t.Helper()

	user, _, err := e.auth.Signup(SignupInput{
		Name:        "Asha Menon",
		Age:         12,
		Grade:       7,
		Mobile:      9876543210,
		DateOfBirth: "2012-04-01",
		State:       "Kerala",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	return user
}

func (e *testEnv) seedQuestions(t *testing.T, questions ...models.Question) {
	t.Helper()

	for _, q := range questions {
		if err := e.assessments.UpsertQuestion(q); err != nil {
			t.Fatalf("UpsertQuestion() error = %v", err)
		}
	}
}

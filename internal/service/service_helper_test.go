package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aidocs/backend/config"
	"github.com/aidocs/backend/internal/eventbus"
	"github.com/aidocs/backend/internal/model"
	"github.com/aidocs/backend/internal/pkg/database"
	"github.com/aidocs/backend/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGenerator struct {
	outline []string
	delay   time.Duration

	mu       sync.Mutex
	bodies   []string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeGenerator) GenerateOutline(ctx context.Context, topic string, docType model.DocType) []string {
	return append([]string(nil), f.outline...)
}

func (f *fakeGenerator) GenerateSectionBody(ctx context.Context, topic, sectionTitle string, docType model.DocType) string {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.bodies = append(f.bodies, sectionTitle)
	f.mu.Unlock()
	return fmt.Sprintf("body of %s (%s)", sectionTitle, docType)
}

func (f *fakeGenerator) Refine(ctx context.Context, currentText, instruction string) string {
	return currentText + " | " + instruction
}

type testEnv struct {
	db         *gorm.DB
	cfg        *config.Config
	users      repository.UserRepository
	projects   repository.ProjectRepository
	sections   repository.SectionRepository
	generator  *fakeGenerator
	projectBus *eventbus.ProjectEventBus
	sectionBus *eventbus.SectionEventBus
	projectSvc *ProjectService
	sectionSvc *SectionService
	authSvc    *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.BcryptCost = 4

	env := &testEnv{
		db:         db,
		cfg:        cfg,
		users:      repository.NewUserRepository(db),
		projects:   repository.NewProjectRepository(db),
		sections:   repository.NewSectionRepository(db),
		generator:  &fakeGenerator{outline: []string{"Intro", "Body", "End"}},
		projectBus: eventbus.NewProjectEventBus(),
		sectionBus: eventbus.NewSectionEventBus(),
	}
	env.projectSvc = NewProjectService(cfg, env.projects, env.sections, env.generator, env.projectBus)
	env.sectionSvc = NewSectionService(env.projects, env.sections, env.generator, env.sectionBus)
	env.authSvc = NewAuthService(cfg, env.users)
	return env
}

func (e *testEnv) user(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) project(t *testing.T, owner *model.User, outline ...string) *model.Project {
	t.Helper()
	project, err := e.projectSvc.CreateProject(context.Background(), owner, CreateProjectRequest{
		Title:   "Plan",
		Topic:   "Solar",
		DocType: model.DocTypeDOCX,
		Outline: outline,
	})
	require.NoError(t, err)
	return project
}

package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/equiptrack/internal/migrations"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB.DB, migrationsPath))
	require.NoError(t, CheckDatabaseReady(ctx, storage))

	return storage
}

// TestDataFactory создаёт тестовые записи
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, username, email string, trialStart time.Time) models.User {
	t.Helper()
	u := models.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		Role:          models.RoleSupervisor,
		PasswordHash:  "hashedpassword",
		CreatedAt:     trialStart,
		TrialStart:    &trialStart,
		IsTrialActive: true,
	}
	require.NoError(t, f.storage.CreateUser(context.Background(), u))
	return u
}

// CreateDepartment создает тестовый отдел
func (f *TestDataFactory) CreateDepartment(t *testing.T, name string) models.Department {
	t.Helper()
	d := models.Department{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		CreatedBy: "creator",
	}
	require.NoError(t, f.storage.CreateDepartment(context.Background(), d))
	return d
}

// CreateMachine создает тестовое оборудование
func (f *TestDataFactory) CreateMachine(t *testing.T, name string, dept models.Department) models.Machine {
	t.Helper()
	m := models.Machine{
		ID:             uuid.NewString(),
		Name:           name,
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		CreatedAt:      time.Now().UTC(),
		CreatedBy:      "creator",
	}
	require.NoError(t, f.storage.CreateMachine(context.Background(), m))
	return m
}

// CreateWorkOrder создает тестовый заказ-наряд с заданными номером и статусом
func (f *TestDataFactory) CreateWorkOrder(t *testing.T, woID string, status models.WorkOrderStatus, createdAt time.Time) *models.WorkOrder {
	t.Helper()
	wo := &models.WorkOrder{
		ID:              uuid.NewString(),
		WOID:            woID,
		Title:           "Inspect " + woID,
		Type:            models.TypePM,
		Priority:        models.PriorityMedium,
		Status:          status,
		RequestedBy:     "u1",
		RequestedByName: "alice",
		Site:            models.DefaultSite,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	require.NoError(t, f.storage.CreateWorkOrder(context.Background(), wo))
	return wo
}

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"rds-portal/internal/database"
	"rds-portal/internal/models"
)

// startPostgres spins up a disposable Postgres and returns a migrated pool.
// Skips the test when Docker is not available.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("portal_test"),
		postgres.WithUsername("portal"),
		postgres.WithPassword("portal"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("skipping, could not start postgres container: %v", err)
	}
	testcontainers.CleanupContainer(t, container)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.RunMigrations(pool))
	return pool
}

func testInstance(name, owner string) *models.Instance {
	return &models.Instance{
		DatabaseName:           name,
		ExpectedSize:           "50GB",
		Engine:                 "mysql",
		InstanceClass:          "db.t3.micro",
		AllocatedStorage:       50,
		AWSInstanceIdentifier:  "rds-" + name + "-abcd1234",
		DatabaseUsername:       "admin",
		DatabasePassword:       "hunter2hunter2!!",
		ServiceAccountUsername: "svc_" + name,
		AppUsername:            "app_" + name,
		Status:                 models.StatusCreating,
		CreatedBy:              owner,
	}
}

func TestInstanceRepositoryLifecycle(t *testing.T) {
	pool := startPostgres(t)
	repo := NewInstanceRepository(pool)
	ctx := context.Background()

	created := testInstance("orders-db", "alice")
	require.NoError(t, repo.Create(ctx, created))
	require.NotEqual(t, uuid.Nil, created.ID)

	t.Run("owner scoping", func(t *testing.T) {
		got, err := repo.GetByIDAndOwner(ctx, created.ID, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "orders-db", got.DatabaseName)
		assert.Equal(t, models.StatusCreating, got.Status)

		foreign, err := repo.GetByIDAndOwner(ctx, created.ID, "bob")
		require.NoError(t, err)
		assert.Nil(t, foreign, "another owner's lookup behaves like a miss")

		missing, err := repo.GetByIDAndOwner(ctx, uuid.New(), "alice")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("name uniqueness is case-insensitive", func(t *testing.T) {
		exists, err := repo.NameExists(ctx, "Orders-DB")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.NameExists(ctx, "other-db")
		require.NoError(t, err)
		assert.False(t, exists)

		dup := testInstance("ORDERS-DB", "bob")
		assert.Error(t, repo.Create(ctx, dup), "the unique index rejects a same-name insert")
	})

	t.Run("status and network updates", func(t *testing.T) {
		require.NoError(t, repo.UpdateNetwork(ctx, created.ID, "rds-orders-db-abcd1234.example.test", 3306))
		require.NoError(t, repo.UpdateStatus(ctx, created.ID, models.StatusAvailable))

		got, err := repo.GetByIDAndOwner(ctx, created.ID, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "rds-orders-db-abcd1234.example.test", got.Endpoint)
		assert.Equal(t, 3306, got.Port)
		assert.Equal(t, models.StatusAvailable, got.Status)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	})

	t.Run("delete", func(t *testing.T) {
		victim := testInstance("victim-db", "alice")
		require.NoError(t, repo.Create(ctx, victim))
		require.NoError(t, repo.Delete(ctx, victim.ID))

		got, err := repo.GetByIDAndOwner(ctx, victim.ID, "alice")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestInstanceRepositoryListAndCounts(t *testing.T) {
	pool := startPostgres(t)
	repo := NewInstanceRepository(pool)
	ctx := context.Background()

	names := []string{"orders-db", "orders-replica", "billing-db", "billing-archive"}
	for _, name := range names {
		require.NoError(t, repo.Create(ctx, testInstance(name, "alice")))
	}
	require.NoError(t, repo.Create(ctx, testInstance("bobs-db", "bob")))

	failed := testInstance("broken-db", "alice")
	require.NoError(t, repo.Create(ctx, failed))
	require.NoError(t, repo.UpdateStatus(ctx, failed.ID, models.StatusFailed))

	t.Run("search filter", func(t *testing.T) {
		instances, total, err := repo.List(ctx, "alice", ListOptions{Search: "ORDERS"})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, instances, 2)
		for _, instance := range instances {
			assert.Contains(t, instance.DatabaseName, "orders")
		}
	})

	t.Run("status filter", func(t *testing.T) {
		instances, total, err := repo.List(ctx, "alice", ListOptions{Status: models.StatusFailed})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, instances, 1)
		assert.Equal(t, "broken-db", instances[0].DatabaseName)
	})

	t.Run("pagination", func(t *testing.T) {
		page1, total, err := repo.List(ctx, "alice", ListOptions{Page: 1, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Len(t, page1, 3)

		page2, _, err := repo.List(ctx, "alice", ListOptions{Page: 2, PageSize: 3})
		require.NoError(t, err)
		assert.Len(t, page2, 2)
	})

	t.Run("owner scoping", func(t *testing.T) {
		_, total, err := repo.List(ctx, "bob", ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		count, err := repo.CountByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 5, count)

		count, err = repo.CountByOwnerAndStatus(ctx, "alice", models.StatusFailed)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("recent window", func(t *testing.T) {
		recent, err := repo.RecentByOwner(ctx, "alice", time.Now().Add(-7*24*time.Hour), 3)
		require.NoError(t, err)
		assert.Len(t, recent, 3)

		none, err := repo.RecentByOwner(ctx, "alice", time.Now().Add(time.Hour), 3)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

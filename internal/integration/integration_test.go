package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	pgstore "trivia-service/internal/infra/postgres"
	pgmigrations "trivia-service/internal/infra/postgres/migrations"
)

func TestLeaderboardEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, cleanup := startPostgres(t, ctx)
	defer cleanup()

	migrateLeaderboard(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	store := pgstore.NewScoreStore(pool)
	service := app.NewLeaderboardService(store)

	ada, err := service.SaveScore(ctx, "Ada", 20)
	if err != nil {
		t.Fatalf("save ada: %v", err)
	}
	if ada.ID == "" || ada.CreatedAt.IsZero() {
		t.Fatalf("expected store-assigned id and timestamp, got %+v", ada)
	}
	if _, err := service.SaveScore(ctx, "Bob", 50); err != nil {
		t.Fatalf("save bob: %v", err)
	}

	lb, err := service.View(ctx, domain.FilterAllTime, "", ada.ID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(lb.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", lb.Entries)
	}
	if lb.Entries[0].Name != "Bob" || lb.Entries[0].Rank != 1 {
		t.Fatalf("expected Bob ranked first, got %+v", lb.Entries[0])
	}
	if lb.ViewerRank != 2 || !lb.Entries[1].IsViewer {
		t.Fatalf("expected Ada as viewer at rank 2, got %+v", lb)
	}

	// Freshly written records all fall within the daily window.
	daily, err := service.View(ctx, domain.FilterDaily, "", "")
	if err != nil {
		t.Fatalf("daily view: %v", err)
	}
	if len(daily.Entries) != 2 {
		t.Fatalf("expected both records in the daily window, got %+v", daily.Entries)
	}

	// A cutoff in the future excludes everything.
	future, err := store.List(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("future list: %v", err)
	}
	if len(future) != 0 {
		t.Fatalf("expected no records after future cutoff, got %+v", future)
	}
}

func migrateLeaderboard(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trivia", "POSTGRES_PASSWORD": "triviapass", "POSTGRES_DB": "triviadb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://trivia:triviapass@%s:%s/triviadb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}

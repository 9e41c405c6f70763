package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap/zaptest"

	"terminal-quiz/internal/app"
	"terminal-quiz/internal/content"
	"terminal-quiz/internal/domain"
	"terminal-quiz/internal/infra/memory"
	pgsource "terminal-quiz/internal/infra/postgres"
	pgmigrations "terminal-quiz/internal/infra/postgres/migrations"
	infraredis "terminal-quiz/internal/infra/redis"
)

func TestPlayFromPostgresThroughRedis(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)
	logger := zaptest.NewLogger(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	sample, err := content.NewStore(memory.SampleSource())
	if err != nil {
		t.Fatalf("sample store: %v", err)
	}
	topics, questions, err := pgsource.NewImporter(pool, logger).Import(ctx, sample)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if topics != 2 || questions != 7 {
		t.Fatalf("expected 2 topics and 7 questions, got %d and %d", topics, questions)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	source := infraredis.NewCachedSource(redisClient, pgsource.NewSource(pool), 5*time.Minute, logger)
	store, err := content.NewStore(source, content.WithLogger(logger))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	bank := app.NewQuestionBank(store)
	resolver := app.NewTopicResolver(store, bank)
	engine := app.NewEngine(resolver, bank, app.WithSeed(42), app.WithLogger(logger))

	summaries, err := resolver.Summaries(ctx)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(summaries) != 2 || summaries[0].ID != "science" || summaries[0].Questions != 4 {
		t.Fatalf("unexpected summaries %+v", summaries)
	}

	session, err := engine.Start(ctx, "geography", 3)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for !session.State().Complete() {
		step, err := session.Current()
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		if _, err := session.Submit(string(step.Question.Answer)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	report, err := session.Report()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Score != 3 || report.Total != 3 {
		t.Fatalf("expected 3/3, got %d/%d", report.Score, report.Total)
	}

	exists, err := redisClient.Exists(ctx, "quiz:source:postgres:question_sets/geography").Result()
	if err != nil {
		t.Fatalf("redis exists: %v", err)
	}
	if exists != 1 {
		t.Fatalf("expected geography question set cached in redis")
	}

	if _, err := engine.Start(ctx, "history", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown topic, got %v", err)
	}

	// Re-importing a smaller registry drops the unregistered question set.
	registry := memory.JSON(`{"topics": [{"display_name": "General Science", "file_name": "science"}]}`)
	smaller := memory.NewSource(&registry, nil)
	if err := copyQuestionSet(ctx, sample, smaller, "science"); err != nil {
		t.Fatalf("copy science: %v", err)
	}
	smallerStore, err := content.NewStore(smaller)
	if err != nil {
		t.Fatalf("smaller store: %v", err)
	}
	if topics, _, err := pgsource.NewImporter(pool, logger).Import(ctx, smallerStore); err != nil || topics != 1 {
		t.Fatalf("re-import: topics=%d err=%v", topics, err)
	}
	var sets int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM question_sets`).Scan(&sets); err != nil {
		t.Fatalf("count question sets: %v", err)
	}
	if sets != 1 {
		t.Fatalf("expected stale question sets removed, %d remain", sets)
	}
}

func copyQuestionSet(ctx context.Context, from *content.Store, to *memory.Source, topicID string) error {
	set, err := from.LoadQuestionSet(ctx, topicID)
	if err != nil {
		return err
	}
	data, err := content.EncodeQuestionSet(set)
	if err != nil {
		return err
	}
	to.Put(topicID, memory.JSON(string(data)))
	return nil
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
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
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
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

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}

package store_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/dbpool"
	"github.com/lineagehq/lineage/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// setupTestBase creates a Base with a fresh test workspace, cleaned up after the test.
func setupTestBase(t *testing.T) (_ store.Base, _ string) {
	t.Helper()

	env := getTestEnv(t)
	workspaceID := uuid.New().String()
	ctx := context.Background()

	apiKey := "test-key-" + workspaceID
	hash := sha256.Sum256([]byte(apiKey))
	apiKeyHash := hex.EncodeToString(hash[:])

	_, err := env.pool.Exec(ctx,
		"INSERT INTO workspaces (id, name, api_key_hash) VALUES ($1, $2, $3)",
		workspaceID, fmt.Sprintf("test-workspace-%s", workspaceID[:8]), apiKeyHash,
	)
	if err != nil {
		t.Fatalf("creating test workspace: %v", err)
	}

	t.Cleanup(func() {
		cleanCtx := context.Background()
		// Delete in dependency order: relationships, people, workspace.
		env.pool.Exec(cleanCtx, "DELETE FROM relationships WHERE workspace_id = $1", workspaceID) //nolint:errcheck // best-effort cleanup
		env.pool.Exec(cleanCtx, "DELETE FROM people WHERE workspace_id = $1", workspaceID)        //nolint:errcheck // best-effort cleanup
		env.pool.Exec(cleanCtx, "DELETE FROM workspaces WHERE id = $1", workspaceID)              //nolint:errcheck // best-effort cleanup
	})

	return store.Base{Pool: env.pool, Log: env.log}, workspaceID
}

func TestGetWorkspaceByAPIKey(t *testing.T) {
	base, workspaceID := setupTestBase(t)

	got, err := base.GetWorkspaceByAPIKey(context.Background(), "test-key-"+workspaceID)
	if err != nil {
		t.Fatalf("GetWorkspaceByAPIKey: %v", err)
	}

	if got != workspaceID {
		t.Errorf("workspace = %q, want %q", got, workspaceID)
	}
}

func TestGetWorkspaceByAPIKey_Unknown(t *testing.T) {
	base, _ := setupTestBase(t)

	if _, err := base.GetWorkspaceByAPIKey(context.Background(), "no-such-key"); err == nil {
		t.Error("expected an error for an unknown API key")
	}
}

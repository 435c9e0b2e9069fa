package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink/internal/domain"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, repo.Close())
	})

	return repo
}

func testRecord(code, longURL string) *domain.URLRecord {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.URLRecord{
		Code:      code,
		LongURL:   longURL,
		Clicks:    0,
		CreatedAt: now,
		ExpiresAt: now.Add(30 * 24 * time.Hour),
	}
}

func TestInsertAndFindByCode(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	record := testRecord("abc1234", "https://example.com")
	require.NoError(t, repo.Insert(ctx, record))

	found, err := repo.FindByCode(ctx, "abc1234")
	require.NoError(t, err)

	assert.Equal(t, record.Code, found.Code)
	assert.Equal(t, record.LongURL, found.LongURL)
	assert.Equal(t, int64(0), found.Clicks)
	assert.True(t, record.CreatedAt.Equal(found.CreatedAt))
	assert.True(t, record.ExpiresAt.Equal(found.ExpiresAt))
}

func TestInsertConflict(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testRecord("abc1234", "https://example.com")))

	err := repo.Insert(ctx, testRecord("abc1234", "https://other.example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCodeConflict)
}

func TestFindByCodeNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.FindByCode(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByLongURL(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testRecord("abc1234", "https://example.com")))

	found, err := repo.FindByLongURL(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "abc1234", found.Code)

	_, err = repo.FindByLongURL(ctx, "https://nowhere.example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first := testRecord("first01", "https://example.com/1")
	first.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	second := testRecord("second1", "https://example.com/2")
	second.CreatedAt = time.Now().UTC().Add(-1 * time.Hour)

	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, "second1", records[0].Code)
	assert.Equal(t, "first01", records[1].Code)
}

func TestIncrementClicks(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testRecord("abc1234", "https://example.com")))

	require.NoError(t, repo.IncrementClicks(ctx, "abc1234"))
	require.NoError(t, repo.IncrementClicks(ctx, "abc1234"))

	found, err := repo.FindByCode(ctx, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.Clicks)
}

func TestIncrementClicksNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.IncrementClicks(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIncrementClicksConcurrent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testRecord("abc1234", "https://example.com")))

	const workers = 10
	const perWorker = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				// SQLite serializes writers; every increment must land.
				if err := repo.IncrementClicks(ctx, "abc1234"); err != nil {
					t.Errorf("IncrementClicks failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	found, err := repo.FindByCode(ctx, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), found.Clicks)
}

func TestUpsert(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	record := testRecord("abc1234", "https://example.com")
	require.NoError(t, repo.Upsert(ctx, record))

	found, err := repo.FindByCode(ctx, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", found.LongURL)
	assert.Equal(t, int64(0), found.Clicks)

	// Local clicks survive an upsert; only redirect fields are replaced.
	require.NoError(t, repo.IncrementClicks(ctx, "abc1234"))

	updated := testRecord("abc1234", "https://updated.example.com")
	require.NoError(t, repo.Upsert(ctx, updated))

	found, err = repo.FindByCode(ctx, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, "https://updated.example.com", found.LongURL)
	assert.Equal(t, int64(1), found.Clicks)
}

func TestDelete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testRecord("abc1234", "https://example.com")))
	require.NoError(t, repo.Delete(ctx, "abc1234"))

	_, err := repo.FindByCode(ctx, "abc1234")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete(ctx, "abc1234")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	repo, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), testRecord("abc1234", "https://example.com")))
	require.NoError(t, repo.Close())

	// Reopening must not re-apply migrations or lose data
	repo, err = New(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	found, err := repo.FindByCode(context.Background(), "abc1234")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", found.LongURL)
}

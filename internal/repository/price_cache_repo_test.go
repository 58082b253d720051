package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/epeers/riskflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo connects to PG_URL, skipping the test when it is not set.
// Rows written under the test ticker are removed afterwards.
func testRepo(t *testing.T, ticker string) *PriceCacheRepository {
	t.Helper()
	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		t.Skip("PG_URL environment variable not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := Connect(ctx, pgURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewPriceCacheRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	cleanup := func() {
		for _, table := range []string{"price_history", "price_history_range", "company_profile"} {
			pool.Exec(context.Background(), "DELETE FROM "+table+" WHERE ticker = $1", ticker)
		}
	}
	cleanup()
	t.Cleanup(cleanup)
	return repo
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestPriceCacheRepository_Closes(t *testing.T) {
	const ticker = "ZZTEST1"
	repo := testRepo(t, ticker)
	ctx := context.Background()

	prices := []models.PricePoint{
		{Date: day("2023-01-03"), Close: 10.5},
		{Date: day("2023-01-04"), Close: 11},
		{Date: day("2023-01-05"), Close: 10.75},
	}
	require.NoError(t, repo.StoreDailyCloses(ctx, ticker, prices))

	got, err := repo.GetDailyCloses(ctx, ticker, day("2023-01-04"), day("2023-01-05"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Date.Equal(day("2023-01-04")))
	assert.Equal(t, 10.75, got[1].Close)

	// overwriting updates the close
	require.NoError(t, repo.StoreDailyCloses(ctx, ticker, []models.PricePoint{{Date: day("2023-01-05"), Close: 12}}))
	got, err = repo.GetDailyCloses(ctx, ticker, day("2023-01-05"), day("2023-01-05"))
	require.NoError(t, err)
	assert.Equal(t, 12.0, got[0].Close)
}

func TestPriceCacheRepository_RangeMerges(t *testing.T) {
	const ticker = "ZZTEST2"
	repo := testRepo(t, ticker)
	ctx := context.Background()

	pr, err := repo.GetPriceRange(ctx, ticker)
	require.NoError(t, err)
	assert.Nil(t, pr)

	next := time.Date(2023, 6, 2, 20, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertPriceRange(ctx, ticker, day("2022-01-03"), day("2023-06-01"), next))
	require.NoError(t, repo.UpsertPriceRange(ctx, ticker, day("2022-06-01"), day("2023-05-01"), next.AddDate(0, 0, 1)))

	pr, err = repo.GetPriceRange(ctx, ticker)
	require.NoError(t, err)
	require.NotNil(t, pr)
	assert.True(t, pr.StartDate.Equal(day("2022-01-03")), "start keeps the earliest")
	assert.True(t, pr.EndDate.Equal(day("2023-06-01")), "end keeps the latest")
	assert.True(t, pr.NextUpdate.Equal(next.AddDate(0, 0, 1)))
}

func TestPriceCacheRepository_Profile(t *testing.T) {
	const ticker = "ZZTEST3"
	repo := testRepo(t, ticker)
	ctx := context.Background()

	p, err := repo.GetProfile(ctx, ticker)
	require.NoError(t, err)
	assert.Nil(t, p)

	want := &models.CompanyProfile{Symbol: ticker, Name: "Test Corp", Sector: "TECHNOLOGY", Industry: "SEMICONDUCTORS"}
	require.NoError(t, repo.StoreProfile(ctx, want))

	p, err = repo.GetProfile(ctx, ticker)
	require.NoError(t, err)
	assert.Equal(t, want, p)
}

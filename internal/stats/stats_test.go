package stats_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-console/internal/domain"
	"github.com/spec-kit/crm-console/internal/stats"
)

func TestSummarize(t *testing.T) {
	customers := []domain.Customer{
		{ID: "c1", Status: domain.CustomerStatusNew},
		{ID: "c2", Status: domain.CustomerStatusNoResponse},
		{ID: "c3", Status: domain.CustomerStatusBuyed},
		{ID: "c4", Status: domain.CustomerStatusBuyed},
		{ID: "c5", Status: domain.CustomerStatusCancelled},
	}

	summary := stats.Summarize(customers)
	require.Equal(t, 5, summary.Total)
	require.Equal(t, 2, summary.InProgress)
	require.Equal(t, 2, summary.Buyed)
	require.Equal(t, 1, summary.Cancelled)
	require.InDelta(t, 0.4, summary.ConversionRate(), 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := stats.Summarize(nil)
	require.Equal(t, stats.Summary{}, summary)
	require.Zero(t, summary.ConversionRate())
}

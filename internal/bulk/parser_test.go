// AngelaMos | 2026
// parser_test.go

package bulk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/billforge/internal/core"
)

func TestParseRowsCSV(t *testing.T) {
	csv := "name, amount_cents ,currency\nalpha,100,USD\nbeta,200,\n"

	rows, err := ParseRows(strings.NewReader(csv), "upload.csv", 100)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, "alpha", rows[0].Fields["name"])
	assert.Equal(t, "100", rows[0].Fields["amount_cents"])
	assert.Equal(t, "USD", rows[0].Fields["currency"])

	assert.Equal(t, 1, rows[1].Index)
	assert.Equal(t, "", rows[1].Fields["currency"])
}

func TestParseRowsRaggedRecords(t *testing.T) {
	// Short records fill missing columns with empty strings.
	csv := "name,amount_cents\nalpha\nbeta,200\n"

	rows, err := ParseRows(strings.NewReader(csv), "upload.csv", 100)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[0].Fields["amount_cents"])
	assert.Equal(t, "200", rows[1].Fields["amount_cents"])
}

func TestParseRowsRejections(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		body     string
		maxRows  int
	}{
		{"empty input", "upload.csv", "", 100},
		{"header only", "upload.csv", "name\n", 100},
		{"unsupported extension", "upload.txt", "name\nalpha\n", 100},
		{"row ceiling", "upload.csv", "name\na\nb\nc\n", 2},
		{"broken quoting", "upload.csv", "name\n\"unterminated\n", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRows(
				strings.NewReader(tt.body), tt.fileName, tt.maxRows)
			require.Error(t, err)
			assert.True(t, core.IsAppError(err))
		})
	}
}

func TestPartition(t *testing.T) {
	rows := make([]Row, 5)
	for i := range rows {
		rows[i] = Row{Index: i}
	}

	batches := partition(rows, 2)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1)

	assert.Len(t, partition(nil, 2), 0)
	assert.Len(t, partition(rows, 10), 1)
}

func TestJobStateHelpers(t *testing.T) {
	assert.False(t, IsTerminal(StatusCreated))
	assert.False(t, IsTerminal(StatusRunning))
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCompletedWithErrors))
	assert.True(t, IsTerminal(StatusFailed))
	assert.True(t, IsTerminal(StatusCancelled))

	assert.Equal(t, StatusCompleted, DeriveFinal(0))
	assert.Equal(t, StatusCompletedWithErrors, DeriveFinal(1))
}

package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/payments-view/internal/config"
	"github.com/Sternrassler/payments-view/internal/testutil"
	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args against an isolated home
// directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "payments-view dev\n", stdout)
}

func TestInvalidConfigurationFails(t *testing.T) {
	t.Setenv("PAYMENTS_API_URL", "ftp://example.com")

	_, _, err := execute(t, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.url must be http or https")
}

func TestExportCommand_JSON(t *testing.T) {
	api := testutil.NewMockAPI(testutil.SamplePayments(12))
	defer api.Close()

	t.Setenv("PAYMENTS_API_URL", api.SearchURL())
	t.Setenv("PAYMENTS_EXPORT_PAGE_SIZE", "5")

	stdout, stderr, err := execute(t, "export", "--format", "json", "--output", "-",
		"--search", "", "--currency", "", "--quiet=false")
	require.NoError(t, err)

	var got []payments.Payment
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 12)
	for i, p := range got {
		assert.Equal(t, testutil.SamplePayments(12)[i].ID, p.ID)
	}

	assert.Equal(t, 3, api.GetRequestCount())
	assert.Contains(t, stderr, "Fetching pages")
}

func TestExportCommand_CSVFileWithFilter(t *testing.T) {
	api := testutil.NewMockAPI(testutil.SamplePayments(16))
	defer api.Close()

	t.Setenv("PAYMENTS_API_URL", api.SearchURL())
	out := filepath.Join(t.TempDir(), "usd.csv")

	_, _, err := execute(t, "export", "--format", "csv", "--output", out,
		"--search", "", "--currency", "USD", "--quiet")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "pay_001", records[1][0])
	assert.Equal(t, "pay_009", records[2][0])
	assert.Equal(t, "USD", records[1][5])
}

func TestExportCommand_Errors(t *testing.T) {
	api := testutil.NewMockAPI(testutil.SamplePayments(3))
	defer api.Close()
	t.Setenv("PAYMENTS_API_URL", api.SearchURL())

	_, _, err := execute(t, "export", "--format", "xml", "--output", "-",
		"--search", "", "--currency", "", "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	assert.Zero(t, api.GetRequestCount())

	api.Enqueue(testutil.NewServerErrorResponse())
	_, _, err = execute(t, "export", "--format", "csv", "--output", "-",
		"--search", "", "--currency", "", "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch page 1")
}

func TestWritePayments(t *testing.T) {
	ps := testutil.SamplePayments(2)

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writePayments(&buf, formatCSV, ps))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, strings.Join(csvHeader, ","), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "pay_001,2024-03-01T09:00:00Z,100,Customer 1,"))
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writePayments(&buf, formatJSON, ps))

		var got []payments.Payment
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.True(t, ps[1].Amount.Equal(got[1].Amount))
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writePayments(&buf, formatYAML, ps))

		out := buf.String()
		assert.Equal(t, 2, strings.Count(out, "- id: pay_"))
		assert.Contains(t, out, "status: completed")
		assert.Contains(t, out, "customerName: Customer 2")
	})

	t.Run("empty json is an array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writePayments(&buf, formatJSON, nil))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.Error(t, writePayments(&bytes.Buffer{}, "xml", ps))
	})
}

// closeFailer accepts writes and fails on Close.
type closeFailer struct {
	bytes.Buffer
}

func (c *closeFailer) Close() error { return errors.New("disk full") }

func TestWriteFile(t *testing.T) {
	ps := testutil.SamplePayments(3)

	t.Run("writes the complete file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		require.NoError(t, writeFile(path, formatJSON, ps))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got []payments.Payment
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Len(t, got, 3)
	})

	t.Run("missing directory", func(t *testing.T) {
		err := writeFile(filepath.Join(t.TempDir(), "missing", "out.csv"), formatCSV, ps)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create output file")
	})

	t.Run("close error is returned", func(t *testing.T) {
		orig := createFile
		t.Cleanup(func() { createFile = orig })

		dst := &closeFailer{}
		createFile = func(string) (io.WriteCloser, error) { return dst, nil }

		err := writeFile("out.csv", formatCSV, ps)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "close output file")
		assert.Contains(t, err.Error(), "disk full")
		assert.Contains(t, dst.String(), "pay_003")
	})
}

func TestInitClient(t *testing.T) {
	c := &config.Config{
		API: config.APIConfig{
			URL:         "http://localhost:3000/api/payments/search",
			Timeout:     time.Second,
			UserAgent:   "test-agent",
			MaxAttempts: 2,
		},
		Cache: config.CacheConfig{Enabled: true, TTL: time.Minute},
	}

	apiClient, err := initClient(c, nil)
	require.NoError(t, err)
	require.NotNil(t, apiClient.Cache())
	assert.Equal(t, time.Minute, apiClient.Cache().TTL())

	c.Cache.Enabled = false
	apiClient, err = initClient(c, nil)
	require.NoError(t, err)
	assert.Nil(t, apiClient.Cache())
}

func TestInitRedis_Disabled(t *testing.T) {
	rdb, err := initRedis(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, rdb)
}

package record

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luki/battop/internal/power"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestDiskStoreWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	ds, err := New(dir)
	require.NoError(t, err)
	defer ds.Close()

	now := time.Date(2026, 2, 21, 14, 30, 0, 0, time.Local)
	require.NoError(t, ds.Write(power.Snapshot{Source: "BAT0", State: power.StateCharging, Charge: 0.5, Power: 12, Energy: 30, Voltage: 12.1}, now))
	require.NoError(t, ds.Write(power.Snapshot{Source: "BAT0", State: power.StateDischarging, Charge: 0.49, Power: 8}, now.Add(time.Second)))
	ds.Close()

	rows := readRows(t, filepath.Join(dir, "2026-02-21.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, []string{"2026-02-21T14:30:00", "BAT0", "charging", "0.5000", "12.000", "-12.000", "30.000", "12.100"}, rows[1])
	assert.Equal(t, "8.000", rows[2][5])
}

func TestDiskStoreRotatesDaily(t *testing.T) {
	dir := t.TempDir()
	ds, err := New(dir)
	require.NoError(t, err)
	defer ds.Close()

	day := time.Date(2026, 2, 21, 23, 59, 59, 0, time.Local)
	require.NoError(t, ds.Write(power.Snapshot{Source: "BAT0"}, day))
	require.NoError(t, ds.Write(power.Snapshot{Source: "BAT0"}, day.Add(2*time.Second)))
	ds.Close()

	assert.Len(t, readRows(t, filepath.Join(dir, "2026-02-21.csv")), 2)
	assert.Len(t, readRows(t, filepath.Join(dir, "2026-02-22.csv")), 2)
}

func TestDiskStoreAppendsWithoutSecondHeader(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local)

	for i := 0; i < 2; i++ {
		ds, err := New(dir)
		require.NoError(t, err)
		require.NoError(t, ds.Write(power.Snapshot{Source: "BAT0"}, now))
		ds.Close()
	}

	assert.Len(t, readRows(t, filepath.Join(dir, "2026-03-01.csv")), 3)
}

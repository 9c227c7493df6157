// Package record appends power samples to CSV files with daily rotation.
// The files are an export only; battop never reads them back.
package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/luki/battop/internal/power"
)

const (
	timeLayout = "2006-01-02T15:04:05"
	fileLayout = "2006-01-02"
)

var header = []string{"time", "source", "state", "charge", "power_w", "signed_w", "energy_wh", "voltage_v"}

// DiskStore writes one row per sample into DIR/YYYY-MM-DD.csv:
//
//	time,source,state,charge,power_w,signed_w,energy_wh,voltage_v
type DiskStore struct {
	dir     string
	current *os.File
	writer  *csv.Writer
	curDate string
}

// New creates the store, creating dir if needed.
func New(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "cannot create record dir")
	}
	return &DiskStore{dir: dir}, nil
}

// Dir is the directory the store writes into.
func (d *DiskStore) Dir() string { return d.dir }

// Write appends snap, taken at t, to the file for t's date.
func (d *DiskStore) Write(snap power.Snapshot, t time.Time) error {
	dateStr := t.Format(fileLayout)

	if d.curDate != dateStr || d.current == nil {
		d.Close()
		path := filepath.Join(d.dir, dateStr+".csv")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrapf(err, "cannot open %s", path)
		}
		d.current = f
		d.writer = csv.NewWriter(f)
		d.curDate = dateStr

		info, err := f.Stat()
		if err == nil && info.Size() == 0 {
			if err := d.writer.Write(header); err != nil {
				return err
			}
		}
	}

	if err := d.writer.Write([]string{
		t.Format(timeLayout),
		snap.Source,
		snap.State.String(),
		fmt.Sprintf("%.4f", snap.Charge),
		fmt.Sprintf("%.3f", snap.Power),
		fmt.Sprintf("%.3f", snap.SignedPower()),
		fmt.Sprintf("%.3f", snap.Energy),
		fmt.Sprintf("%.3f", snap.Voltage),
	}); err != nil {
		return err
	}
	d.writer.Flush()
	return d.writer.Error()
}

// Close flushes and closes the current file.
func (d *DiskStore) Close() {
	if d.writer != nil {
		d.writer.Flush()
	}
	if d.current != nil {
		d.current.Close()
		d.current = nil
	}
}

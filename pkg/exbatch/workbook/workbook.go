// Package workbook implements batch.Host on top of an xlsx file.
//
// Every Execute call works against a snapshot: the file is serialized before
// the first command runs and restored if any command or the final commit
// fails, so a batch is applied entirely or not at all.
package workbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tiendc/go-deepcopy"
	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
	"github.com/xuri/excelize/v2"
)

// APISet is the requirement set name the host reports support for.
const APISet = "ExcelApi"

// APIVersion is the highest requirement set version the host implements.
const APIVersion = "1.7"

// DefaultTableStyle is applied to every committed table.
const DefaultTableStyle = "TableStyleMedium2"

// Workbook is an xlsx document acting as a batch host.
type Workbook struct {
	mu     sync.Mutex
	f      *excelize.File
	path   string
	reg    registry
	logger zerolog.Logger
}

// Option configures a Workbook.
type Option func(*Workbook)

// WithLogger sets the logger used for commit diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Workbook) { w.logger = l }
}

// New returns an empty in-memory workbook with a single sheet.
func New(opts ...Option) *Workbook {
	w := &Workbook{f: excelize.NewFile(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open opens the workbook at path.
func Open(path string, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	w, err := wrap(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.path = path
	return w, nil
}

// OpenOrCreate opens path, or starts a new workbook that Save writes to path.
func OpenOrCreate(path string, opts ...Option) (*Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		w := New(opts...)
		w.path = path
		return w, nil
	}
	return Open(path, opts...)
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	w, err := wrap(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func wrap(f *excelize.File, opts []Option) (*Workbook, error) {
	w := &Workbook{f: f, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	reg, err := loadRegistry(f)
	if err != nil {
		return nil, err
	}
	w.reg = reg
	return w, nil
}

// loadRegistry rebuilds table state from the table parts of f and the saved
// values filters.
func loadRegistry(f *excelize.File) (registry, error) {
	var reg registry
	for _, sheet := range f.GetSheetList() {
		tables, err := f.GetTables(sheet)
		if err != nil {
			return reg, fmt.Errorf("read tables of %s: %w", sheet, err)
		}
		for _, t := range tables {
			a, err := parseArea(sheet, t.Range)
			if err != nil {
				return reg, fmt.Errorf("table %s: %w", t.Name, err)
			}
			reg.Tables = append(reg.Tables, &tableState{
				Name:   t.Name,
				Sheet:  sheet,
				X1:     a.X1,
				Y1:     a.Y1,
				X2:     a.X2,
				Y2:     a.Y2,
				Stored: t.Name,
			})
		}
	}
	if err := loadFilters(f, &reg); err != nil {
		return reg, fmt.Errorf("read filters: %w", err)
	}
	return reg, nil
}

// Path returns the file path Save writes to.
func (w *Workbook) Path() string {
	return w.path
}

// File exposes the underlying excelize file for read-back. It must not be
// used concurrently with Execute.
func (w *Workbook) File() *excelize.File {
	return w.f
}

// Save writes the workbook to the path it was opened from.
func (w *Workbook) Save() error {
	if w.path == "" {
		return errors.New("workbook has no path")
	}
	return w.SaveAs(w.path)
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.f.SaveAs(path); err != nil {
		return err
	}
	w.path = path
	return nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// TableNames lists the tables known to the host in creation order.
func (w *Workbook) TableNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.reg.Tables))
	for _, t := range w.reg.Tables {
		names = append(names, t.Name)
	}
	return names
}

// Supports reports support for APISet up to APIVersion.
func (w *Workbook) Supports(set, version string) bool {
	if set != APISet {
		return false
	}
	want, ok := parseVersion(version)
	if !ok {
		return false
	}
	have, _ := parseVersion(APIVersion)
	return want[0] < have[0] || (want[0] == have[0] && want[1] <= have[1])
}

// parseVersion splits "major.minor"; "1.10" is newer than "1.9".
func parseVersion(v string) ([2]int, bool) {
	major, minor, found := strings.Cut(strings.TrimSpace(v), ".")
	if !found {
		minor = "0"
	}
	ma, err := strconv.Atoi(major)
	if err != nil {
		return [2]int{}, false
	}
	mi, err := strconv.Atoi(minor)
	if err != nil {
		return [2]int{}, false
	}
	return [2]int{ma, mi}, true
}

// Execute applies cmds in order. On the first failure the workbook is
// restored and a *batch.SyncError locating the failing command is returned.
func (w *Workbook) Execute(ctx context.Context, cmds []batch.Command) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snap, err := w.snapshot()
	if err != nil {
		return batch.Wrap(fmt.Errorf("snapshot workbook: %w", err))
	}

	x := newExecution(w)
	for i, cmd := range cmds {
		if err := x.apply(cmd); err != nil {
			w.restore(snap)
			return batch.Wrap(err).Locate(i, cmd)
		}
	}
	if err := x.commit(); err != nil {
		w.restore(snap)
		return batch.Wrap(err)
	}
	w.logger.Debug().Int("commands", len(cmds)).Msg("batch applied")
	return nil
}

type snapshot struct {
	data []byte
	reg  registry
}

func (w *Workbook) snapshot() (*snapshot, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	s := &snapshot{data: bytes.Clone(buf.Bytes())}
	if err := deepcopy.Copy(&s.reg, &w.reg); err != nil {
		return nil, fmt.Errorf("copy registry: %w", err)
	}
	return s, nil
}

func (w *Workbook) restore(s *snapshot) {
	f, err := excelize.OpenReader(bytes.NewReader(s.data))
	if err != nil {
		w.logger.Error().Err(err).Msg("restore workbook snapshot")
		return
	}
	old := w.f
	w.f = f
	w.reg = s.reg
	if err := old.Close(); err != nil {
		w.logger.Warn().Err(err).Msg("close discarded workbook")
	}
}

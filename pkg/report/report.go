// Package report collects per-test steps, statuses and screenshots for a run
// and writes them to report.json in the run's report directory.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pomkit/pomkit/pkg/config"
)

// Status of a step or a test.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
	StatusInfo Status = "info"
)

// FileName is the report document written by Flush.
const FileName = "report.json"

// ErrNoActiveTest is returned by Reporter.LogInfo before any test was created.
var ErrNoActiveTest = errors.New("no active test")

// Step is a single logged event within a test.
type Step struct {
	Time       time.Time `json:"time"`
	Status     Status    `json:"status"`
	Message    string    `json:"message"`
	Screenshot string    `json:"screenshot,omitempty"`
}

// Test is one test case in the report. It is safe for concurrent use.
type Test struct {
	reporter *Reporter

	mu      sync.Mutex
	id      string
	name    string
	started time.Time
	ended   time.Time
	steps   []Step
}

// Reporter is the report for one run.
type Reporter struct {
	dir   string
	runID string
	now   func() time.Time

	mu      sync.Mutex
	info    map[string]string
	tests   []*Test
	current *Test
}

// New creates the report directory and an empty report.
func New(dir string, info map[string]string) (*Reporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	copied := make(map[string]string, len(info))
	for k, v := range info {
		copied[k] = v
	}

	return &Reporter{
		dir:   dir,
		runID: uuid.New().String(),
		now:   time.Now,
		info:  copied,
	}, nil
}

// FromConfig creates a report in the configured run directory with the
// standard system info.
func FromConfig(src config.Source) (*Reporter, error) {
	return New(src.ReportDir(), map[string]string{
		"Author":      src.Get(config.KeyName),
		"Framework":   "Playwright Go",
		"Environment": "QA",
		"Browser":     src.Get(config.KeyBrowser),
	})
}

// Dir returns the report directory.
func (r *Reporter) Dir() string {
	return r.dir
}

// RunID identifies this run.
func (r *Reporter) RunID() string {
	return r.runID
}

// SetSystemInfo adds or replaces a system info entry.
func (r *Reporter) SetSystemInfo(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.info[key] = value
}

// CreateTest adds a test to the report and makes it the current test.
func (r *Reporter) CreateTest(name string) *Test {
	t := &Test{
		reporter: r,
		id:       uuid.New().String(),
		name:     name,
		started:  r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tests = append(r.tests, t)
	r.current = t
	return t
}

// Current returns the most recently created test, or nil.
func (r *Reporter) Current() *Test {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Tests returns the tests created so far.
func (r *Reporter) Tests() []*Test {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Test(nil), r.tests...)
}

// LogInfo records an info step on the current test. Run-level events arrive
// here; before the first test there is nowhere to put them. Events that belong
// to one test should go to that Test directly.
func (r *Reporter) LogInfo(message string) error {
	t := r.Current()
	if t == nil {
		return ErrNoActiveTest
	}
	t.Info(message)
	return nil
}

// RelativePath returns path relative to the report directory so the report
// stays valid when the folder is moved. Paths that cannot be made relative
// are returned unchanged.
func (r *Reporter) RelativePath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	base, err := filepath.Abs(r.dir)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Summary counts tests by status.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Summary returns the current counts.
func (r *Reporter) Summary() Summary {
	var s Summary
	for _, t := range r.Tests() {
		s.Total++
		switch t.Status() {
		case StatusFail:
			s.Failed++
		case StatusSkip:
			s.Skipped++
		default:
			s.Passed++
		}
	}
	return s
}

type testDocument struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Status  Status    `json:"status"`
	Started time.Time `json:"started"`
	Ended   time.Time `json:"ended,omitempty"`
	Steps   []Step    `json:"steps"`
}

type document struct {
	RunID      string            `json:"run_id"`
	Generated  time.Time         `json:"generated"`
	SystemInfo map[string]string `json:"system_info"`
	Summary    Summary           `json:"summary"`
	Tests      []testDocument    `json:"tests"`
}

// Flush writes report.json. It may be called repeatedly; each call rewrites
// the whole document.
func (r *Reporter) Flush() error {
	tests := r.Tests()

	doc := document{
		RunID:     r.runID,
		Generated: r.now(),
		Summary:   r.Summary(),
		Tests:     make([]testDocument, 0, len(tests)),
	}

	r.mu.Lock()
	doc.SystemInfo = make(map[string]string, len(r.info))
	for k, v := range r.info {
		doc.SystemInfo[k] = v
	}
	r.mu.Unlock()

	for _, t := range tests {
		doc.Tests = append(doc.Tests, t.document())
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(r.dir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Name returns the test name.
func (t *Test) Name() string {
	return t.name
}

// StepPass records a passed step with an optional screenshot.
func (t *Test) StepPass(message, screenshotPath string) {
	t.add(StatusPass, message, screenshotPath)
}

// StepFail records a failed step with an optional screenshot.
func (t *Test) StepFail(message, screenshotPath string) {
	t.add(StatusFail, message, screenshotPath)
}

// Pass marks the test as passed and ends it.
func (t *Test) Pass(message string) {
	t.add(StatusPass, message, "")
	t.end()
}

// Fail marks the test as failed with an optional screenshot and ends it.
func (t *Test) Fail(message, screenshotPath string) {
	t.add(StatusFail, message, screenshotPath)
	t.end()
}

// Skip marks the test as skipped and ends it.
func (t *Test) Skip(message string) {
	t.add(StatusSkip, message, "")
	t.end()
}

// Info records an informational step.
func (t *Test) Info(message string) {
	t.add(StatusInfo, message, "")
}

// LogInfo records an info step. It lets a test receive the lifecycle events
// of its own browser context.
func (t *Test) LogInfo(message string) error {
	t.Info(message)
	return nil
}

// Steps returns a copy of the recorded steps.
func (t *Test) Steps() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Step(nil), t.steps...)
}

// Status derives the test status: any failed step fails the test, otherwise a
// skip marks it skipped, otherwise it passed.
func (t *Test) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

func (t *Test) statusLocked() Status {
	status := StatusPass
	for _, s := range t.steps {
		switch s.Status {
		case StatusFail:
			return StatusFail
		case StatusSkip:
			status = StatusSkip
		}
	}
	return status
}

func (t *Test) add(status Status, message, screenshotPath string) {
	step := Step{
		Time:       t.reporter.now(),
		Status:     status,
		Message:    message,
		Screenshot: t.reporter.RelativePath(screenshotPath),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, step)
}

func (t *Test) end() {
	now := t.reporter.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ended = now
}

func (t *Test) document() testDocument {
	t.mu.Lock()
	defer t.mu.Unlock()
	return testDocument{
		ID:      t.id,
		Name:    t.name,
		Status:  t.statusLocked(),
		Started: t.started,
		Ended:   t.ended,
		Steps:   append([]Step(nil), t.steps...),
	}
}

package machan

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"
)

type recorder struct {
	out     []string
	reports []error
	lines   []string
	files   map[string]string
	slept   []time.Duration
	now     time.Time
}

func record() *recorder {
	return &recorder{
		files: make(map[string]string),
		now:   time.Date(2026, time.October, 19, 15, 4, 5, 0, time.UTC),
	}
}

func (r *recorder) Print(str string) {
	r.out = append(r.out, str)
}

func (r *recorder) Report(err error) {
	r.reports = append(r.reports, err)
}

func (r *recorder) ReadLine(_ string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *recorder) ReadFile(path string) (string, error) {
	str, ok := r.files[path]
	if !ok {
		return "", &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return str, nil
}

func (r *recorder) WriteFile(path, contents string) error {
	r.files[path] = contents
	return nil
}

func (r *recorder) Sleep(d time.Duration) {
	r.slept = append(r.slept, d)
}

func (r *recorder) Now() time.Time {
	return r.now
}

func (r *recorder) reported(err error) bool {
	for _, e := range r.reports {
		if errors.Is(e, err) {
			return true
		}
	}
	return false
}

func execute(t *testing.T, src string) (Value, *recorder, *Interpreter) {
	t.Helper()
	var (
		rec = record()
		in  = New(rec)
	)
	v, err := in.Run(src)
	if err != nil {
		t.Fatalf("unexpected error running %q: %s", src, err)
	}
	return v, rec, in
}

func lookup(t *testing.T, in *Interpreter, name string) Value {
	t.Helper()
	v, err := in.Globals().Lookup(name)
	if err != nil {
		t.Fatalf("%s: %s", name, err)
	}
	return v
}

package host

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

const prefix = "Machane pani kitti"

type System struct {
	Out   io.Writer
	Err   io.Writer
	Lines LineReader
}

func Default() *System {
	return &System{
		Out:   os.Stdout,
		Err:   os.Stderr,
		Lines: Stdin(os.Stdin, os.Stdout),
	}
}

func (s *System) Print(str string) {
	fmt.Fprintln(s.Out, str)
}

func (s *System) Report(err error) {
	fmt.Fprintln(s.Err, color.RedString(prefix), color.YellowString(err.Error()))
}

func (s *System) ReadLine(prompt string) (string, error) {
	if s.Lines == nil {
		return "", io.EOF
	}
	return s.Lines.Prompt(prompt)
}

func (s *System) ReadFile(path string) (string, error) {
	buf, err := os.ReadFile(path)
	return string(buf), err
}

func (s *System) WriteFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}

func (s *System) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (s *System) Now() time.Time {
	return time.Now()
}

type stdin struct {
	scan *bufio.Reader
	out  io.Writer
}

// Stdin gives a LineReader printing its prompt to w and reading lines from r.
func Stdin(r io.Reader, w io.Writer) LineReader {
	return &stdin{
		scan: bufio.NewReader(r),
		out:  w,
	}
}

func (s *stdin) Prompt(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(s.out, prompt)
	}
	line, err := s.scan.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

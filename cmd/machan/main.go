package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/midbel/machan"
	"github.com/midbel/machan/config"
	"github.com/midbel/machan/host"
)

var ErrHeader = errors.New("missing header")

const help = `usage: machan [-c config] [-t] [-p] [-e source] [file]

without file nor -e, machan starts an interactive session.

options:
  -c config  load settings from the given yaml file (default $MACHAN_CONFIG)
  -t         print the tokens of the source
  -p         print the parsed source
  -e source  run source instead of a file
  -h         print this help
`

type mode int

const (
	modeRun mode = iota
	modeScan
	modePrint
)

func main() {
	opts, optind, err := getopt.Getopts(os.Args, "c:tpe:h")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, help)
		os.Exit(2)
	}
	var (
		file    string
		snippet string
		inline  bool
		what    = modeRun
	)
	for _, o := range opts {
		switch o.Option {
		case 'c':
			file = o.Value
		case 't':
			what = modeScan
		case 'p':
			what = modePrint
		case 'e':
			snippet, inline = o.Value, true
		default: // case 'h':
			fmt.Fprint(os.Stderr, help)
			os.Exit(2)
		}
	}
	cfg, err := config.Find(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !cfg.Color {
		color.NoColor = true
	}

	args := os.Args[optind:]
	if !inline && len(args) == 0 {
		if err := repl(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	src := snippet
	if !inline {
		if src, err = readScript(args[0], cfg.Header); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	switch what {
	case modeScan:
		err = scanSource(src)
	case modePrint:
		err = printSource(src)
	default:
		err = runSource(src, cfg)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
		os.Exit(1)
	}
}

// readScript checks that the first line of file is the header and blanks
// it, keeping the positions of the remaining lines.
func readScript(file, header string) (string, error) {
	r, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer r.Close()

	rs := bufio.NewReader(r)
	first, err := rs.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if strings.TrimSpace(first) != header {
		return "", fmt.Errorf("%s: first line must be %q: %w", file, header, ErrHeader)
	}
	rest, err := io.ReadAll(rs)
	if err != nil {
		return "", err
	}
	return "\n" + string(rest), nil
}

func scanSource(src string) error {
	scan := machan.Scan(strings.NewReader(src))
	for {
		tok := scan.Scan()
		if tok.Type == machan.EOF {
			break
		}
		fmt.Printf("%s: %s\n", tok.Position, tok)
	}
	return nil
}

func printSource(src string) error {
	prog, err := machan.ParseString(src)
	if err != nil {
		return err
	}
	fmt.Println(machan.Format(prog))
	return nil
}

func runSource(src string, cfg *config.Config) error {
	in := machan.New(host.Default(), machan.WithMaxDepth(cfg.MaxDepth))
	stop := interruptOn(in)
	defer stop()

	_, err := in.Run(src)
	return err
}

// interruptOn forwards SIGINT to in until the returned func is called.
func interruptOn(in *machan.Interpreter) func() {
	var (
		sig  = make(chan os.Signal, 1)
		done = make(chan struct{})
	)
	signal.Notify(sig, os.Interrupt)
	go func() {
		for {
			select {
			case <-sig:
				in.Interrupt()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sig)
		close(done)
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/midbel/machan"
	"github.com/midbel/machan/config"
	"github.com/midbel/machan/history"
	"github.com/midbel/machan/host"
	"github.com/peterh/liner"
)

const (
	banner       = "MachanScript: enter an empty line to run, exit to quit"
	continuation = "... "
)

func repl(cfg *config.Config) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var store *history.Store
	if cfg.History != "" {
		s, err := history.Open(cfg.History, cfg.HistorySize)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.YellowString(err.Error()))
		} else {
			store = s
			defer store.Close()
			lines, _ := store.Load()
			for _, str := range lines {
				ln.AppendHistory(str)
			}
		}
	}

	sys := host.System{
		Out:   os.Stdout,
		Err:   os.Stderr,
		Lines: ln,
	}
	in := machan.New(&sys, machan.WithMaxDepth(cfg.MaxDepth))

	fmt.Println(banner)
	for {
		src, err := readBuffer(ln, cfg.Prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		src = strings.TrimSpace(src)
		switch src {
		case "":
			continue
		case "exit":
			return nil
		}
		line := strings.ReplaceAll(src, "\n", " ")
		ln.AppendHistory(line)
		if store != nil {
			if err := store.Append(line); err != nil {
				fmt.Fprintln(os.Stderr, color.YellowString(err.Error()))
			}
		}
		v, err := evalBuffer(in, src)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
			continue
		}
		if v != nil && v != machan.Null {
			fmt.Println(v)
		}
	}
}

// readBuffer accumulates lines until an empty one. A lone exit is given back
// at once. Ctrl-C discards what was typed so far.
func readBuffer(ln *liner.State, prompt string) (string, error) {
	var buf strings.Builder
	for {
		curr := prompt
		if buf.Len() > 0 {
			curr = continuation
		}
		line, err := ln.Prompt(curr)
		if errors.Is(err, liner.ErrPromptAborted) {
			buf.Reset()
			fmt.Println()
			continue
		}
		if err != nil {
			if buf.Len() > 0 && errors.Is(err, io.EOF) {
				return buf.String(), nil
			}
			return "", err
		}
		if strings.TrimSpace(line) == "" {
			return buf.String(), nil
		}
		if buf.Len() == 0 && strings.TrimSpace(line) == "exit" {
			return line, nil
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

func evalBuffer(in *machan.Interpreter, src string) (machan.Value, error) {
	stop := interruptOn(in)
	defer stop()
	return in.Run(src)
}

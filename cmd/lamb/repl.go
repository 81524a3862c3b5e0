package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/vic/lamb/pkg/interpreter"
	"github.com/vic/lamb/pkg/trace"
)

const (
	historyFile = ".lamb_history"
	prompt      = "λ> "
)

var banner = fmt.Sprintf("lamb %s\nType help for commands. Ctrl+C cancels input, Ctrl+D exits.", interpreter.Version)

func repl(ip *interpreter.Interpreter, color bool) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		return complete(ip, line)
	})

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	// The terminal echoes entries as they are logged.
	ip.Log().Subscribe(func(e trace.Entry) {
		if e.Kind == trace.KindInputEcho {
			return
		}
		s := e.Format()
		switch e.Kind {
		case trace.KindError:
			s = paint(color, red, s)
		case trace.KindFinalResult:
			s = paint(color, blue, s)
		}
		fmt.Println(s)
	})

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, paint(color, red, err.Error()))
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		for _, r := range ip.Exec(line) {
			if p := partialTerm(r.Err); p != nil {
				fmt.Println(paint(color, red, "partial: "+p.String()))
			}
		}
	}
}

// complete offers bound names and commands for the word under the cursor.
func complete(ip *interpreter.Interpreter, line string) []string {
	i := strings.LastIndexAny(line, " \t(.λ\\") + 1
	prefix, word := line[:i], line[i:]
	if word == "" {
		return nil
	}
	var out []string
	for _, name := range append([]string{"env", "help", "unbind"}, ip.Bindings()...) {
		if strings.HasPrefix(name, word) {
			out = append(out, prefix+name)
		}
	}
	return out
}

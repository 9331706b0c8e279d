package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/mas6y6/REDLINE/internal/codegen/cpp"
	"github.com/mas6y6/REDLINE/internal/compiler"
	"github.com/mas6y6/REDLINE/internal/config"
)

const (
	REPL_ENTRY   = "repl.rl"
	HISTORY_FILE = ".redline_history"

	PROMPT_MAIN = "rl> "
	PROMPT_CONT = "... "
)

var REPL_HELP = `Each entry is checked together with the previous ones and the C++ it
adds to the entry function is printed. Imports resolve from the current
directory. A line ending in ':' opens a block; an empty line closes it.

  :cpp     print the whole generated unit
  :reset   forget every entry
  :quit    leave
`

// replFS serves the session source as the entry module on top of the
// directory imports are read from.
type replFS struct {
	fs.FS
	src []byte
}

func (r replFS) Open(name string) (fs.File, error) {
	if name == REPL_ENTRY {
		return &entryFile{Reader: bytes.NewReader(r.src), size: int64(len(r.src))}, nil
	}
	return r.FS.Open(name)
}

// entryFile is the in-memory session source.
type entryFile struct {
	*bytes.Reader
	size int64
}

func (f *entryFile) Stat() (fs.FileInfo, error) { return entryInfo(f.size), nil }
func (f *entryFile) Close() error               { return nil }

type entryInfo int64

func (i entryInfo) Name() string       { return REPL_ENTRY }
func (i entryInfo) Size() int64        { return int64(i) }
func (i entryInfo) Mode() fs.FileMode  { return 0444 }
func (i entryInfo) ModTime() time.Time { return time.Time{} }
func (i entryInfo) IsDir() bool        { return false }
func (i entryInfo) Sys() any           { return nil }

// session holds the entries accepted so far. An entry that fails to compile
// leaves the session unchanged.
type session struct {
	base fs.FS
	opts compiler.Options

	src   []byte
	shown int
	unit  *cpp.Unit
}

func newSession(base fs.FS, opts compiler.Options) *session {
	return &session{base: base, opts: opts}
}

// eval compiles the session extended with code and returns the statements
// it added to the entry function.
func (s *session) eval(code string) (string, error) {
	src := s.extend(code)
	units, err := compiler.CompileFS(s.fsys(src), REPL_ENTRY, s.opts)
	if err != nil {
		return "", err
	}
	unit := units[len(units)-1]
	body := entryBody(unit.Content)

	added := body[min(s.shown, len(body)):]
	s.src, s.shown, s.unit = src, len(body), unit
	return strings.Join(added, "\n"), nil
}

func (s *session) extend(code string) []byte {
	src := make([]byte, 0, len(s.src)+len(code)+1)
	src = append(src, s.src...)
	src = append(src, code...)
	return append(src, '\n')
}

func (s *session) fsys(src []byte) fs.FS { return replFS{FS: s.base, src: src} }

func (s *session) reset() {
	s.src, s.shown, s.unit = nil, 0, nil
}

// entryBody returns the statements of the generated entry function, one
// indentation level removed.
func entryBody(unit []byte) []string {
	header := "void " + cpp.ENTRY_FN + "(rl::Context& rl_ctx) {"
	var body []string
	inside := false
	for _, line := range strings.Split(string(unit), "\n") {
		switch {
		case line == header:
			inside = true
		case !inside:
		case line == "}":
			return body
		case strings.TrimSpace(line) == "(void)rl_ctx;":
		default:
			body = append(body, strings.TrimPrefix(line, "    "))
		}
	}
	return body
}

// needsMore reports whether the entry read so far is an open block.
func needsMore(entry []string) bool {
	if len(entry) == 0 {
		return false
	}
	first := strings.TrimSpace(entry[0])
	if !strings.HasSuffix(first, ":") {
		return false
	}
	return strings.TrimSpace(entry[len(entry)-1]) != ""
}

func readEntry(ln *liner.State) (string, bool) {
	var entry []string
	for {
		prompt := PROMPT_MAIN
		if len(entry) > 0 {
			prompt = PROMPT_CONT
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		entry = append(entry, line)
		if !needsMore(entry) {
			return strings.TrimRight(strings.Join(entry, "\n"), "\n"), true
		}
	}
}

func repl(envs *config.Envs) int {
	fmt.Println("REDLINE interactive session, :help for commands")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, HISTORY_FILE)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

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

	opts := compiler.Options{BuildType: config.DEBUG}
	if envs.RUNTIME != "" {
		if runtime, err := os.ReadFile(envs.RUNTIME); err == nil {
			opts.Runtime = runtime
		}
	}
	s := newSession(os.DirFS("."), opts)

	for {
		code, ok := readEntry(ln)
		if !ok {
			fmt.Println()
			return 0
		}

		switch strings.TrimSpace(code) {
		case "":
			continue
		case ":quit":
			return 0
		case ":help":
			fmt.Print(REPL_HELP)
			continue
		case ":reset":
			s.reset()
			continue
		case ":cpp":
			if s.unit != nil {
				fmt.Print(string(s.unit.Content))
			}
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			fmt.Println("unknown command, :help lists them")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		added, err := s.eval(code)
		if err != nil {
			compiler.Report(os.Stderr, s.fsys(s.extend(code)), err)
			continue
		}
		if added != "" {
			fmt.Println(added)
		}
	}
}

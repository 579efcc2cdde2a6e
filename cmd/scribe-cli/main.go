/*
Package main implements scribe-cli, an interactive shell for exercising the
Dictionary's encode/decode/filter operations without a running server.

It talks only to a standalone, in-process Dictionary: there is no Log Store
behind it, so nothing typed here is persisted. It exists purely for local
debugging of tokenization and prefix/word filtering, the way the teacher
ships an interactive CLI mode alongside its server.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/scribehq/scribe/internal/logger"
	"github.com/scribehq/scribe/pkg/dictionary"
	"github.com/scribehq/scribe/pkg/wordid"
)

// prefs is scribe-cli's own local preferences file, independent of the
// server's YAML config.
type prefs struct {
	HistorySize int  `toml:"history_size"`
	Verbose     bool `toml:"verbose"`
}

func defaultPrefs() *prefs {
	return &prefs{HistorySize: 100, Verbose: false}
}

func loadPrefs(path string) *prefs {
	p := defaultPrefs()
	if path == "" {
		return p
	}
	if _, err := toml.DecodeFile(path, p); err != nil {
		log.Warnf("failed to load cli prefs, using defaults: %v", err)
		return defaultPrefs()
	}
	return p
}

func main() {
	prefsPath := flag.String("prefs", "", "path to a TOML preferences file")
	debug := flag.Bool("v", false, "toggle verbose mode")
	flag.Parse()

	p := loadPrefs(*prefsPath)
	level := log.WarnLevel
	if *debug || p.Verbose {
		level = log.DebugLevel
	}
	l := logger.NewWithConfig("cli", level, false, false, log.TextFormatter)

	dict := dictionary.New()
	shell := newShell(dict, l)

	l.Print("scribe-cli [debug]")
	l.Print("commands: enc <text> | dec <id...> | prefix <p> | words <w...> | quit")
	if err := shell.start(); err != nil {
		fmt.Fprintln(os.Stderr, "exiting:", err)
		os.Exit(1)
	}
}

// shell reads commands from stdin and runs them against an in-process
// Dictionary, printing results through its own logger. Logs encoded
// via "enc" are kept in memory so "prefix"/"words" have something to
// filter, standing in for the Log Store this shell never talks to.
type shell struct {
	dict  *dictionary.Dictionary
	log   *log.Logger
	logs  []wordid.EncodedLog
	count int
}

func newShell(dict *dictionary.Dictionary, l *log.Logger) *shell {
	return &shell{dict: dict, log: l}
}

func (s *shell) start() error {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.count++
		s.handle(line)
	}
}

func (s *shell) handle(line string) {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "quit", "exit":
		os.Exit(0)
	case "enc":
		text := strings.Join(args, " ")
		ids := s.dict.Encode(text)
		s.logs = append(s.logs, ids)
		s.log.Printf("ids: %v", ids)
	case "dec":
		ids := make(wordid.EncodedLog, 0, len(args))
		for _, a := range args {
			n, err := strconv.ParseUint(a, 10, 32)
			if err != nil {
				s.log.Errorf("not a valid id: %s", a)
				return
			}
			ids = append(ids, wordid.ID(n))
		}
		s.log.Printf("text: %s", s.dict.Decode(ids))
	case "prefix":
		if len(args) != 1 {
			s.log.Error("usage: prefix <p>")
			return
		}
		matches := s.dict.FilterByPrefix(args[0], s.logs)
		for _, ids := range matches {
			s.log.Printf("match: %s", s.dict.Decode(ids))
		}
	case "words":
		matches := s.dict.FilterByWords(args, s.logs)
		for _, ids := range matches {
			s.log.Printf("match: %s", s.dict.Decode(ids))
		}
	default:
		s.log.Errorf("unknown command: %s", cmd)
	}
}

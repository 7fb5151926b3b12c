package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/jusunglee/josa"
	"github.com/jusunglee/josa/hangul"
	"github.com/jusunglee/josa/internal/logger"
	"github.com/jusunglee/josa/internal/tui"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/samber/lo"
)

func main() {
	_ = godotenv.Load()

	if err := mainE(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

type options struct {
	category    josa.Category
	strict      bool
	all         bool
	romanize    bool
	interactive bool
	normalize   bool
}

func mainE(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := ff.NewFlagSet("josa")

	var (
		category    = fs.String('c', "category", "i-ga", "josa category: eun-neun, i-ga, eul-reul, gwa-wa, i, eu (or 은/는, 이/가, ...)")
		strict      = fs.BoolLong("strict", "print only the particle and fail on nouns that cannot be classified")
		all         = fs.BoolLong("all", "print the noun with every category")
		romanize    = fs.BoolLong("romanize", "append the romanized noun")
		interactive = fs.Bool('i', "interactive", "open the live preview")
		normalize   = fs.BoolLong("normalize", "NFC-compose each noun before reading its last character")
		logLevel    = fs.StringLong("log-level", "info", "log level: debug, info, warn, error")
		logFormat   = fs.StringEnumLong("log-format", "log output format", "pretty", "json")
		_           = fs.StringLong("config", "", "config file (optional)")
	)

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("JOSA"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		if errors.Is(err, ff.ErrHelp) {
			return err
		}
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.New(logger.Options{Format: *logFormat, Level: *logLevel, Writer: stderr})
	slog.SetDefault(log)

	c, err := josa.ParseCategory(*category)
	if err != nil {
		return fmt.Errorf("parsing --category: %w", err)
	}

	opts := options{
		category:    c,
		strict:      *strict,
		all:         *all,
		romanize:    *romanize,
		interactive: *interactive,
		normalize:   *normalize,
	}
	sel := josa.NewSelector(josa.WithNormalization(opts.normalize))

	if opts.interactive {
		kept, err := tui.Run(sel)
		if err != nil {
			return err
		}
		for _, s := range kept {
			fmt.Fprintln(stdout, s)
		}
		return nil
	}

	nouns := fs.GetArgs()
	if len(nouns) == 0 {
		if nouns, err = readNouns(stdin); err != nil {
			return err
		}
	}
	log.Debug("selecting", "category", opts.category, "nouns", len(nouns), "strict", opts.strict)

	lines, err := render(sel, nouns, opts)
	for _, line := range lines {
		fmt.Fprintln(stdout, line)
	}
	return err
}

// readNouns returns the non-blank lines of r.
func readNouns(r io.Reader) ([]string, error) {
	var nouns []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		nouns = append(nouns, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading nouns: %w", err)
	}
	return nouns, nil
}

// render formats one line per noun. In strict mode it stops at the first
// noun that cannot be classified and returns the lines before it.
func render(sel *josa.Selector, nouns []string, opts options) ([]string, error) {
	if !opts.strict {
		return lo.Map(nouns, func(noun string, _ int) string {
			return lenientLine(sel, noun, opts)
		}), nil
	}

	lines := make([]string, 0, len(nouns))
	for _, noun := range nouns {
		line, err := strictLine(sel, noun, opts)
		if err != nil {
			return lines, fmt.Errorf("selecting %s for %q: %w", opts.category.Label(), noun, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func lenientLine(sel *josa.Selector, noun string, opts options) string {
	var line string
	if opts.all {
		line = strings.Join(lo.Map(josa.Categories(), func(c josa.Category, _ int) string {
			return sel.Concat(noun, c)
		}), " ")
	} else {
		line = sel.Concat(noun, opts.category)
	}
	return withReading(line, noun, opts)
}

func strictLine(sel *josa.Selector, noun string, opts options) (string, error) {
	categories := []josa.Category{opts.category}
	if opts.all {
		categories = josa.Categories()
	}
	forms := make([]string, 0, len(categories))
	for _, c := range categories {
		form, err := sel.Select(noun, c)
		if err != nil {
			return "", err
		}
		forms = append(forms, form)
	}
	// Eu and I may legitimately select the empty form.
	return withReading(strings.Join(forms, "\t"), noun, opts), nil
}

func withReading(line, noun string, opts options) string {
	if opts.romanize && hangul.HasSyllable(noun) {
		return line + "\t" + hangul.Romanize(noun)
	}
	return line
}

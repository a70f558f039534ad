package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"examsolver/internal/browser"
	"examsolver/internal/config"
	"examsolver/internal/constants"
	"examsolver/internal/fetch"
	"examsolver/internal/normalize"
	"examsolver/internal/report"
	"examsolver/internal/resolve"
	"examsolver/internal/runner"
	"examsolver/internal/store"
	"examsolver/internal/utils"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiGray   = "\x1b[90m"
)

var useANSI = detectANSI()

func main() {
	defer func() {
		if r := recover(); r != nil {
			printErrorf("Unexpected error: %v\n", r)
			pauseBeforeExit(context.Background(), "Press Enter to close...")
			os.Exit(1)
		}
	}()

	err := run()
	if errors.Is(err, context.Canceled) {
		fmt.Println()
		printWarnf("Interrupted.\n")
		return
	}
	if err != nil {
		printErrorf("Error: %v\n", err)
		pauseBeforeExit(context.Background(), "Press Enter to close...")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], os.LookupEnv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	fetch.SetDebug(cfg.Debug)
	browser.SetDebug(cfg.Debug)
	runner.SetDebug(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	printBanner()

	normalizer, err := normalize.ByName(cfg.Normalizer)
	if err != nil {
		return err
	}

	answers, err := store.Open(ctx, cfg.DatabasePath, cfg.AnswerTable)
	if err != nil {
		return fmt.Errorf("failed opening answer key %s: %w", cfg.DatabasePath, err)
	}
	defer answers.Close()

	kind := cfg.Browser
	if kind == "" {
		kind, err = promptBrowser(ctx, bufio.NewReader(os.Stdin))
		if err != nil {
			return fmt.Errorf("failed reading browser selection: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	printSection("Selected Browser: " + kind.Label())

	b, err := browser.Open(ctx, kind, browser.Options{Headless: cfg.Headless})
	if errors.Is(err, browser.ErrDriverUnavailable) {
		printErrorf("Driver for %s is not found on your PC.\n", kind.Label())
		return err
	}
	if err != nil {
		return err
	}
	defer b.Close()

	printInfof("Solving questions from %s...\n", cfg.URL)
	startTime := utils.StartTime()

	r := runner.New(b, resolve.New(normalizer, answers), runner.Options{
		URL:      cfg.URL,
		Progress: os.Stdout,
	})
	summary, err := r.Run(ctx)
	if err != nil {
		return err
	}
	summary.Browser = kind.Label()

	for _, result := range summary.Results {
		if len(result.Marked) == 0 {
			printWarnf("Question %d: no answer found for %q\n", result.Ordinal, result.Question)
		}
	}
	printSuccessf("Marked answers for %d of %d question(s) in %s.\n", summary.Answered, len(summary.Results), utils.TimeSince(startTime))

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, summary); err != nil {
			return fmt.Errorf("failed writing report: %w", err)
		}
		printSuccessf("Report saved: %s\n", cfg.ReportPath)
	}

	if kind != browser.KindStatic {
		pauseBeforeExit(ctx, "Press Enter to close the browser...")
	}
	return ctx.Err()
}

func promptBrowser(ctx context.Context, reader *bufio.Reader) (browser.Kind, error) {
	kinds := browser.Kinds()
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.Label()
	}

	choice, err := promptSelection(ctx, reader, "Select Your Preferred Browser", labels)
	if err != nil {
		return "", err
	}
	return kinds[choice], nil
}

// promptSelection returns the index into options picked by the user.
func promptSelection(ctx context.Context, reader *bufio.Reader, title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("no options found for %s", title)
	}

	filter := ""
	for {
		all := make([]selectionOption, 0, len(options))
		for i, opt := range options {
			all = append(all, selectionOption{
				RawIndex: i,
				Label:    opt,
			})
		}

		filtered := filterOptions(all, filter)
		printMenuHeader(title, len(filtered), len(all), filter)
		if len(filtered) == 0 {
			printWarnf("No results for filter %q. Use / to clear.\n", filter)
		} else {
			printOptionsInColumns(filtered)
		}
		printMenuHelp()

		fmt.Print(style("Select> ", ansiBold+ansiCyan))
		raw, err := readLine(ctx, reader)
		if err != nil {
			return 0, err
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if strings.HasPrefix(raw, "/") {
			filter = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
			continue
		}

		choice, err := strconv.Atoi(raw)
		if err != nil || choice < 1 || choice > len(filtered) {
			printWarnf("Invalid selection. Please enter a valid number.\n")
			continue
		}

		return filtered[choice-1].RawIndex, nil
	}
}

type selectionOption struct {
	RawIndex int
	Label    string
}

func filterOptions(options []selectionOption, filter string) []selectionOption {
	if strings.TrimSpace(filter) == "" {
		return options
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	filtered := make([]selectionOption, 0, len(options))
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Label), filter) {
			filtered = append(filtered, opt)
		}
	}
	return filtered
}

func printOptionsInColumns(options []selectionOption) {
	if len(options) == 0 {
		return
	}

	lines := make([]string, 0, len(options))
	maxWidth := 0
	for i, opt := range options {
		line := fmt.Sprintf("%3d. %s", i+1, strings.TrimSpace(opt.Label))
		lines = append(lines, line)
		if len(line) > maxWidth {
			maxWidth = len(line)
		}
	}

	colWidth := maxWidth + 4
	if colWidth < 24 {
		colWidth = 24
	}
	cols := 80 / colWidth
	if cols < 1 {
		cols = 1
	}
	if cols > 2 {
		cols = 2
	}

	rows := int(math.Ceil(float64(len(lines)) / float64(cols)))
	for r := 0; r < rows; r++ {
		var row strings.Builder
		for c := 0; c < cols; c++ {
			idx := c*rows + r
			if idx >= len(lines) {
				continue
			}
			if c > 0 {
				row.WriteString("  ")
			}
			row.WriteString(style(fmt.Sprintf("%-*s", colWidth, lines[idx]), ansiCyan))
		}
		fmt.Println(strings.TrimRight(row.String(), " "))
	}
}

// readLine returns the next line from reader, or ctx's error as soon as ctx
// is cancelled. The pending read is abandoned in that case.
func readLine(ctx context.Context, reader *bufio.Reader) (string, error) {
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		line, err := reader.ReadString('\n')
		done <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.line, res.err
	}
}

// pauseBeforeExit waits for Enter only when a person is at the terminal.
func pauseBeforeExit(ctx context.Context, prompt string) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return
	}
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		return
	}

	fmt.Println()
	fmt.Print(style(prompt, ansiGray))
	_, _ = readLine(ctx, bufio.NewReader(os.Stdin))
}

func printBanner() {
	fmt.Println(style(strings.Repeat("=", 64), ansiGray))
	fmt.Println(style(" INF.02 / EE.08 Exam Solver", ansiBold+ansiCyan))
	fmt.Println(style(fmt.Sprintf(" %d questions, answers from the local key", constants.QuestionCount), ansiGray))
	fmt.Println(style(strings.Repeat("=", 64), ansiGray))
	fmt.Println()
}

func printSection(title string) {
	fmt.Println()
	fmt.Println(style(strings.Repeat("-", 64), ansiGray))
	fmt.Println(style(" "+title, ansiBold+ansiCyan))
	fmt.Println(style(strings.Repeat("-", 64), ansiGray))
}

func printMenuHeader(title string, shown int, total int, filter string) {
	printSection(title)
	fmt.Println(style(fmt.Sprintf(" Showing %d of %d", shown, total), ansiGray))
	if strings.TrimSpace(filter) != "" {
		fmt.Println(style(fmt.Sprintf(" Filter: %q", filter), ansiYellow))
	}
	fmt.Println()
}

func printMenuHelp() {
	fmt.Println(style(" Commands: [number] select | /text filter | / clear", ansiGray))
}

func printInfof(format string, args ...any) {
	fmt.Printf(style("[INFO] ", ansiCyan)+format, args...)
}

func printSuccessf(format string, args ...any) {
	fmt.Printf(style("[OK] ", ansiGreen)+format, args...)
}

func printWarnf(format string, args ...any) {
	fmt.Printf(style("[WARN] ", ansiYellow)+format, args...)
}

func printErrorf(format string, args ...any) {
	fmt.Printf(style("[ERROR] ", ansiRed)+format, args...)
}

func style(text string, code string) string {
	if !useANSI || text == "" {
		return text
	}
	return code + text + ansiReset
}

func detectANSI() bool {
	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("NO_COLOR")), "1") {
		return false
	}
	term := strings.TrimSpace(strings.ToLower(os.Getenv("TERM")))
	if term == "dumb" {
		return false
	}
	return true
}

/*
Package main implements the exam planner server and CLI application.

prelim-planner locates a course's exam record from a partial course
code. It scrapes the registrar's published prelim and final exam
schedules into a local database, then answers per-keystroke typeahead
queries over the known course codes using containment plus
edit-distance tolerance, and resolves a selected code to its full exam
record.

# Usage

Start the msgpack IPC server with default settings:

	prelimd

Scrape the configured semester's schedule into the database first:

	prelimd -scrape

Run in CLI mode for interactive testing:

	prelimd -c -dist 2

Serve the HTTP API used by the web frontend:

	prelimd -http :5000

# Configuration

Runtime configuration is managed through a TOML file that supports the
suggestion server, scraping and database settings:

	[server]
	max_limit = 64
	max_query = 60
	max_distance = 3

	[registrar]
	base_url = "https://registrar.cornell.edu/exams"
	semester = "Fall 2024"
	exam_type = "prelim"

	[db]
	path = "prelim-planner.db"

The config file is automatically created with defaults if it doesn't
exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Suggestion
requests are processed synchronously with microsecond timing info in
the responses.

Send a suggestion request:

	{"id": "req1", "op": "suggest", "q": "cs21", "l": 10}

Receive the matched course codes in candidate order:

	{"id": "req1", "s": [{"code": "CS 2110", "r": 1}], "c": 1, "t": 104}

Lookups resolve a selected code to its stored exam records:

	{"id": "req2", "op": "lookup", "code": "CS 2110"}
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Dwain-Anderson/cu-prelim-planner/internal/cli"
	"github.com/Dwain-Anderson/cu-prelim-planner/internal/httpapi"
	"github.com/Dwain-Anderson/cu-prelim-planner/internal/logger"
	"github.com/Dwain-Anderson/cu-prelim-planner/internal/registrar"
	"github.com/Dwain-Anderson/cu-prelim-planner/internal/store"
	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/config"
	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/exam"
	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/server"
	"github.com/Dwain-Anderson/cu-prelim-planner/pkg/suggest"
)

const (
	Version = "0.3.0"
	AppName = "prelim-planner"
	gh      = "https://github.com/Dwain-Anderson/cu-prelim-planner"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the packages together and manages the mode flow; the
// actual logic lives in the other packages.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config.toml (default: user config dir)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	httpAddr := flag.String("http", "", "Serve the HTTP API on this address instead of IPC")
	scrapeMode := flag.Bool("scrape", false, "Scrape the configured schedule into the database and exit")
	semester := flag.String("semester", "", "Semester override, e.g. 'Fall 2024'")
	examType := flag.String("exam", "", "Exam type override: prelim or final")
	dbPath := flag.String("db", "", "Database path override")
	maxDistance := flag.Int("dist", -1, "Maximum edit distance for typeahead matching")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, activePath, _ := config.LoadConfigWithPriority(*configPath)
	cfg.Validate()
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	if *semester != "" {
		cfg.Registrar.Semester = *semester
	}
	if *examType != "" {
		cfg.Registrar.ExamType = *examType
	}
	if *dbPath != "" {
		cfg.DB.Path = *dbPath
	}
	if *maxDistance >= 0 {
		cfg.Server.MaxDistance = *maxDistance
	}

	typ, err := exam.ParseType(cfg.Registrar.ExamType)
	if err != nil {
		log.Fatalf("Invalid exam type: %v", err)
	}

	ctx := context.Background()

	if *scrapeMode {
		if err := runScrape(ctx, cfg, typ); err != nil {
			log.Fatalf("Scrape failed: %v", err)
		}
		return
	}

	st, err := openStore(cfg, cfg.Registrar.Semester, typ)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	if err := st.EnsureTable(ctx); err != nil {
		log.Fatalf("Failed to prepare schedule table: %v", err)
	}

	suggester := suggest.NewSuggester(cfg.Server.MaxDistance, cfg.Server.MaxLimit)
	if err := suggester.Refresh(ctx, st); err != nil {
		log.Warnf("Could not load candidates (empty schedule?): %v", err)
	}
	log.Debugf("Loaded %d candidate course codes", len(suggester.Candidates()))

	if *cliMode {
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(suggester, st, cfg.CLI.MaxQueryLen, cfg.CLI.DefaultLimit)
		if err := handler.Start(ctx); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
		runHTTP(cfg, suggester)
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(suggester, st, cfg.Server.MaxQuery, cfg.Server.MaxLimit)

	showStartupInfo(cfg)

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func openStore(cfg *config.Config, semester string, typ exam.Type) (*store.SQLite, error) {
	year := exam.SemesterYear(semester)
	return store.OpenSQLite(cfg.DB.Path, semester, year, typ)
}

// runScrape fetches the configured schedule, snapshots the raw text,
// and replaces the stored records with the parsed result.
func runScrape(ctx context.Context, cfg *config.Config, typ exam.Type) error {
	client := registrar.NewClient(cfg.Registrar.BaseURL, cfg.Registrar.Semester, typ)
	sched, err := client.Fetch(ctx)
	if err != nil {
		return err
	}

	if cfg.Registrar.SnapshotDir != "" {
		if _, err := sched.Save(cfg.Registrar.SnapshotDir); err != nil {
			log.Warnf("Could not save schedule snapshot: %v", err)
		}
	}

	exams, err := sched.Exams()
	if err != nil {
		return err
	}

	st, err := store.OpenSQLite(cfg.DB.Path, sched.Semester, sched.Year, typ)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.ReplaceAll(ctx, exams); err != nil {
		return err
	}
	log.Infof("Stored %d exams for %s %s", len(exams), sched.Semester, typ)
	return nil
}

func runHTTP(cfg *config.Config, suggester *suggest.Suggester) {
	opener := func(semester string, typ exam.Type) (store.Store, error) {
		return openStore(cfg, semester, typ)
	}
	scraper := func(ctx context.Context, semester string, typ exam.Type) ([]exam.Exam, error) {
		client := registrar.NewClient(cfg.Registrar.BaseURL, semester, typ)
		sched, err := client.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		if cfg.Registrar.SnapshotDir != "" {
			if _, err := sched.Save(cfg.Registrar.SnapshotDir); err != nil {
				log.Warnf("Could not save schedule snapshot: %v", err)
			}
		}
		return sched.Exams()
	}

	api := httpapi.New(opener, scraper, suggester)
	log.Infof("Serving HTTP API on %s", cfg.HTTP.Addr)
	if err := api.Router().Run(cfg.HTTP.Addr); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}

func printVersion() {
	vlog := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	vlog.SetStyles(styles)

	vlog.Print("")
	vlog.Print("[ prelim-planner ] Find your exams before you finish typing!")
	vlog.Print("", "version", Version)
	vlog.Print("")
	vlog.Print("use -h or --help to see available options")
	vlog.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(cfg *config.Config) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "================")
	fmt.Fprintln(os.Stderr, " prelim-planner ")
	fmt.Fprintln(os.Stderr, "================")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("schedule: %s %s", cfg.Registrar.Semester, cfg.Registrar.ExamType)
	log.Infof("database: ( %s )", cfg.DB.Path)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "================")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}

// Command scriptorium harvests hierarchical book sites into a local
// SQLite database and provides inspection commands for tuning the page
// heuristics against a live site.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/scriptorium"
	"github.com/fwojciec/scriptorium/crawl"
	"github.com/fwojciec/scriptorium/goquery"
	"github.com/fwojciec/scriptorium/htmltomarkdown"
	scrhttp "github.com/fwojciec/scriptorium/http"
	"github.com/fwojciec/scriptorium/rod"
	scrslog "github.com/fwojciec/scriptorium/slog"
	"github.com/fwojciec/scriptorium/sqlite"
	"github.com/fwojciec/scriptorium/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	AuthorService  scriptorium.AuthorService
	BookService    scriptorium.BookService
	ChapterService scriptorium.ChapterService
	SegmentService scriptorium.SegmentService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scriptorium"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scriptorium --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SCRIPTORIUM_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.AuthorService = sqlite.NewAuthorService(m.DB)
	m.BookService = sqlite.NewBookService(m.DB)
	m.ChapterService = sqlite.NewChapterService(m.DB)
	m.SegmentService = sqlite.NewSegmentService(m.DB)
	deps.DB = m.DB
	deps.Authors = m.AuthorService
	deps.Books = m.BookService
	deps.Chapters = m.ChapterService
	deps.Segments = m.SegmentService
	deps.Sitemaps = scrslog.NewLoggingSitemapService(scrhttp.NewSitemapService(nil), deps.Logger)

	// Commands that touch the network get a fetcher and classifier.
	switch cmd {
	case "harvest", "inspect":
		plain := cli.Harvest.Plain || cli.Inspect.Links.Plain || cli.Inspect.Content.Plain
		fetcher, err := newFetcher(plain)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --plain")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer fetcher.Close()

		deps.Fetcher = scrslog.NewLoggingFetcher(fetcher, deps.Logger)
		deps.Classifier = scrslog.NewLoggingClassifier(
			goquery.NewClassifier(goquery.DefaultConfig()), deps.Logger)
		deps.Extractor = trafilatura.NewExtractor()
		deps.Converter = htmltomarkdown.NewConverter()
	}

	if cmd == "harvest" {
		deps.Harvester = &crawl.Harvester{
			Fetcher:    deps.Fetcher,
			Classifier: deps.Classifier,
			Authors:    deps.Authors,
			Books:      deps.Books,
			Chapters:   deps.Chapters,
			Segments:   deps.Segments,
			Sitemaps:   deps.Sitemaps,
			Limiter:    crawl.NewDomainLimiter(cli.Harvest.Rate),
			Logger:     deps.Logger,
			Config:     crawl.DefaultConfig(),
		}
	}

	return kongCtx.Run(deps)
}

// newFetcher builds the fetcher for network commands. The headless
// browser is the default; plain HTTP is opt-in for server-rendered
// sites.
func newFetcher(plain bool) (scriptorium.Fetcher, error) {
	if plain {
		return scrhttp.NewFetcher(), nil
	}
	return rod.NewFetcher()
}

func defaultDBPath() string {
	if path := os.Getenv("SCRIPTORIUM_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "scriptorium.db"
	}
	dir := filepath.Join(home, ".scriptorium")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "scriptorium.db")
}

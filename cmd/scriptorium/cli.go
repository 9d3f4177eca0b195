package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/scriptorium"
	"github.com/fwojciec/scriptorium/crawl"
	"github.com/fwojciec/scriptorium/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	DB         *sqlite.DB
	Authors    scriptorium.AuthorService
	Books      scriptorium.BookService
	Chapters   scriptorium.ChapterService
	Segments   scriptorium.SegmentService
	Sitemaps   scriptorium.SitemapService
	Fetcher    scriptorium.Fetcher
	Classifier scriptorium.Classifier
	Extractor  scriptorium.Extractor
	Converter  scriptorium.Converter
	Harvester  *crawl.Harvester
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Harvest  HarvestCmd  `cmd:"" help:"Harvest a book site into the database"`
	Inspect  InspectCmd  `cmd:"" help:"Inspect a single page without persisting anything"`
	Authors  AuthorsCmd  `cmd:"" help:"List harvested authors"`
	Books    BooksCmd    `cmd:"" help:"List harvested books"`
	Chapters ChaptersCmd `cmd:"" help:"List chapters of a book"`
}

// HarvestCmd is the "harvest" subcommand.
type HarvestCmd struct {
	URL   string  `arg:"" help:"Site root URL"`
	Plain bool    `short:"p" help:"Use plain HTTP instead of a headless browser"`
	Rate  float64 `default:"1.0" help:"Maximum requests per second per host"`
}

// InspectCmd groups the page inspection subcommands.
type InspectCmd struct {
	Links   InspectLinksCmd   `cmd:"" help:"Show a page's classification and links"`
	Content InspectContentCmd `cmd:"" help:"Show a page's extracted main content"`
}

// InspectLinksCmd is the "inspect links" subcommand.
type InspectLinksCmd struct {
	URL   string `arg:"" help:"Page URL"`
	Plain bool   `short:"p" help:"Use plain HTTP instead of a headless browser"`
}

// InspectContentCmd is the "inspect content" subcommand.
type InspectContentCmd struct {
	URL      string `arg:"" help:"Page URL"`
	Markdown bool   `short:"m" help:"Convert the extracted content to Markdown"`
	Plain    bool   `short:"p" help:"Use plain HTTP instead of a headless browser"`
}

// AuthorsCmd is the "authors" subcommand.
type AuthorsCmd struct{}

// BooksCmd is the "books" subcommand.
type BooksCmd struct {
	Author string `help:"Filter by author name"`
}

// ChaptersCmd is the "chapters" subcommand.
type ChaptersCmd struct {
	Book string `arg:"" help:"Book ID"`
	Text bool   `help:"Print each chapter's full text"`
}

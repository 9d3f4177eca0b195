package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/scriptorium"
)

// Run executes the authors command.
func (c *AuthorsCmd) Run(deps *Dependencies) error {
	authors, err := deps.Authors.FindAuthors(deps.Ctx, scriptorium.AuthorFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
		return err
	}

	if len(authors) == 0 {
		fmt.Fprintln(deps.Stdout, "No authors found. Use 'scriptorium harvest' to populate the database.")
		return nil
	}

	for _, a := range authors {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", a.ID, a.Name, a.CanonicalURL)
	}

	return nil
}

// Run executes the books command.
func (c *BooksCmd) Run(deps *Dependencies) error {
	filter := scriptorium.BookFilter{}
	if c.Author != "" {
		authors, err := deps.Authors.FindAuthors(deps.Ctx, scriptorium.AuthorFilter{Name: &c.Author})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
			return err
		}
		if len(authors) == 0 {
			fmt.Fprintf(deps.Stdout, "No author named %q.\n", c.Author)
			return nil
		}
		filter.AuthorID = &authors[0].ID
	}

	books, err := deps.Books.FindBooks(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
		return err
	}

	if len(books) == 0 {
		fmt.Fprintln(deps.Stdout, "No books found.")
		return nil
	}

	for _, b := range books {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", b.ID, b.Title, b.CanonicalURL)
	}

	return nil
}

// Run executes the chapters command.
func (c *ChaptersCmd) Run(deps *Dependencies) error {
	chapters, err := deps.Chapters.FindChapters(deps.Ctx, scriptorium.ChapterFilter{BookID: &c.Book})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
		return err
	}

	if len(chapters) == 0 {
		fmt.Fprintln(deps.Stdout, "No chapters found for this book.")
		return nil
	}

	for _, ch := range chapters {
		fmt.Fprintf(deps.Stdout, "%4d  %s  %s\n", ch.Sequence, ch.ID, ch.Title)
		if !c.Text {
			continue
		}
		segments, err := deps.Segments.FindSegments(deps.Ctx, scriptorium.SegmentFilter{ChapterID: &ch.ID})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
			return err
		}
		texts := make([]string, len(segments))
		for i, s := range segments {
			texts[i] = s.Text
		}
		fmt.Fprintln(deps.Stdout, strings.Join(texts, "\n"))
		fmt.Fprintln(deps.Stdout)
	}

	return nil
}

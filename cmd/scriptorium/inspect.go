package main

import (
	"fmt"

	"github.com/fwojciec/scriptorium"
)

// Run executes the "inspect links" command. It fetches the page,
// classifies it, and prints the verdict the harvester would act on.
func (c *InspectLinksCmd) Run(deps *Dependencies) error {
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
		return err
	}

	cls, err := deps.Classifier.Classify(html, c.URL, nil)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "kind:  %s\n", cls.Kind)
	fmt.Fprintf(deps.Stdout, "title: %s\n", cls.Title)
	if cls.NextURL != "" {
		fmt.Fprintf(deps.Stdout, "next:  %s\n", cls.NextURL)
	}
	for _, link := range cls.Links {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", link.URL, link.Text)
	}

	return nil
}

// Run executes the "inspect content" command. It extracts the page's
// main content with the general-purpose extractor, bypassing the
// harvest heuristics.
func (c *InspectContentCmd) Run(deps *Dependencies) error {
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
		return err
	}

	result, err := deps.Extractor.Extract(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
		return err
	}

	content := result.ContentHTML
	if c.Markdown {
		content, err = deps.Converter.Convert(result.ContentHTML)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
			return err
		}
	}

	if result.Title != "" {
		fmt.Fprintf(deps.Stdout, "# %s\n\n", result.Title)
	}
	fmt.Fprintln(deps.Stdout, content)

	return nil
}

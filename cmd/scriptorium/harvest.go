package main

import (
	"fmt"

	"github.com/fwojciec/scriptorium"
)

// Run executes the harvest command.
func (c *HarvestCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "Harvesting %s\n", c.URL)

	stats, err := deps.Harvester.Run(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scriptorium.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Harvested %d authors, %d books, %d chapters, %d segments (%d failures)\n",
		stats.Authors, stats.Books, stats.Chapters, stats.Segments, stats.Failures)

	return nil
}

package internal

import (
	"context"
	"fmt"

	"github.com/starford/hnquery/internal/models"
)

// cliSession is the local session used by one-shot searches.
const cliSession = "cli"

// Search runs a single search and prints one line per hit to the
// configured output.
func Search(ctx context.Context, query string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	svc := app.service(app.logger(), nil)

	hits, err := svc.SubmitAndWait(ctx, cliSession, query)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		_, err = fmt.Fprintln(app.out, "No results.")
		return err
	}
	for _, h := range hits {
		if _, err := fmt.Fprintln(app.out, FormatHit(h)); err != nil {
			return err
		}
	}
	return nil
}

// FormatHit renders a hit the way the search page lists it.
func FormatHit(h models.Hit) string {
	return fmt.Sprintf("%s <%s> by %s (%d points) on %s", h.Title, h.URL, h.Author, h.Points, h.DisplayTime())
}

package main

import (
	"fmt"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/tierlist/internal/domain/category"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <score|category>...",
		Short: "Print the Ethos category and color for each score, or the score range of a category",
		Args:  cobra.MinimumNArgs(1),
		// Classification needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			lines := make([]string, 0, len(args))
			for _, a := range args {
				if n, err := strconv.Atoi(a); err == nil {
					c := category.Classify(n)
					lines = append(lines, fmt.Sprintf("%d\t%s\t%s\n", n, c, c.Color()))
					continue
				}
				c, err := category.Parse(a)
				if err != nil {
					return fmt.Errorf("invalid score or category %q: %w", a, err)
				}
				lines = append(lines, fmt.Sprintf("%s\t%s\t%s\n", span(c), c, c.Color()))
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, l := range lines {
				_, _ = fmt.Fprint(w, l)
			}
			return w.Flush()
		},
	}
}

// span renders the score range of c, e.g. "2400-2599", "<800" or ">=2600".
func span(c category.Category) string {
	lo, hi, _ := c.Bounds()
	switch {
	case lo == math.MinInt:
		return fmt.Sprintf("<%d", hi+1)
	case hi == math.MaxInt:
		return fmt.Sprintf(">=%d", lo)
	default:
		return fmt.Sprintf("%d-%d", lo, hi)
	}
}

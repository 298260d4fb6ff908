package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/tierlist/internal/adapters/ethos"
	"github.com/okian/tierlist/internal/domain/category"
)

type lookupResult struct {
	Username    string            `json:"username"`
	DisplayName string            `json:"displayName"`
	AvatarURL   string            `json:"avatarUrl"`
	Score       int               `json:"score"`
	Category    category.Category `json:"category"`
	Color       string            `json:"color"`
}

func newLookupCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "lookup <username>",
		Short: "Fetch an Ethos profile and show its category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ethos.NewClient(
				ethos.WithBaseURL(c.cfg.EthosBaseURL),
				ethos.WithTimeout(c.cfg.EthosTimeout()),
				ethos.WithLogger(c.log.Named("ethos")),
			)
			p, err := client.Lookup(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("lookup %s: %w", args[0], err)
			}
			cat := category.Classify(p.Score)
			res := lookupResult{
				Username:    p.Username,
				DisplayName: p.DisplayName,
				AvatarURL:   p.AvatarURL,
				Score:       p.Score,
				Category:    cat,
				Color:       cat.Color(),
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			_, err = fmt.Fprintf(out, "%s (%s)\nscore:    %d\ncategory: %s %s\navatar:   %s\n",
				res.Username, res.DisplayName, res.Score, res.Category, res.Color, res.AvatarURL)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

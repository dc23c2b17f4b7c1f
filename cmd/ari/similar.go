package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func similarCmd() *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "similar <text>",
		Short: "Find past sessions similar to the given input",
		Long: `Score the input's keywords against every persisted session's keyword
set (Jaccard overlap) and list the best matches.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			m, _ := openMemory()
			results := m.FindSimilarConversations(args[0], limit)
			if asJSON {
				printJSON(results)
				return
			}
			fmt.Print(newRenderer().Similar(results))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "max results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

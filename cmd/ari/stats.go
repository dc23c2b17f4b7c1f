package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate memory statistics",
		Run: func(cmd *cobra.Command, args []string) {
			m, _ := openMemory()
			st := m.MemoryStats()
			if asJSON {
				printJSON(st)
				return
			}
			fmt.Print(newRenderer().Stats(st))
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

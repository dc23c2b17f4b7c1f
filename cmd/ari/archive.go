package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/ari/internal/store"
)

func archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Copy persisted sessions into the long-term archive",
		Long: `Copy every session in the index, with its transcript, into the sqlite
archive under the memory directory. The JSON files are left untouched;
the archive only accumulates.`,
		Run: func(cmd *cobra.Command, args []string) {
			m, st := openMemory()

			arc, err := store.OpenArchive(st.Dir())
			if err != nil {
				fatalError(err)
			}
			defer arc.Close()

			ctx := context.Background()
			archived := 0
			for _, s := range m.KnownSessions() {
				turns, err := st.LoadTranscript(s.SessionID)
				if err != nil {
					fmt.Printf("Skipping %s: %v\n", truncateStr(s.SessionID, 12), err)
					continue
				}
				if err := arc.ArchiveSession(ctx, s, turns); err != nil {
					fatalError(err)
				}
				archived++
			}
			fmt.Printf("Archived %d sessions to %s\n", archived, arc.Path())
		},
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List archived sessions",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := memConfig()
			arc, err := store.OpenArchive(cfg.MemoryDir)
			if err != nil {
				fatalError(err)
			}
			defer arc.Close()

			sessions, err := arc.ArchivedSessions(context.Background(), limit)
			if err != nil {
				fatalError(err)
			}
			fmt.Print(newRenderer().Sessions(sessions))
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "max sessions")
	cmd.AddCommand(listCmd)

	return cmd
}

// Package main provides the ari memory CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joss/ari/internal/config"
	"github.com/joss/ari/internal/memory"
	"github.com/joss/ari/internal/render"
	"github.com/joss/ari/internal/store"
)

var (
	version     = "0.1.0"
	memDir      string
	plain       bool
	archiveOld  bool
	archiveConn *store.Archive
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ari",
		Short: "ARI conversation memory",
		Long: `ari manages ARI's conversation context memory on disk.

The memory directory holds the aggregate session history
(conversation_history.json), one transcript per session, and the
long-term archive. Response generation lives elsewhere; this tool
records turns and inspects what the memory core knows.`,
		Version: version,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if archiveConn != nil {
				archiveConn.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&memDir, "dir", "", "memory directory (default ~/.ari/memory or ARI_MEMORY_DIR)")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "plain output, no color")
	rootCmd.PersistentFlags().BoolVar(&archiveOld, "archive-old", false, "archive superseded sessions to sqlite (or ARI_ARCHIVE=1)")

	rootCmd.AddCommand(
		logCmd(),
		contextCmd(),
		sessionsCmd(),
		similarCmd(),
		statsCmd(),
		archiveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// memConfig builds the core config from env plus the --dir flag.
func memConfig() config.Config {
	cfg := config.FromEnv()
	if memDir != "" {
		cfg.MemoryDir = memDir
	}
	if archiveOld {
		cfg.ArchiveOnSupersede = true
	}
	return cfg
}

// openMemory wires a manager over a JSON store and hydrates the session
// index. With ArchiveOnSupersede set it also opens the sqlite archive so
// replaced sessions are copied there.
func openMemory() (*memory.Manager, *store.JSONStore) {
	cfg := memConfig()
	st, err := store.NewJSONStore(cfg.MemoryDir)
	if err != nil {
		fatalError(err)
	}
	var opts []memory.Option
	if cfg.ArchiveOnSupersede {
		arc, err := store.OpenArchive(cfg.MemoryDir)
		if err != nil {
			fatalError(err)
		}
		archiveConn = arc
		opts = append(opts, memory.WithArchiver(arc))
	}
	m := memory.NewManager(cfg, st, opts...)
	if err := m.LoadPersistent(); err != nil {
		// Degraded but usable: the core treats broken history as empty.
		switch {
		case store.IsCorrupt(err):
			fmt.Fprintf(os.Stderr, "Warning: ignoring corrupt history: %v\n", err)
		case store.IsIO(err):
			fmt.Fprintf(os.Stderr, "Warning: could not read memory directory: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return m, st
}

func newRenderer() *render.Renderer {
	pretty := !plain && term.IsTerminal(int(os.Stdout.Fd()))
	return render.New(pretty)
}

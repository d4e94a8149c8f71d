package main

import (
	"fmt"
	"os"

	"chat-export/internal/export"
	"chat-export/internal/hook"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	flagTranscript string
	flagSession    string
	flagOutDir     string
	flagIndexed    bool
)

func main() {
	root := &cobra.Command{
		Use:     "chat-export",
		Short:   "Export a Claude Code session transcript before compaction",
		Long:    "chat-export is a PreCompact hook: it reads the hook payload from stdin, reconstructs the session as markdown (tool calls, subagent transcripts, sidechains, debug log entries), and writes it to .claude/chat_history/.\n\nIt can also be run by hand with --transcript/--session.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional .env in the working directory; absence is expected.
			_ = godotenv.Load()

			cfg, err := hook.LoadConfig(hook.DefaultConfigPath())
			if err != nil {
				return err
			}
			cfg = hook.ApplyEnv(cfg)
			if flagOutDir != "" {
				cfg.ExportDir = flagOutDir
			}
			if flagIndexed {
				cfg.IndexedNames = true
			}

			logger := hook.NewLogger(os.Stderr, uuid.NewString())

			var in hook.Input
			if flagTranscript != "" {
				in = hook.Input{SessionID: flagSession, TranscriptPath: flagTranscript}
				if in.SessionID == "" {
					in.SessionID = "unknown"
				}
			} else {
				in, err = hook.ParseInput(os.Stdin)
				if err != nil {
					return fmt.Errorf("parse hook input: %w", err)
				}
			}

			exporter := &export.Exporter{Config: cfg, Logger: logger}
			res, err := exporter.Run(in)
			if err != nil {
				return err
			}
			logger.Info("export complete", map[string]interface{}{
				"path":      res.OutputPath,
				"turns":     res.Turns,
				"sidechain": res.Sidechain,
				"agents":    res.Agents,
				"debug":     res.DebugEntries,
			})
			fmt.Fprintf(os.Stderr, "Exported to %s\n", res.OutputPath)
			return nil
		},
	}

	root.Flags().StringVar(&flagTranscript, "transcript", "", "Transcript path (skip stdin hook payload)")
	root.Flags().StringVar(&flagSession, "session", "", "Session id (with --transcript)")
	root.Flags().StringVar(&flagOutDir, "out-dir", "", "Override export directory")
	root.Flags().BoolVar(&flagIndexed, "indexed", false, "Use NNN-chat-<timestamp>.md filenames")

	nextIndexCmd := &cobra.Command{
		Use:   "next-index [dir]",
		Short: "Print the next NNN export index for a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := hook.ApplyEnv(hook.DefaultConfig()).ExportDir
			if len(args) > 0 {
				dir = args[0]
			}
			entries, err := os.ReadDir(dir)
			if err != nil && !os.IsNotExist(err) {
				return err
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			fmt.Printf("%03d\n", export.NextIndex(names))
			return nil
		},
	}
	root.AddCommand(nextIndexCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

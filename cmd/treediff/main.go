package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qdoyonnas/treediff/internal/chunker"
	"github.com/qdoyonnas/treediff/internal/config"
	"github.com/qdoyonnas/treediff/internal/diff"
	"github.com/qdoyonnas/treediff/internal/event"
	"github.com/qdoyonnas/treediff/internal/fingerprint"
	"github.com/qdoyonnas/treediff/internal/scan"
	"github.com/qdoyonnas/treediff/internal/score"
	"github.com/qdoyonnas/treediff/internal/state"
	"github.com/qdoyonnas/treediff/internal/stats"
	"github.com/qdoyonnas/treediff/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		statePath   string
		jsonOut     string
		verbose     int
		quiet       bool
		workers     int
		chunkMin    int
		chunkAvg    int
		chunkMax    int
		modelPath   string
		noProgress  bool
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "treediff [flags] <target>",
		Short: "Detect content-level changes in a directory tree between runs",
		Long: `treediff fingerprints every file in a directory tree using
content-defined chunking and BLAKE3 digests, compares the result against
the previous run's saved state, and emits the create/delete/copy
operations needed to resynchronize a mirror.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "treediff %s\n", version)
				return nil
			}
			target := args[0]

			// Load optional config file.
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			applyConfigDefaults(cmd, cfg.Defaults,
				&workers, &statePath, &quiet, &modelPath,
				&chunkMin, &chunkAvg, &chunkMax)

			// Configure logging.
			logLevel := slog.LevelWarn
			switch {
			case verbose >= 2:
				logLevel = slog.LevelDebug
			case verbose >= 1:
				logLevel = slog.LevelInfo
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			}))
			slog.SetDefault(logger)

			if _, err := os.Stat(target); err != nil {
				return fmt.Errorf("target directory %s: %w", target, err)
			}

			chunkOpts := chunker.Options{
				MinSize: chunkMin,
				AvgSize: chunkAvg,
				MaxSize: chunkMax,
			}
			if err := chunkOpts.Validate(); err != nil {
				return err
			}

			// The scorer is chosen up front: a missing or unreadable
			// model aborts before any scanning work begins.
			var scorer score.Scorer = score.Constant{}
			if modelPath != "" {
				model, err := score.LoadModel(modelPath)
				if err != nil {
					return err
				}
				scorer = model
				slog.Debug("priority model loaded", "path", modelPath)
			}

			if workers <= 0 {
				workers = runtime.NumCPU()
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			presenter := ui.NewPresenter(ui.Config{
				Writer:     os.Stdout,
				ErrWriter:  os.Stderr,
				Stats:      collector,
				IsTTY:      ui.IsTTY(os.Stderr.Fd()),
				Quiet:      quiet,
				Verbose:    verbose > 0,
				NoProgress: noProgress,
			})

			// Load the reference before scanning so a corrupt state file
			// fails fast instead of after minutes of hashing.
			var reference *fingerprint.Set
			if state.Exists(statePath) {
				slog.Debug("loading reference state", "path", statePath)
				reference, err = state.Load(statePath)
				if err != nil {
					return err
				}
			}

			slog.Debug("starting scan",
				"target", target,
				"state", statePath,
				"workers", workers,
			)

			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				_ = presenter.Run(events)
			}()

			current, scanErr := scan.Run(ctx, scan.Config{
				Root:    target,
				Workers: workers,
				Chunker: chunkOpts,
				Scorer:  scorer,
				Events:  events,
				Stats:   collector,
			})
			stop()
			close(events)
			presenterWg.Wait()

			if scanErr != nil {
				return fmt.Errorf("scan %s: %w", target, scanErr)
			}

			if !quiet {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(os.Stderr, summary)
				}
			}

			if reference != nil {
				operations := diff.Compute(reference, current)
				if jsonOut != "" {
					if err := ui.WriteOperationsJSON(jsonOut, operations); err != nil {
						return err
					}
					slog.Info("wrote operations", "path", jsonOut, "count", len(operations))
				} else {
					ui.RenderOperations(os.Stdout, operations)
				}
			} else {
				slog.Info("no reference state found, creating new state", "path", statePath)
			}

			// State is saved only after the scan completed; per-file drops
			// are already excluded, partial runs never persist.
			if err := state.Save(statePath, current); err != nil {
				return err
			}
			slog.Debug("state saved", "path", statePath, "entries", current.Len())

			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().StringVar(&statePath, "state", "state.json", "state file to reference and save to (.zst compresses)")
	rootCmd.Flags().StringVar(&jsonOut, "json", "", "write operations to FILE as JSON instead of stdout")
	rootCmd.Flags().CountVarP(&verbose, "verbose", "v", "verbosity (-v progress detail, -vv per-file output)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors and operations")
	rootCmd.Flags().IntVarP(&workers, "workers", "n", 0, "number of hashing workers (default: NumCPU)")
	rootCmd.Flags().IntVar(&chunkMin, "chunk-min", chunker.DefaultMinSize, "minimum chunk size in bytes")
	rootCmd.Flags().IntVar(&chunkAvg, "chunk-avg", chunker.DefaultAvgSize, "average (target) chunk size in bytes")
	rootCmd.Flags().IntVar(&chunkMax, "chunk-max", chunker.DefaultMaxSize, "maximum chunk size in bytes")
	rootCmd.Flags().StringVar(&modelPath, "priority-model", "", "JSON weights file for priority scoring")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable progress display")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// applyConfigDefaults applies config file defaults for flags not
// explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	workers *int,
	statePath *string,
	quiet *bool,
	modelPath *string,
	chunkMin, chunkAvg, chunkMax *int,
) {
	if !cmd.Flags().Changed("workers") && defaults.Workers != nil {
		*workers = *defaults.Workers
	}
	if !cmd.Flags().Changed("state") && defaults.State != nil {
		*statePath = *defaults.State
	}
	if !cmd.Flags().Changed("quiet") && defaults.Quiet != nil {
		*quiet = *defaults.Quiet
	}
	if !cmd.Flags().Changed("priority-model") && defaults.PriorityModel != nil {
		*modelPath = *defaults.PriorityModel
	}
	if !cmd.Flags().Changed("chunk-min") && defaults.ChunkMin != nil {
		*chunkMin = *defaults.ChunkMin
	}
	if !cmd.Flags().Changed("chunk-avg") && defaults.ChunkAvg != nil {
		*chunkAvg = *defaults.ChunkAvg
	}
	if !cmd.Flags().Changed("chunk-max") && defaults.ChunkMax != nil {
		*chunkMax = *defaults.ChunkMax
	}
}

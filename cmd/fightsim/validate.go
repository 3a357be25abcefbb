package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/milk9111/versus/chardata"
)

var flagWatch bool

var validateCmd = &cobra.Command{
	Use:   "validate <character.yaml>...",
	Short: "Validate character data files",
	Long: `Load and validate one or more character data files, including any
hook scripts they reference. With --watch, keep running and revalidate
whenever a watched file changes.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&flagWatch, "watch", false, "Revalidate on file changes until interrupted")
}

func runValidate(cmd *cobra.Command, args []string) {
	failed := false
	for _, path := range args {
		if validateFile(path) != nil {
			failed = true
		}
	}

	if !flagWatch {
		if failed {
			os.Exit(1)
		}
		return
	}

	dirs := map[string]bool{}
	for _, path := range args {
		dirs[filepath.Dir(path)] = true
	}
	var watchDirs []string
	for dir := range dirs {
		watchDirs = append(watchDirs, dir)
	}

	watcher, err := chardata.NewWatcher(watchDirs...)
	if err != nil {
		logger.Fatal("start watcher", "error", err)
	}
	defer watcher.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("watching for changes", "dirs", watchDirs)

	for {
		select {
		case path, ok := <-watcher.Events:
			if !ok {
				return
			}
			logger.Info("change detected", "file", path)
			// A hook script edit means its character files need recompiling,
			// so revalidate everything on any change.
			for _, p := range args {
				validateFile(p)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", "error", err)
		case <-sig:
			return
		}
	}
}

func validateFile(path string) error {
	spec, err := chardata.Load(path)
	if err != nil {
		logger.Error("invalid", "file", path, "error", err)
		return err
	}
	if _, err := spec.BuildAttacks(filepath.Dir(path)); err != nil {
		logger.Error("invalid", "file", path, "error", err)
		return err
	}
	logger.Info("ok", "file", path, "character", spec.Name, "attacks", len(spec.Attacks))
	return nil
}

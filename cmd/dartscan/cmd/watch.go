package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	fsw "github.com/corey/dartscan/internal/adapters/fsnotify"
	"github.com/corey/dartscan/internal/adapters/treesitter"
	"github.com/corey/dartscan/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rescan and reprint whenever a Dart file changes",
	Long:  "Runs a full scan, then watches the directory and re-runs the scan on every Dart file change. No state is kept between scans.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	addFilterFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	pol, err := buildPolicy()
	if err != nil {
		return err
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	if _, err := os.Stat(root); err != nil {
		return err
	}

	scanner := app.NewScanner(treesitter.NewParser())
	scanner.SetIgnore(app.LoadGitignore(root))

	if flags := pol.Options().FlagNames(); len(flags) > 0 {
		fmt.Fprintf(os.Stderr, "dartscan: watching %s (%s)\n", root, strings.Join(flags, " "))
	} else {
		fmt.Fprintf(os.Stderr, "dartscan: watching %s\n", root)
	}

	rescan := func() {
		if err := writeRecords(os.Stdout, scanner.ScanDir(root, pol), pol); err != nil {
			fmt.Fprintf(os.Stderr, "dartscan: %v\n", err)
		}
	}
	rescan()

	w, err := fsw.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Watch(root, func(path string) {
		fmt.Fprintf(os.Stderr, "dartscan: %s changed, rescanning\n", filepath.Base(path))
		rescan()
	}); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

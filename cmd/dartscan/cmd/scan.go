package cmd

import (
	"io"
	"iter"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/dartscan/internal/adapters/treesitter"
	"github.com/corey/dartscan/internal/app"
	"github.com/corey/dartscan/internal/domain/policy"
	"github.com/corey/dartscan/internal/domain/report"
)

// filterOpts holds the flag values shared by scan and watch.
var filterOpts struct {
	privateOnly  bool
	noPrimitives bool
	finalOnly    bool
	noFinal      bool
	noClasses    bool
	noImports    bool
	markdown     bool
	jsonOut      bool
}

var scanStdin bool

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Report imports and class fields for a file or directory",
	Long:  "Scans a Dart file, or every Dart file under a directory, and prints one report block per import list and per class.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	addFilterFlags(scanCmd)
	scanCmd.Flags().BoolVar(&scanStdin, "stdin", false, "Read one Dart source from standard input")
}

// addFilterFlags registers the policy flags on a command. scan and watch
// share the same filter surface.
func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&filterOpts.privateOnly, "private-only", false, "Keep only library-private fields (leading underscore)")
	f.BoolVar(&filterOpts.noPrimitives, "no-primitives", false, "Drop fields of primitive-like types (int, String, DateTime, ...)")
	f.BoolVar(&filterOpts.finalOnly, "final-only", false, "Keep only final fields")
	f.BoolVar(&filterOpts.noFinal, "no-final", false, "Keep only non-final fields")
	f.BoolVar(&filterOpts.noClasses, "no-classes", false, "Skip class-field extraction")
	f.BoolVar(&filterOpts.noImports, "no-imports", false, "Skip import extraction")
	f.BoolVar(&filterOpts.markdown, "markdown", false, "Render markdown instead of plain text")
	f.BoolVar(&filterOpts.jsonOut, "json", false, "Emit records as a JSON array")
}

// buildPolicy validates the filter flags into a policy.
func buildPolicy() (*policy.Policy, error) {
	return policy.New(policy.Options{
		PrivateOnly:  filterOpts.privateOnly,
		NoPrimitives: filterOpts.noPrimitives,
		FinalOnly:    filterOpts.finalOnly,
		NoFinal:      filterOpts.noFinal,
		NoClasses:    filterOpts.noClasses,
		NoImports:    filterOpts.noImports,
		Markdown:     filterOpts.markdown,
	})
}

func runScan(cmd *cobra.Command, args []string) error {
	pol, err := buildPolicy()
	if err != nil {
		return err
	}
	scanner := app.NewScanner(treesitter.NewParser())

	if scanStdin {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		return writeRecords(os.Stdout, scanner.ScanSource(source, "", pol), pol)
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	var records iter.Seq2[report.Record, error]
	if info.IsDir() {
		scanner.SetIgnore(app.LoadGitignore(target))
		records = scanner.ScanDir(target, pol)
	} else {
		records = scanner.ScanFile(target, pol)
	}
	return writeRecords(os.Stdout, records, pol)
}

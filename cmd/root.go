package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/docidx/internal/config"
	"github.com/itsmostafa/docidx/internal/docindex"
	"github.com/itsmostafa/docidx/internal/log"
	"github.com/itsmostafa/docidx/internal/version"
)

var configFile string
var rootDir string
var maxIncludeDepth int
var markdownFences bool
var collisions string
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "docidx",
	Short: "Index AsciiDoc and Markdown documentation into addressable sections",
	Long: `docidx resolves include:: directives across a documentation tree, splits the
result into a hierarchy of sections with stable dotted ids, and lets you browse,
search, validate and export that index.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("log-level") {
			log.SetLevel(logLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("docidx %s\n", version.String()))

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to config file (default "+config.DefaultFile+" if present)")
	flags.StringVar(&rootDir, "root", "", "Project directory to index")
	flags.IntVar(&maxIncludeDepth, "max-depth", docindex.DefaultMaxIncludeDepth, "Maximum include nesting depth")
	flags.BoolVar(&markdownFences, "markdown-fences", false, "Treat ``` and ~~~ fences as literal blocks")
	flags.StringVar(&collisions, "collisions", "", "Duplicate id policy (suffix, overwrite)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, disabled)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then applies any flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Project.Root = rootDir
	}
	if flags.Changed("max-depth") {
		cfg.Parser.MaxIncludeDepth = maxIncludeDepth
	}
	if flags.Changed("markdown-fences") {
		cfg.Parser.MarkdownFences = markdownFences
	}
	if flags.Changed("collisions") {
		cfg.Parser.Collisions = collisions
	}
	if !flags.Changed("log-level") {
		log.SetLevel(cfg.Log.Level)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSnapshot indexes the configured project once.
func loadSnapshot(cmd *cobra.Command) (*config.Config, *docindex.Project, *docindex.Snapshot, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	parser, err := cfg.NewParser()
	if err != nil {
		return nil, nil, nil, err
	}
	project, err := docindex.NewProject(cfg.Project.Root, parser)
	if err != nil {
		return nil, nil, nil, err
	}
	snap, err := project.Refresh()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, project, snap, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

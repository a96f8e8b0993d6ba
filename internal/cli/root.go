package cli

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/morphcorp/internal/config"
	"github.com/ppiankov/morphcorp/internal/model"
)

// Version is the release reported by the version command.
const Version = "v0.2.0"

var (
	cfgFile    string
	verbose    bool
	noProgress bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "morphcorp",
	Short: "morphcorp - corpus annotation and POS frequency statistics",
	Long: `morphcorp turns a directory of crawled documents into an annotated corpus.

Each document <id>_raw.txt is segmented into sentences and tokens, tagged
with a morphological analyzer (mystem or an OpenCorpora service), converted
to Universal Dependencies labels and written as CONLL-U. The frequency
stage then counts parts of speech per document and records them in
<id>_meta.json.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("morphcorp %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: "+config.DefaultPath+")")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
	flags.StringP("dir", "d", "", "corpus directory")
	flags.Int("workers", 0, "documents processed concurrently (default: number of CPUs)")
	flags.Bool("fail-fast", false, "abort a stage on the first failed document")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress bars")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("corpus.dir", flags.Lookup("dir"))
	_ = viper.BindPFlag("concurrency.workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("pipeline.fail_fast", flags.Lookup("fail-fast"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := config.Setup(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering defaults: %v\n", err)
		return
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := homedir.Expand("~/.morphcorp")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
	}
}

// loadConfig resolves the effective configuration for a command.
func loadConfig() (*model.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if verbose && !rootCmd.PersistentFlags().Changed("log-level") {
		cfg.Log.Level = "debug"
	}
	if noProgress {
		cfg.Output.Progress = false
	}
	return cfg, nil
}

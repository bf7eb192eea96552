package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/fabito/boundary-purger/pkg/config"
	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	v       string
	cfgFile string
	// configErr is set by initConfig when an explicit --config cannot be read
	configErr error
)

// rootCmd represents the base command when called without any subcommands.
// Running it bare purges every event of the organization.
var rootCmd = &cobra.Command{
	Use:   "bnp",
	Short: "Utility for purging events from a Boundary organization",
	Long: `Deletes every event of a Boundary organization, re-querying the events
endpoint until it reports none left.

Credentials are read from --api-key/--org-id, BOUNDARY_API_KEY/BOUNDARY_ORG_ID,
a .env file in the working directory or $HOME/.bnp.yaml.`,
	Args:          cobra.NoArgs,
	RunE:          runPurge,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func setUpLogs(out io.Writer, level string) error {
	logrus.SetOutput(out)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}

// initConfig loads .env and the config file. $HOME/.bnp.yaml is optional,
// a file named with --config is not.
func initConfig() {
	configErr = nil
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Could not load .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			logrus.Debugf("No home directory, skipping config file: %v", err)
			return
		}
		path := filepath.Join(home, ".bnp.yaml")
		if _, err := os.Stat(path); err != nil {
			return
		}
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			configErr = errors.Wrapf(err, "reading config file %s", cfgFile)
			return
		}
		logrus.Warnf("Could not read config file: %v", err)
		return
	}
	logrus.Debugf("Using config file %s", viper.ConfigFileUsed())
}

// bindFlags exposes every flag of fs to viper under its own name
func bindFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		viper.BindPFlag(f.Name, f)
	})
}

func init() {
	cobra.OnInitialize(initConfig)
	config.BindEnv(viper.GetViper())
	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := setUpLogs(os.Stderr, v); err != nil {
			return err
		}
		return configErr
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&v, "verbosity", "v", logrus.InfoLevel.String(), "Log level (trace, debug, info, warn, error, fatal, panic)")
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bnp.yaml)")
	flags.String(config.KeyAPIKey, "", "The Boundary API key")
	flags.String(config.KeyOrgID, "", "The Boundary organization id")
	flags.String(config.KeyAPIURL, "https://api.boundary.com", "The Boundary API URL")
	flags.Duration(config.KeyTimeout, config.DefaultTimeout, "Timeout of each API request (0 disables it)")
	flags.Int(config.KeyMaxIterations, config.DefaultMaxIterations, "Give up after this many delete rounds (0 disables the bound)")
	flags.Duration(config.KeyMaxDuration, config.DefaultMaxDuration, "Give up after purging for this long (0 disables the bound)")
	flags.Bool(config.KeyDryRun, false, "List the events of the first page without deleting them")
	flags.Bool(config.KeyInsecure, false, "Skip TLS certificate verification")
	bindFlags(flags)
}

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/assetnote/httpfetch/pkg/fetch"
	"github.com/assetnote/httpfetch/pkg/http"
	"github.com/assetnote/httpfetch/pkg/log"
	"github.com/spf13/cobra"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// These global variables can be configured with the corresponding lowercase flag
var (
	Verbose   string        // Verbose defines the logging level, either trace, debug, info, error, fatal
	Output    string        // Output defines the output format, either pretty, text, json
	Quiet     bool          // Quiet hides the progress bar
	Transport string        // Transport picks the handler, either auto, fast, stream
	Timeout   time.Duration // Timeout bounds every request

	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "httpfetch",
	Short: "httpfetch performs http requests",
	Long: `httpfetch performs http requests through a pluggable transport.
the fasthttp transport is used unless a proxy is configured in the environment`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.httpfetch.yaml)")

	rootCmd.PersistentFlags().StringVarP(&Verbose, "verbose", "v", "info", "level of logging verbosity. can be error,info,debug,trace")
	rootCmd.PersistentFlags().StringVarP(&Output, "output", "o", "pretty", "output format. can be json,text,pretty")
	rootCmd.PersistentFlags().BoolVarP(&Quiet, "quiet", "q", false, "quiet mode. hides the progress bar")
	rootCmd.PersistentFlags().StringVar(&Transport, "transport", "auto", "transport to use. can be auto,fast,stream")
	rootCmd.PersistentFlags().DurationVarP(&Timeout, "timeout", "t", http.DefaultTimeout, "timeout to use on all requests")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("transport", rootCmd.PersistentFlags().Lookup("transport"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	rootCmd.PersistentFlags().Duration("max-time", 0, "deadline for the whole command, including redirects. 0 disables it")
	viper.BindPFlag("max-time", rootCmd.PersistentFlags().Lookup("max-time"))
}

func initLogging() {
	if err := log.SetFormat(viper.GetString("output")); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logging")
	}

	level := viper.GetString("verbose")
	if level != "" {
		if err := log.SetLevelString(level); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize logging")
		}
	}
	log.Debug().Str("level", level).Str("format", viper.GetString("output")).Msg("custom log settings")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".httpfetch" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".httpfetch")
	}

	viper.SetEnvPrefix("httpfetch")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// handlerConfig builds the transport config from the config file, the environment and the flags
func handlerConfig() (http.Config, error) {
	conf := http.NewDefaultConfig()
	if err := viper.Unmarshal(&conf); err != nil {
		return conf, fmt.Errorf("failed to read transport config: %w", err)
	}
	return conf, nil
}

// transportEnv overrides the transport selection of the environment with the --transport flag
func transportEnv(transport string) (func(string) string, error) {
	transport = strings.ToLower(transport)
	switch transport {
	case "", "auto":
		return os.Getenv, nil
	case "fast", "stream":
		return func(k string) string {
			if k == http.TransportEnv {
				return transport
			}
			return os.Getenv(k)
		}, nil
	}
	return nil, fmt.Errorf("unknown transport %q", transport)
}

// newDispatcher creates the dispatcher shared by the commands. The handler is only constructed on the first request
func newDispatcher() *fetch.Dispatcher {
	conf, err := handlerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	getenv, err := transportEnv(viper.GetString("transport"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid transport")
	}
	log.Debug().Dur("timeout", conf.Timeout).Int("max_conns", conf.MaxConnsPerHost).Msg("transport config")
	return fetch.NewDispatcher(fetch.WithRegistry(fetch.NewRegistry(fetch.NewProbe(conf, getenv))))
}

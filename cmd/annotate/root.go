package main

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kanavsharmaa/pdf-annotator/log"

	annotationCmd "github.com/kanavsharmaa/pdf-annotator/annotation/cmd"
)

type Configuration struct {
	Annotation annotationCmd.Configuration `toml:"annotation"`
	Server     struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
	Token struct {
		TTL string `toml:"ttl"`
	} `toml:"token"`
}

// TokenTTL returns the lifetime of the tokens minted by the token command.
// An empty ttl means tokens never expire.
func (c Configuration) TokenTTL() (time.Duration, error) {
	if c.Token.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Token.TTL)
}

var (
	// flags
	env        string
	configFile string

	// configuration
	config Configuration

	// logger
	logger log.Logger
)

func init() {
	RootCmd.PersistentFlags().StringVar(&env, "env", "dev", "environment")
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file")
}

var RootCmd = cobra.Command{
	Use:   "annotate",
	Short: "Annotate PDF documents with highlights, comments and drawings",
	Long:  "Annotate PDF documents with highlights, comments and drawings",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = log.New(env)

		// A missing .env file is fine
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logger.Warnf("could not load .env: %v", err)
		}

		if configFile == "" {
			configFile = path.Join("configuration", fmt.Sprintf("config.%s.toml", env))
		}

		data, err := os.ReadFile(configFile)
		if err != nil {
			logger.Fatal("could not read configuration file:", err)
		}

		err = toml.Unmarshal(data, &config)
		if err != nil {
			logger.Fatal("error unmarshalling configuration:", err)
		}
	},
}

func inheritPersistentPreRun(cmd *cobra.Command) {
	ppr := cmd.PersistentPreRun
	cmd.PersistentPreRun = func(c *cobra.Command, args []string) {
		// Run parent persistent pre run
		if cmd.Parent() != nil && cmd.Parent().PersistentPreRun != nil {
			cmd.Parent().PersistentPreRun(c, args)
		}

		// Run command persistent pre run
		if ppr != nil {
			ppr(c, args)
		}
	}
}

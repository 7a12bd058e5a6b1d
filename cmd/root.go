package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "restage",
	Short: "Rewrite a branch progression so each branch stages one feature increment",
	Long: `restage rewrites the history of a fixed, ordered set of branches so
that each branch's tree reflects an incremental feature stage, instead
of every branch pointing at an identical codebase with only a diverging
commit message.

Each branch is checked out, hard-reset to the previous stage, given its
designated file set, and committed as a single commit. The files unique
to the final branch are preserved in memory before any reset runs and
restored onto it afterwards.

This rewrites history. Re-running from a clean state is the only
recovery path after a failure.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/restage/config.toml)")
	rootCmd.PersistentFlags().String("repo", ".", "repository root to operate on")
	rootCmd.PersistentFlags().String("manifest", "", "rebuild manifest (default is the embedded plan)")

	viper.BindPFlag("repo.root", rootCmd.PersistentFlags().Lookup("repo"))
	viper.BindPFlag("manifest.path", rootCmd.PersistentFlags().Lookup("manifest"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "restage")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("repo.root", ".")
	viper.SetDefault("manifest.path", "")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "insiderlog",
	Short: "insiderlog - rare insider buys, summarized in plain English",
	Long: `insiderlog scans recent SEC Form 4 filings for meaningful open-market
insider purchases, cross-references analyst price-target raises, and
publishes a scored daily report.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

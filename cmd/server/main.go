package main

import (
	"context"
	"fmt"
	"os"

	"provenance-api/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var cfgPath string

	serve := newServeCmd(v, &cfgPath)
	root := &cobra.Command{
		Use:           "provenance",
		Short:         "Article listing service backed by an aged cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running without a subcommand serves.
		RunE: serve.RunE,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "path to a YAML config file")
	pf.Int("port", 8881, "HTTP listen port")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	_ = v.BindPFlag("port", pf.Lookup("port"))
	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))

	root.AddCommand(serve, newMineCmd())
	return root
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"afflint/internal/lsp"
	"afflint/internal/project"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the afflint language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")

	cfg := project.Default()
	if configPath != "" {
		loaded, err := project.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Config:         cfg,
		MaxDiagnostics: maxDiags,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}

package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hkfire/newsurl/internal/config"
)

//go:embed templates/newsurl.yaml
var configTemplate []byte

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Init writes a commented .newsurl file holding the default keywords, the
built-in sites and every output and request option, ready to be edited.
Custom sites are sketched at the end of the file.

Examples:
  # Write .newsurl in the current directory
  newsurl init

  # Write somewhere else, replacing an existing file
  newsurl init -o ~/.config/newsurl/config.yaml -f

  # Print the template instead of writing it
  newsurl init --stdout`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Path of the configuration file to write")
	cmd.Flags().BoolP("force", "f", false,
		"Replace an existing file")
	cmd.Flags().Bool("stdout", false,
		"Print the template to standard output")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	toStdout, err := flags.GetBool("stdout")
	if err != nil {
		return err
	}
	if toStdout {
		_, err := cmd.OutOrStdout().Write(configTemplate)
		return err
	}

	path, err := flags.GetString("output")
	if err != nil {
		return err
	}
	force, err := flags.GetBool("force")
	if err != nil {
		return err
	}

	if err := writeConfigTemplate(path, force); err != nil {
		return err
	}
	return describeConfig(cmd.OutOrStdout(), path)
}

// writeConfigTemplate writes the embedded template to path. An existing
// file is kept unless force is set.
func writeConfigTemplate(path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	// Cookies and auth headers may end up in this file.
	if err := os.WriteFile(path, configTemplate, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// describeConfig loads the written file back and prints what it selects.
func describeConfig(out io.Writer, path string) error {
	f, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("written configuration is unreadable: %w", err)
	}
	cfg := config.NewConfig()
	cfg.ApplyFile(f)

	fmt.Fprintf(out, "Created configuration file: %s\n\n", path)
	fmt.Fprintf(out, "  keywords: %s\n", strings.Join(cfg.Keywords, ", "))
	fmt.Fprintf(out, "  sites:    %s\n", strings.Join(cfg.Adapters, ", "))
	fmt.Fprintf(out, "  output:   %s (%s)\n", cfg.OutputDir, cfg.Mode)
	fmt.Fprintln(out, "\nRun 'newsurl sites' to see every site id, then 'newsurl scrape'.")
	return nil
}

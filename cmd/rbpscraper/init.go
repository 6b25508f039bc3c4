package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/rbpscraper/internal/config"
)

//go:embed templates/rbpscraper.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new rbpscraper configuration file",
		Long: `Initialize creates a new .rbpscraper configuration file in the current directory.

The generated file documents every option of the crawl command with its
default value. --descriptor and --url fill in the search to crawl. Cookies
can be stored in it, so it is created readable by the owner only.

Examples:
  # Create .rbpscraper in current directory
  rbpscraper init

  # Create config file at a specific path
  rbpscraper init -o myconfig.yaml

  # Prepare a crawl of one artist
  rbpscraper init -d "Jimi Hendrix" -u "https://www.rocksbackpages.com/Library/SearchResults?SearchText=hendrix&PageNumber=1"

  # Force overwrite existing file
  rbpscraper init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().StringP("descriptor", "d", "",
		"Search descriptor to write into the file")
	cmd.Flags().StringP("url", "u", "",
		"First search result page URL to write into the file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	descriptor, err := cmd.Flags().GetString("descriptor")
	if err != nil {
		return err
	}
	searchURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}
	if searchURL != "" && !strings.Contains(searchURL, "PageNumber=") {
		return config.ErrInvalidSearchURL
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/rbpscraper.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}
	content = fillTemplate(content, map[string]string{
		"descriptor": descriptor,
		"url":        searchURL,
	})

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set:")
	if descriptor == "" || searchURL == "" {
		fmt.Fprintln(out, "  - The search descriptor and URL")
	}
	fmt.Fprintln(out, "  - Browser cookies for your subscription")
	fmt.Fprintln(out, "  - Delays between requests")

	return nil
}

// fillTemplate uncomments the "# key: ..." example line of every non-empty
// value and sets it to that value.
func fillTemplate(content []byte, values map[string]string) []byte {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		for key, value := range values {
			if value != "" && strings.HasPrefix(line, "# "+key+":") {
				lines[i] = key + ": " + strconv.Quote(value)
			}
		}
	}
	return []byte(strings.Join(lines, "\n"))
}

// Package main provides the docmerge command line tool.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docmerge/go-docmerge/internal/extract"
	"github.com/docmerge/go-docmerge/pkg/docmerge"
)

var (
	// Version information (set at build time)
	version = "dev"

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// loadContext reads a data context from a JSON or YAML file.
func loadContext(path string) (docmerge.Context, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var data map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("failed to parse YAML data: %w", err)
		}
	default:
		if err := json.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("failed to parse JSON data: %w", err)
		}
	}
	return docmerge.Context(data), nil
}

// parseDelimiters parses a "open,close" flag value.
func parseDelimiters(spec string) (docmerge.Delimiters, error) {
	if spec == "" {
		return docmerge.DefaultDelimiters, nil
	}
	parts := strings.SplitN(spec, ",", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return docmerge.Delimiters{}, fmt.Errorf("invalid delimiter spec %q (expected \"open,close\")", spec)
	}
	return docmerge.Delimiters{Open: parts[0], Close: parts[1]}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "docmerge",
		Short:   "Merge data into DOCX templates",
		Long:    "docmerge fills DOCX templates: field tokens like {{name}} are replaced\nfrom a JSON or YAML data file, and {{start_x}}/{{end_x}} marker paragraphs\nrepeat their enclosed content once per entry of a list value.",
		Version: version,
	}

	var (
		output     string
		keepEmpty  bool
		strict     bool
		delimiters string
	)

	mergeCmd := &cobra.Command{
		Use:   "merge <template.docx> <data.json|data.yaml>",
		Short: "Merge a data file into a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			templatePath, dataPath := args[0], args[1]

			data, err := loadContext(dataPath)
			if err != nil {
				return err
			}
			delims, err := parseDelimiters(delimiters)
			if err != nil {
				return err
			}

			tmpl, err := docmerge.LoadFile(templatePath)
			if err != nil {
				return err
			}

			opts := &docmerge.Options{
				RemoveEmpty: !keepEmpty,
				Delimiters:  delims,
				Strict:      strict,
			}
			if err := docmerge.MergeDocument(tmpl.Document, data, opts); err != nil {
				return err
			}

			if err := tmpl.SaveFile(output); err != nil {
				return err
			}

			fmt.Println(successStyle.Render("✓ Merged " + templatePath))
			fmt.Println(dimStyle.Render("  → " + output))
			return nil
		},
	}
	mergeCmd.Flags().StringVarP(&output, "output", "o", "merged.docx", "output file path")
	mergeCmd.Flags().BoolVar(&keepEmpty, "keep-empty", false, "keep unresolved field tokens as literal text")
	mergeCmd.Flags().BoolVar(&strict, "strict", false, "fail on unresolved fields")
	mergeCmd.Flags().StringVar(&delimiters, "delimiters", "", `field delimiters as "open,close" (default "{{,}}")`)

	fieldsCmd := &cobra.Command{
		Use:   "fields <template.docx>",
		Short: "List the field names used in a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delims, err := parseDelimiters(delimiters)
			if err != nil {
				return err
			}

			tmpl, err := docmerge.LoadFile(args[0])
			if err != nil {
				return err
			}

			fields := docmerge.GetFields(tmpl.Document, delims)
			if len(fields) == 0 {
				fmt.Println(dimStyle.Render("no fields found"))
				return nil
			}
			for _, name := range fields {
				fmt.Println(name)
			}
			return nil
		},
	}
	fieldsCmd.Flags().StringVar(&delimiters, "delimiters", "", `field delimiters as "open,close" (default "{{,}}")`)

	textCmd := &cobra.Command{
		Use:   "text <file.docx>",
		Short: "Print the paragraph text of a DOCX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := extract.Text(args[0])
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}

	rootCmd.AddCommand(mergeCmd, fieldsCmd, textCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

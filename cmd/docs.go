package cmd

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootCmdHeader = `---
layout: default
title: %s
nav_order: %d
has_children: true
permalink: /
---
`

// child command without children
const childCmdHeader = `---
layout: default
title: %s
parent: %s
nav_order: %d
---
`

var docsDir string

// docsCmd regenerates the markdown docs site from the command tree.
var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate markdown documentation for the commands",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(docsDir, 0o755); err != nil {
			return err
		}
		rootCmd.DisableAutoGenTag = true
		return doc.GenMarkdownTreeCustom(rootCmd, docsDir, filePrepender, linkHandler)
	},
}

// filePrepender adds a jekyll frontmatter to each doc page.
func filePrepender(filename string) string {
	name := strings.TrimSuffix(path.Base(filename), ".md")
	title := strings.ReplaceAll(name, "_", " ")

	if name == rootCmd.Use {
		return fmt.Sprintf(rootCmdHeader, title, 1)
	}
	return fmt.Sprintf(childCmdHeader, title, rootCmd.Use, 2)
}

func linkHandler(filename string) string {
	return filepath.Base(filename)
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringVar(&docsDir, "dir", "docs", "directory to write the markdown files to")
}

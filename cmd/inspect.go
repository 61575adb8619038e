package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MinTTT/snapgene-history-exporter/internal/history"
	"github.com/MinTTT/snapgene-history-exporter/internal/snapgene"
)

var inspectNotes bool

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:     "inspect [file.dna]",
	Aliases: []string{"show", "tree"},
	Short:   "Print one file's assembly history tree and primer list",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := snapgene.Read(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  %d bp  %s %s-stranded\n", f.Name, f.Length, f.Topology, f.Stranded)
		if inspectNotes {
			if desc := f.Description(); desc != "" {
				fmt.Println(desc)
			}
		}

		if f.History == nil {
			fmt.Println("\nno assembly history recorded")
		} else {
			rec, err := history.Build(f.History, nil)
			if err != nil {
				return err
			}
			fmt.Printf("\n%s  %d bp", rec.Name, rec.SeqLength)
			if rec.Operation != "" {
				fmt.Printf("  [%s]", rec.Operation)
			}
			fmt.Println()
			for _, frag := range rec.Fragments {
				printFragment(frag, 1)
			}
		}

		if len(f.Primers) > 0 {
			fmt.Println()
			printPrimerTable(f.Primers)
		}
		return nil
	},
}

func printFragment(f *history.Fragment, depth int) {
	indent := strings.Repeat("  ", depth)

	fmt.Printf("%s%s  %d bp  %s", indent, f.Name, f.SeqLength, f.Shape)
	if f.Operation != "" {
		fmt.Printf("  [%s]", f.Operation)
	}
	fmt.Println()

	switch f.Shape {
	case history.ShapeAmplified:
		fmt.Printf("%s  template: %s\n", indent, f.Amp.Template)
		for _, p := range f.Amp.Primers {
			fmt.Printf("%s  primer: %s (%d bp annealed", indent, p.Name, p.Annealed)
			if p.Tm != nil {
				fmt.Printf(", tm %.1f", *p.Tm)
			}
			fmt.Println(")")
		}
	case history.ShapeTerminal:
		for _, o := range f.Oligos {
			fmt.Printf("%s  oligo: %s\n", indent, o.Name)
		}
	case history.ShapeComposite:
		for _, sub := range f.Fragments {
			printFragment(sub, depth+1)
		}
	}
}

// printPrimerTable writes the file-level primer list in a table
func printPrimerTable(primers []snapgene.Primer) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintf(w, "primer\tsequence\tdescription\n")
	for _, p := range primers {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Sequence, p.Description)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectNotes, "notes", false, "also print the file's description note")
}

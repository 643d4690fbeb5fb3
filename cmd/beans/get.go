package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/beans/pkg/beans/ast"
	"mercator-hq/beans/pkg/cli"
)

var getFlags struct {
	typeName string
	format   string
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a bean definition",
	Long: `Load the configured sources and show one definition, found by id or
alias, or as the single definition assignable to a type.

Examples:
  # By id or alias
  beans get dataSource

  # By type
  beans get --type DataSource

  # JSON output
  beans get dataSource --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: getDefinition,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getFlags.typeName, "type", "t", "", "find the single definition assignable to this type")
	getCmd.Flags().StringVar(&getFlags.format, "format", "text", "output format: text, json")
}

func getDefinition(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (getFlags.typeName == "") {
		return fmt.Errorf("specify either a bean id or --type")
	}
	formatter, err := cli.NewFormatter(cli.OutputFormat(getFlags.format))
	if err != nil {
		return err
	}

	a, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.manager.Load(commandContext(cmd)); err != nil {
		return err
	}

	var def *ast.Definition
	if getFlags.typeName != "" {
		def, err = a.manager.LookupSingleByAssignableType(getFlags.typeName)
	} else {
		def, err = a.manager.Get(args[0])
	}
	if err != nil {
		return err
	}

	view := viewOf(a.manager.Registry(), def)
	out := outWriter(cmd)
	if cli.OutputFormat(getFlags.format) == cli.FormatJSON {
		return formatter.FormatTo(out, view)
	}
	writeDefinition(out, view, "")
	return nil
}

// writeDefinition prints a definition as an indented tree.
func writeDefinition(w io.Writer, v DefinitionView, indent string) {
	if v.ID != "" {
		fmt.Fprintf(w, "%sid:       %s\n", indent, v.ID)
	}
	fmt.Fprintf(w, "%sclass:    %s\n", indent, v.Class)
	if len(v.Aliases) > 0 {
		fmt.Fprintf(w, "%saliases:  %s\n", indent, strings.Join(v.Aliases, ", "))
	}
	if v.Profile != "" {
		fmt.Fprintf(w, "%sprofile:  %s\n", indent, v.Profile)
	}
	if v.Location != "" {
		fmt.Fprintf(w, "%slocation: %s\n", indent, v.Location)
	}
	if len(v.Properties) == 0 {
		return
	}
	fmt.Fprintf(w, "%sproperties:\n", indent)
	for _, p := range v.Properties {
		switch {
		case p.Bean != nil:
			fmt.Fprintf(w, "%s  %s = <bean>\n", indent, p.Name)
			writeDefinition(w, *p.Bean, indent+"    ")
		case p.Kind == ast.ValueReference.String():
			fmt.Fprintf(w, "%s  %s -> %s\n", indent, p.Name, p.Value)
		default:
			fmt.Fprintf(w, "%s  %s = %q\n", indent, p.Name, p.Value)
		}
	}
}

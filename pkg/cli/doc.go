/*
Package cli provides helpers shared by the beans command.

Output formatting:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	return formatter.FormatTo(os.Stdout, result)

Tabular text output goes through NewTable, which aligns columns with
text/tabwriter.

Signal handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli

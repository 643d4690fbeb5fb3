package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	beanErrors "mercator-hq/beans/pkg/beans/errors"
	"mercator-hq/beans/pkg/beans/manager"
	"mercator-hq/beans/pkg/cli"
	"mercator-hq/beans/pkg/xmldoc"
)

var lintFlags struct {
	strict bool
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint [source...]",
	Short: "Validate bean definition files",
	Long: `Validate bean definition sources without stopping at the first problem.

Every source is loaded on its own so that all fatal errors are reported
together. When all sources load, the combined registry is checked for:
  - references to ids that no definition declares
  - definitions replaced by a later declaration in another scope

Examples:
  # Lint configured sources
  beans lint

  # Lint a directory
  beans lint conf/

  # Strict mode (warnings as errors)
  beans lint --strict

  # JSON output for CI/CD
  beans lint --format json`,
	RunE: lintDefinitions,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the outcome of linting all sources.
type LintResult struct {
	Valid       bool        `json:"valid"`
	Definitions int         `json:"definitions"`
	Errors      []LintIssue `json:"errors,omitempty"`
	Warnings    []LintIssue `json:"warnings,omitempty"`
}

// LintIssue is a single error or warning.
type LintIssue struct {
	Resource string `json:"resource,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func lintDefinitions(cmd *cobra.Command, args []string) error {
	if _, err := cli.NewFormatter(cli.OutputFormat(lintFlags.format)); err != nil {
		return err
	}

	a, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer a.Close()

	reg, err := a.manager.Check(commandContext(cmd))
	result := LintResult{Valid: err == nil}

	if err != nil {
		var list *beanErrors.ErrorList
		if errors.As(err, &list) {
			for _, e := range list.Errors {
				result.Errors = append(result.Errors, issueOf(e))
			}
		} else {
			result.Errors = append(result.Errors, issueOf(err))
		}
	} else {
		result.Definitions = reg.Count()
		result.Warnings = warningsOf(reg.UnresolvedReferences(), reg.Overrides())
	}

	if lintFlags.strict && len(result.Warnings) > 0 {
		result.Valid = false
	}

	out := outWriter(cmd)
	if cli.OutputFormat(lintFlags.format) == cli.FormatJSON {
		if err := (&cli.JSONFormatter{Indent: true}).FormatTo(out, result); err != nil {
			return err
		}
	} else {
		writeLintText(out, result)
	}

	if !result.Valid {
		return fmt.Errorf("lint failed: %d errors, %d warnings", len(result.Errors), len(result.Warnings))
	}
	return nil
}

// issueOf extracts the location and kind of a load error.
func issueOf(err error) LintIssue {
	issue := LintIssue{
		Kind:     manager.ErrorKind(err),
		Message:  err.Error(),
		Severity: "error",
	}

	var (
		loadErr  *beanErrors.LoadError
		dupID    *beanErrors.DuplicateIdentifierError
		dupProp  *beanErrors.DuplicatePropertyError
		bad      *beanErrors.MalformedElementError
		parseErr *beanErrors.ParseError
		loc      xmldoc.Location
	)
	if errors.As(err, &loadErr) {
		issue.Resource = loadErr.Resource
	}
	switch {
	case errors.As(err, &dupID):
		loc = dupID.Location
	case errors.As(err, &dupProp):
		loc = dupProp.Location
	case errors.As(err, &bad):
		loc = bad.Location
	case errors.As(err, &parseErr):
		loc = xmldoc.Location{Resource: parseErr.Resource, Line: parseErr.Line, Column: parseErr.Column}
	}
	if loc.Resource != "" {
		issue.Resource = loc.Resource
	}
	issue.Line = loc.Line
	issue.Column = loc.Column
	return issue
}

func warningsOf(unresolved map[string][]string, overrides int) []LintIssue {
	ids := make([]string, 0, len(unresolved))
	for id := range unresolved {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var warnings []LintIssue
	for _, id := range ids {
		for _, ref := range unresolved[id] {
			warnings = append(warnings, LintIssue{
				Kind:     "unresolved_reference",
				Message:  fmt.Sprintf("bean %q references unknown bean %q", id, ref),
				Severity: "warning",
			})
		}
	}
	if overrides > 0 {
		warnings = append(warnings, LintIssue{
			Kind:     "override",
			Message:  fmt.Sprintf("%d definitions replaced by a later declaration with the same id", overrides),
			Severity: "warning",
		})
	}
	return warnings
}

func writeLintText(w io.Writer, result LintResult) {
	for _, issue := range result.Errors {
		writeIssue(w, issue)
	}
	for _, issue := range result.Warnings {
		writeIssue(w, issue)
	}

	fmt.Fprintln(w)
	if result.Valid {
		fmt.Fprintf(w, "✓ %d definitions, %d warnings\n", result.Definitions, len(result.Warnings))
		return
	}
	fmt.Fprintf(w, "✗ %d errors, %d warnings\n", len(result.Errors), len(result.Warnings))
}

func writeIssue(w io.Writer, issue LintIssue) {
	switch {
	case issue.Line > 0:
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", issue.Resource, issue.Line, issue.Column, issue.Severity, issue.Message)
	case issue.Resource != "":
		fmt.Fprintf(w, "%s: %s: %s\n", issue.Resource, issue.Severity, issue.Message)
	default:
		fmt.Fprintf(w, "%s: %s\n", issue.Severity, issue.Message)
	}
}

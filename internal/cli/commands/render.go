package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"slicetrait/internal/config"
	"slicetrait/internal/diagnostic"
)

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))

	return t
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode YAML")
	}

	return enc.Close()
}

type diagnosticView struct {
	File        string   `yaml:"file,omitempty"`
	Severity    string   `yaml:"severity"`
	Code        string   `yaml:"code"`
	Entry       string   `yaml:"entry,omitempty"`
	Subject     string   `yaml:"subject,omitempty"`
	Message     string   `yaml:"message"`
	Suggestions []string `yaml:"suggestions,omitempty"`
}

func viewDiagnostics(file string, ds []diagnostic.Diagnostic) []diagnosticView {
	out := make([]diagnosticView, 0, len(ds))
	for _, d := range ds {
		out = append(out, diagnosticView{
			File:        file,
			Severity:    d.Severity.String(),
			Code:        d.Code,
			Entry:       d.Entry,
			Subject:     d.Subject,
			Message:     d.Message,
			Suggestions: d.Suggestions,
		})
	}

	return out
}

func renderDiagnostics(w io.Writer, format string, views []diagnosticView) error {
	switch format {
	case config.OutputYAML:
		return writeYAML(w, views)

	case config.OutputTable:
		t := newTable(w, "File", "Severity", "Entry", "Subject", "Code", "Message", "Suggestions")
		for _, v := range views {
			t.AppendRow(table.Row{v.File, v.Severity, v.Entry, v.Subject, v.Code, v.Message, strings.Join(v.Suggestions, ", ")})
		}

		t.Render()

		return nil

	default:
		for _, v := range views {
			line := v.Severity + ": "
			if v.File != "" {
				line += v.File + ": "
			}

			d := diagnostic.Diagnostic{Code: v.Code, Message: v.Message, Entry: v.Entry, Subject: v.Subject}
			line += d.String()

			if len(v.Suggestions) > 0 {
				line += " (did you mean " + strings.Join(v.Suggestions, ", ") + "?)"
			}

			_, _ = fmt.Fprintln(w, line)
		}

		return nil
	}
}

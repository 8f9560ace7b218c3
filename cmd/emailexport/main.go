// Command emailexport converts an HTML file into email-safe HTML.
//
//	emailexport [flags] [file]
//
// Without a file argument the input is read from stdin. The exported
// document goes to stdout and warnings to stderr. The exit code is 1 when
// the export failed and 2 on usage errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrymomot/emailkit/pkg/export"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := export.DefaultOptions()
	var textOnly, quiet bool

	fs := flag.NewFlagSet("emailexport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.InlineCSS, "inline-css", opts.InlineCSS, "move <style> rules into style attributes")
	fs.BoolVar(&opts.RemoveIncompatibleCSS, "strip-css", opts.RemoveIncompatibleCSS, "remove properties email clients ignore")
	fs.BoolVar(&opts.ConvertLayout, "convert-layout", opts.ConvertLayout, "turn layout containers into tables")
	fs.BoolVar(&opts.OutlookFixes, "outlook", opts.OutlookFixes, "add Outlook conditional markup")
	fs.BoolVar(&opts.Minify, "minify", opts.Minify, "collapse whitespace")
	fs.BoolVar(&opts.PlainText, "text", opts.PlainText, "also build the plain-text part")
	fs.BoolVar(&textOnly, "text-only", false, "print only the plain-text part")
	fs.BoolVar(&quiet, "q", false, "do not print warnings")
	fs.StringVar(&opts.Title, "title", "", "document title")
	fs.StringVar(&opts.Preheader, "preheader", "", "hidden preview text")
	fs.IntVar(&opts.Width, "width", opts.Width, "content width in pixels")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "emailexport: at most one input file")
		return 2
	}
	if textOnly {
		opts.PlainText = true
	}

	src, err := readInput(fs.Arg(0), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "emailexport: %v\n", err)
		return 1
	}

	res := export.Export(ctx, string(src), opts)
	if !quiet {
		for _, w := range res.Warnings {
			fmt.Fprintf(stderr, "%s [%s] %s\n", w.Severity, w.Type, w.Message)
		}
	}
	if res.HTML == "" {
		return 1
	}

	out := res.HTML
	if textOnly {
		out = res.Text
	}
	if _, err := io.WriteString(stdout, out); err != nil {
		fmt.Fprintf(stderr, "emailexport: %v\n", err)
		return 1
	}
	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

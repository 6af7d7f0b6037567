package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"jscore/pkg/config"
	"jscore/pkg/errors"
	"jscore/pkg/jsonbridge"
	"jscore/pkg/realm"
)

func main() {
	configFlag := flag.String("config", "", "YAML file with runtime options")
	exprFlag := flag.String("e", "", "Evaluate a single REPL line and exit")
	formatFlag := flag.Bool("format", false, "Reformat a JSON document (file argument or stdin)")
	compactFlag := flag.Bool("compact", false, "With -format, write JSON without indentation")
	strictFlag := flag.Bool("strict", false, "Evaluate REPL input as strict code")

	flag.Parse()

	opts, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %s\n", err)
		os.Exit(64) // Exit code 64: command line usage error
	}
	if *strictFlag {
		opts.Strict = true
	}

	if *formatFlag {
		if flag.NArg() > 1 {
			fmt.Fprintf(os.Stderr, "Usage: jscore -format [file.json]\n")
			os.Exit(64)
		}
		indent := opts.Indent
		if *compactFlag {
			indent = ""
		}
		if err := formatJSON(flag.Arg(0), indent, os.Stdout); err != nil {
			errors.Display(os.Stderr, err)
			os.Exit(70) // Exit code 70: internal software error
		}
		return
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Usage: jscore [-config file] [-e line] or jscore -format [file.json]\n")
		os.Exit(64)
	}

	r, err := realm.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create realm: %s\n", err)
		os.Exit(70)
	}
	s := newSession(r)

	if *exprFlag != "" {
		out, err := s.eval(*exprFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, s.report(err))
			os.Exit(70)
		}
		if out != "" {
			fmt.Println(out)
		}
		return
	}

	runRepl(s)
}

// formatJSON reads a JSON document from path (stdin when empty) and writes it
// back with the given indentation. Input may carry a UTF-8 or UTF-16 BOM.
func formatJSON(path string, indent string, w io.Writer) error {
	var in io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", path, err)
		}
		defer f.Close()
		in = f
	}
	text, err := readText(in)
	if err != nil {
		return err
	}
	tree, err := jsonbridge.Decode(text)
	if err != nil {
		return err
	}
	out, err := jsonbridge.Encode(tree, indent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// readText decodes r as UTF-8 unless a byte order mark says otherwise.
func readText(r io.Reader) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", fmt.Errorf("failed to decode input: %w", err)
	}
	return string(data), nil
}

// goserde is a command-line front end for the serialization engine:
//
//	goserde fmt        reformat a JSON document (optionally from a relaxed grammar)
//	goserde validate   check documents and report every issue with its JSON Pointer
//	goserde convert    turn a YAML document into JSON
//
// Each command reads from the named file or, with no argument, from stdin.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/goserde/goserde"
	"github.com/goserde/goserde/source/yamlsrc"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "fmt":
		return runFmt(rest)
	case "validate":
		return runValidate(rest)
	case "convert":
		return runConvert(rest)
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		return fmt.Errorf("unknown command %q (expected fmt, validate, or convert)", cmd)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: goserde <fmt|validate|convert> [flags] [file]")
}

// grammarFlags registers the input-grammar switches shared by the commands.
func grammarFlags(fs *pflag.FlagSet, cfg *goserde.Config) {
	fs.BoolVar(&cfg.Lenient, "lenient", false, "accept unquoted strings and relaxed literals")
	fs.BoolVar(&cfg.AllowComments, "comments", false, "skip // and /* */ comments")
	fs.BoolVar(&cfg.AllowTrailingComma, "trailing-comma", false, "tolerate a comma before ']' or '}'")
	fs.BoolVar(&cfg.AllowSpecialFloats, "special-floats", false, "accept NaN and Infinity")
	fs.BoolVar(&cfg.RejectDuplicateKeys, "reject-duplicates", false, "fail on repeated object keys")
	fs.IntVar(&cfg.MaxDepth, "max-depth", 0, "maximum nesting depth (0 = unbounded)")
	fs.Int64Var(&cfg.MaxBytes, "max-bytes", 0, "maximum input size in bytes (0 = unbounded)")
}

func readInput(args []string) ([]byte, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("expected at most one input file, got %d", len(args))
	}
	if len(args) == 1 && args[0] != "-" {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}

func runFmt(args []string) error {
	cfg := goserde.DefaultConfig()
	fs := pflag.NewFlagSet("goserde fmt", pflag.ContinueOnError)
	grammarFlags(fs, &cfg)
	fs.BoolVar(&cfg.PrettyPrint, "pretty", false, "indent the output")
	fs.StringVar(&cfg.Indent, "indent", cfg.Indent, "indent unit used with --pretty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := readInput(fs.Args())
	if err != nil {
		return err
	}
	v, err := goserde.ParseValue(data, cfg)
	if err != nil {
		return err
	}
	out, err := goserde.WriteValue(v, cfg)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runValidate(args []string) error {
	cfg := goserde.DefaultConfig()
	fs := pflag.NewFlagSet("goserde validate", pflag.ContinueOnError)
	grammarFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := readInput(fs.Args())
	if err != nil {
		return err
	}
	if _, err := goserde.ParseValue(data, cfg); err != nil {
		if iss, ok := goserde.AsIssues(err); ok {
			for _, it := range iss {
				path := it.Path
				if path == "" {
					path = "/"
				}
				if it.Offset >= 0 {
					fmt.Printf("%s at %s (byte %d): %s\n", it.Code, path, it.Offset, it.Message)
				} else {
					fmt.Printf("%s at %s: %s\n", it.Code, path, it.Message)
				}
			}
			return fmt.Errorf("%d issue(s)", len(iss))
		}
		return err
	}
	fmt.Println("ok")
	return nil
}

func runConvert(args []string) error {
	cfg := goserde.DefaultConfig()
	fs := pflag.NewFlagSet("goserde convert", pflag.ContinueOnError)
	fs.BoolVar(&cfg.PrettyPrint, "pretty", false, "indent the output")
	fs.StringVar(&cfg.Indent, "indent", cfg.Indent, "indent unit used with --pretty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := readInput(fs.Args())
	if err != nil {
		return err
	}
	v, err := yamlsrc.ParseValue(data, cfg)
	if err != nil {
		return err
	}
	out, err := goserde.WriteValue(v, cfg)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

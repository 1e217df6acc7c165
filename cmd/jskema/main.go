package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/i18n"
	"github.com/reoring/jskema/importer"
	js "github.com/reoring/jskema/jsonschema"
	"github.com/reoring/jskema/source/gojson"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "validate":
		os.Exit(validateCmd(os.Args[2:], os.Stdin, os.Stdout))
	case "export":
		os.Exit(exportCmd(os.Args[2:], os.Stdout))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "jskema CLI\n\nUsage:\n  jskema validate -schema schema.(json|yaml) [-data file.json] [-driver encoding/json|go-json] [-dup ignore|warn|error] [-max-depth N] [-max-bytes N] [-lang en|ja] [-v]\n  jskema export -schema schema.(json|yaml) [-format json|yaml]\n\nNotes:\n  - validate reads the instance from stdin when -data is omitted or \"-\".\n  - Exit status: 0 valid, 1 invalid, 2 usage or I/O error.")
}

func validateCmd(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	var (
		schemaPath string
		dataPath   string
		driver     string
		dup        string
		maxDepth   int
		maxBytes   int64
		lang       string
		verbose    bool
	)
	fs.StringVar(&schemaPath, "schema", "", "schema document (JSON or YAML)")
	fs.StringVar(&dataPath, "data", "-", "JSON instance to validate; - for stdin")
	fs.StringVar(&driver, "driver", "encoding/json", "JSON driver: encoding/json or go-json")
	fs.StringVar(&dup, "dup", "warn", "duplicate key handling: ignore, warn or error")
	fs.IntVar(&maxDepth, "max-depth", 0, "maximum nesting depth (0 = unlimited)")
	fs.Int64Var(&maxBytes, "max-bytes", 0, "maximum input size in bytes (0 = unlimited)")
	fs.StringVar(&lang, "lang", "en", "message language: en or ja")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if schemaPath == "" {
		fs.Usage()
		return 2
	}
	logf := func(format string, a ...any) {
		if verbose {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}

	i18n.SetLanguage(lang)
	switch driver {
	case "go-json":
		jskema.SetJSONDriver(gojson.Driver())
	case "encoding/json", "":
		jskema.UseDefaultJSONDriver()
	default:
		return failf("unknown driver %q", driver)
	}
	sev, ok := severities[dup]
	if !ok {
		return failf("unknown -dup value %q", dup)
	}

	n, err := loadSchema(schemaPath, logf)
	if err != nil {
		return failf("%v", err)
	}
	data, err := readInput(dataPath, stdin, maxBytes)
	if err != nil {
		return failf("%v", err)
	}
	logf("validate: schema=%s data=%s driver=%s bytes=%d", schemaPath, dataPath, jskema.CurrentJSONDriver().Name(), len(data))

	var res jskema.Result
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		res = jskema.Invalid(jskema.RootPath().Issue(jskema.CodeTruncated, "", "detail", "max bytes exceeded"))
	} else {
		opt := jskema.ParseOpt{Strictness: jskema.Strictness{OnDuplicateKey: sev}, MaxDepth: maxDepth}
		v, warnings, err := jskema.DecodeFrom(context.Background(), jskema.JSONBytes(data), opt)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if iss, ok := jskema.AsIssues(err); ok {
			res = jskema.Invalid(iss...)
		} else if err != nil {
			return failf("decode: %v", err)
		} else {
			res = jskema.Validate(n, v)
		}
	}

	if res.IsValid() {
		fmt.Fprintln(stdout, "valid")
		return 0
	}
	for _, it := range res.Errors() {
		fmt.Fprintf(stdout, "%s: %s: %s\n", it.Path, it.Code, it.Message)
	}
	return 1
}

var severities = map[string]jskema.Severity{
	"ignore": jskema.Ignore,
	"warn":   jskema.Warn,
	"error":  jskema.Error,
}

func exportCmd(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	var schemaPath, format string
	fs.StringVar(&schemaPath, "schema", "", "schema document (JSON or YAML)")
	fs.StringVar(&format, "format", "json", "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if schemaPath == "" {
		fs.Usage()
		return 2
	}
	n, err := loadSchema(schemaPath, func(string, ...any) {})
	if err != nil {
		return failf("%v", err)
	}
	var out []byte
	switch format {
	case "json":
		out, err = js.MarshalIndent(n.JSONSchema(), "", "  ")
	case "yaml":
		out, err = jskema.DocumentYAML(n)
	default:
		return failf("unknown format %q", format)
	}
	if err != nil {
		return failf("export: %v", err)
	}
	_, _ = stdout.Write(out)
	if format == "json" {
		fmt.Fprintln(stdout)
	}
	return 0
}

// loadSchema imports a schema file, choosing YAML by extension.
func loadSchema(path string, logf func(string, ...any)) (jskema.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	var (
		n    jskema.Node
		diag importer.Diag
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		n, diag, err = importer.ImportYAML(raw, importer.Options{})
	default:
		n, diag, err = importer.Import(raw, importer.Options{})
	}
	if err != nil {
		return nil, fmt.Errorf("importing schema: %w", err)
	}
	for _, w := range diag.Warnings() {
		logf("schema: %s", w)
	}
	return n, nil
}

func readInput(path string, stdin io.Reader, maxBytes int64) ([]byte, error) {
	r := stdin
	if path != "-" && path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading data: %w", err)
		}
		defer f.Close()
		r = f
	}
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	return data, nil
}

func failf(format string, a ...any) int {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	return 2
}

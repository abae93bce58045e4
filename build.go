package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/pencil-lang/pencilc/lib/analyzer"
	"github.com/pencil-lang/pencilc/lib/compiler"
	"github.com/pencil-lang/pencilc/lib/diag"
	"github.com/pencil-lang/pencilc/lib/lexer"
	"github.com/pencil-lang/pencilc/lib/parser"
	"github.com/pencil-lang/pencilc/lib/project"
)

func init() {
	buildFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "The path to the config file",
			Aliases: []string{"c"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "The name for the generated file",
		},
		&cli.StringFlag{
			Name:    "input-str",
			Aliases: []string{"s"},
			Usage:   "Compile a string instead of a file",
		},
		&cli.BoolFlag{
			Name:  "html",
			Usage: "Wrap the generated script in an HTML page with a canvas",
		},
		&cli.BoolFlag{
			Name:    "dump-ast",
			Aliases: []string{"d"},
			Usage:   "Dump the AST to a file",
		},
		&cli.BoolFlag{
			Name:    "only-parse",
			Aliases: []string{"p"},
			Usage:   "Only parse the file and dump the AST to stdout",
		},
	}

	commands = append(commands, &cli.Command{
		Name:      "build",
		Usage:     "Build a Pencil file",
		Category:  "compile",
		ArgsUsage: "[file]",
		Flags:     buildFlags,
		Action:    build,
	}, &cli.Command{
		Name:      "run",
		Usage:     "Build a Pencil file and open the result in a browser",
		Category:  "compile",
		ArgsUsage: "[file]",
		Flags:     buildFlags,
		Action:    run,
	}, &cli.Command{
		Name:      "check",
		Usage:     "Parse and analyze a Pencil file without generating output",
		Category:  "compile",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "The path to the config file",
				Aliases: []string{"c"},
			},
		},
		Action: check,
	})
}

// source holds one resolved compilation input plus the project config it
// came from, if any.
type source struct {
	name string
	text string
	conf *project.PencilConf
}

// resolveSource finds what to compile: an explicit string, a file argument,
// or the main file named by the project config.
func resolveSource(c *cli.Context) (source, error) {
	if s := c.String("input-str"); s != "" {
		return source{name: "input", text: s}, nil
	}

	filename := c.Args().First()
	if filename == "" {
		confDir := "."
		if cfg := c.String("config"); cfg != "" {
			confDir = strings.TrimSuffix(cfg, project.ConfFileName)
		}

		conf, err := project.GetConf(confDir)
		if err != nil {
			return source{}, cli.Exit(color.RedString("Error: no file specified and no %s found", project.ConfFileName), 1)
		}
		filename = filepath.Join(confDir, conf.Main)
		text, err := os.ReadFile(filename)
		if err != nil {
			return source{}, cli.Exit(color.RedString("Error reading %s: %s", filename, err), 1)
		}
		return source{name: filename, text: string(text), conf: &conf}, nil
	}

	text, err := os.ReadFile(filename)
	if err != nil {
		return source{}, cli.Exit(color.RedString("Error reading %s: %s", filename, err), 1)
	}
	return source{name: filename, text: string(text)}, nil
}

func build(c *cli.Context) error {
	_, err := buildTo(c, c.Bool("html"))
	return err
}

// buildTo compiles the resolved source and writes the result, returning the
// output path for callers that open it afterwards.
func buildTo(c *cli.Context, html bool) (string, error) {
	src, err := resolveSource(c)
	if err != nil {
		return "", err
	}

	toks := lexer.Tokenize(src.text)
	prog, syntax := parser.Parse(toks)

	if c.Bool("only-parse") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(prog); err != nil {
			return "", cli.Exit(color.RedString("Error encoding AST: %s", err), 1)
		}
		return "", nil
	}

	if c.Bool("dump-ast") {
		astFile, err := os.Create("ast_dump.json")
		if err != nil {
			return "", cli.Exit(color.RedString("Error creating AST dump file: %s", err), 1)
		}
		defer astFile.Close()

		encoder := json.NewEncoder(astFile)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(prog); err != nil {
			return "", cli.Exit(color.RedString("Error encoding AST: %s", err), 1)
		}
	}

	if len(syntax) > 0 {
		printDiags(syntax)
		return "", cli.Exit(color.RedString("%s: build failed with %d syntax error(s)", src.name, len(syntax)), 1)
	}

	if semantic := analyzer.Analyze(prog); len(semantic) > 0 {
		printDiags(semantic)
		return "", cli.Exit(color.RedString("%s: build failed with %d semantic error(s)", src.name, len(semantic)), 1)
	}

	output := compiler.Generate(prog)

	outpath := c.String("output")
	if outpath == "" {
		if src.conf != nil && src.conf.Output != "" {
			outpath = src.conf.Output
		} else {
			outpath = strings.TrimSuffix(src.name, ".pncl") + ".js"
		}
	}

	if html {
		output = htmlHarness(src, output)
		if strings.HasSuffix(outpath, ".js") {
			outpath = strings.TrimSuffix(outpath, ".js") + ".html"
		}
	}

	if dir := filepath.Dir(outpath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", cli.Exit(color.RedString("Error creating output directory: %s", err), 1)
		}
	}

	if err := os.WriteFile(outpath, []byte(output), 0644); err != nil {
		return "", cli.Exit(color.RedString("Error writing %s: %s", outpath, err), 1)
	}

	return outpath, nil
}

func run(c *cli.Context) error {
	page, err := buildTo(c, true)
	if err != nil {
		return err
	}
	if page == "" {
		// only-parse writes to stdout, nothing to open.
		return nil
	}

	if !strings.Contains(page, "/") {
		page = "./" + page
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", page)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", page)
	default:
		cmd = exec.Command("xdg-open", page)
	}

	if err := cmd.Run(); err != nil {
		return cli.Exit(color.RedString("Error opening %s: %s", page, err), 1)
	}

	return nil
}

func check(c *cli.Context) error {
	src, err := resolveSource(c)
	if err != nil {
		return err
	}

	res := compiler.Check(src.text)
	if len(res.Diagnostics) > 0 {
		printDiags(res.Diagnostics)
		return cli.Exit(color.RedString("%s: %d problem(s) found", src.name, len(res.Diagnostics)), 1)
	}

	color.Green("%s: no problems found", src.name)
	return nil
}

func printDiags(diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, diag.Render(d))
	}
}

// htmlHarness wraps script in a page holding the canvas the generated code
// draws on. Canvas dimensions come from the project config when one exists.
func htmlHarness(src source, script string) string {
	title := strings.TrimSuffix(filepath.Base(src.name), ".pncl")
	width, height := 800, 600
	if src.conf != nil && src.conf.Canvas.Width > 0 && src.conf.Canvas.Height > 0 {
		width = src.conf.Canvas.Width
		height = src.conf.Canvas.Height
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<canvas id=\"canvas\" width=\"%d\" height=\"%d\"></canvas>\n", width, height)
	b.WriteString("<script>\n")
	b.WriteString(script)
	b.WriteString("</script>\n</body>\n</html>\n")
	return b.String()
}

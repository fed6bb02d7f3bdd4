// Command vibefun-debug is a line-at-a-time REPL that parses a typed
// snippet, runs it through Desugar -> Infer and prints the resulting Core
// AST and inferred type (§11.3). Load and Resolve are not run: a snippet
// has no imports. It is ambient developer
// tooling, not one of the front end's exported packages, and its mini
// parser (parser.go) understands only a small debug grammar, not the
// real Vibefun surface syntax.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"gopkg.in/yaml.v3"

	"github.com/mbcrawfo/vibefun-sub013/internal/core"
	"github.com/mbcrawfo/vibefun-sub013/internal/desugar"
	"github.com/mbcrawfo/vibefun-sub013/internal/exhaustive"
	"github.com/mbcrawfo/vibefun-sub013/internal/types"
)

var (
	cyan = color.New(color.FgCyan).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
	red  = color.New(color.FgRed).SprintFunc()
)

// rcConfig holds optional display preferences loaded from
// ~/.vibefun-debug.yaml — a small yaml-backed settings file, the same
// shape a project's vibefun.json plays for the compiler proper, just for
// this tool's own prompt/history preferences.
type rcConfig struct {
	Prompt     string `yaml:"prompt"`
	NoColor    bool   `yaml:"noColor"`
	HistoryDir string `yaml:"historyDir"`
}

func loadRC() rcConfig {
	rc := rcConfig{Prompt: "vibefun> "}
	home, err := os.UserHomeDir()
	if err != nil {
		return rc
	}
	data, err := os.ReadFile(filepath.Join(home, ".vibefun-debug.yaml"))
	if err != nil {
		return rc
	}
	_ = yaml.Unmarshal(data, &rc)
	if rc.Prompt == "" {
		rc.Prompt = "vibefun> "
	}
	return rc
}

func main() {
	rc := loadRC()
	if rc.NoColor {
		color.NoColor = true
	}

	historyDir := rc.HistoryDir
	if historyDir == "" {
		historyDir = os.TempDir()
	}
	historyPath := filepath.Join(historyDir, ".vibefun_debug_history")

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)
	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Println(cyan("vibefun-debug"), dim("— type a `let name = expr` or a bare expr, Ctrl-D to quit"))

	parser := miniParser{}
	desugarer := desugar.New()
	checker := types.NewChecker()
	checker.Exhaustive = exhaustive.Check

	for {
		input, err := line.Prompt(rc.Prompt)
		if err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red("error:"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		runSnippet(parser, desugarer, checker, input)
	}

	if f, err := os.Create(historyPath); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func runSnippet(parser miniParser, desugarer *desugar.Desugarer, checker *types.Checker, input string) {
	mod, errs := parser.Parse("<debug>", []byte(input))
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, red("parse error:"), errs[0])
		return
	}

	prog, desugarDiags := desugarer.Desugar(mod)
	for _, d := range desugarDiags.All() {
		fmt.Fprintln(os.Stderr, red(d.Code)+":", d.Message)
	}

	// The checker's collector is session-global (one Checker spans the
	// whole REPL session, the same way one Checker spans a whole
	// compilation per §5); only report what this snippet added.
	before := len(checker.Diagnostics().All())

	// The mini grammar only ever produces one Binding or one bare Expr per
	// snippet, never both — branch so a bare expression is inferred
	// exactly once (Check's own Exprs loop would otherwise re-infer it a
	// second time, double-reporting anything it warns about).
	switch {
	case len(prog.Bindings) > 0:
		checker.Check(prog)
		for _, b := range prog.Bindings {
			fmt.Println(dim("core:"), coreString(b.Value))
			if scheme, ok := checker.LookupScheme(b.Name); ok {
				fmt.Printf("%s : %s\n", b.Name, scheme)
			}
		}
	default:
		for _, e := range prog.Exprs {
			fmt.Println(dim("core:"), coreString(e.Value))
			fmt.Printf("it : %s\n", checker.InferExpr(e.Value))
		}
	}

	for _, d := range checker.Diagnostics().All()[before:] {
		fmt.Fprintln(os.Stderr, red(d.Code)+":", d.Message)
	}
}

func coreString(e core.Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

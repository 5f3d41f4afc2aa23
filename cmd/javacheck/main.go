package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"javacheck/pkg/ast"
	"javacheck/pkg/driver"
	"javacheck/pkg/typechecker"
	"javacheck/pkg/types"
)

const cliToolVersion = "javacheck 0.0.0-dev"

var errCasesFailed = errors.New("one or more cases failed")

type cli struct {
	LogLevel  string `help:"Log level (${enum})." enum:"debug,info,warn,error" default:"warn" env:"JAVACHECK_LOG_LEVEL"`
	LogFormat string `help:"Log format (${enum})." enum:"logfmt,json" default:"logfmt" env:"JAVACHECK_LOG_FORMAT"`

	Check   checkCmd   `cmd:"" help:"Type-check every case in one or more program files."`
	Types   typesCmd   `cmd:"" help:"List the classes declared by a program file."`
	Version versionCmd `cmd:"" help:"Print the version and exit."`
}

// runEnv is bound into every command's Run method.
type runEnv struct {
	stdout io.Writer
	logger log.Logger
}

type exitCode int

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	var c cli
	parser, err := kong.New(&c,
		kong.Name("javacheck"),
		kong.Description("Static type checker for Java-like expression trees."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(stderr, "javacheck: %v\n", err)
		return 1
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "javacheck: %v\n", err)
		return 1
	}

	env := &runEnv{stdout: stdout, logger: newLogger(stderr, c.LogFormat, c.LogLevel)}
	if err := ctx.Run(env); err != nil {
		if !errors.Is(err, errCasesFailed) {
			level.Error(env.logger).Log("msg", "command failed", "cmd", ctx.Command(), "err", err)
		}
		return 1
	}
	return 0
}

func newLogger(w io.Writer, format, lvl string) log.Logger {
	var logger log.Logger
	if format == "json" {
		logger = log.NewJSONLogger(log.NewSyncWriter(w))
	} else {
		logger = log.NewLogfmtLogger(log.NewSyncWriter(w))
	}
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	var allow level.Option
	switch lvl {
	case "debug":
		allow = level.AllowDebug()
	case "info":
		allow = level.AllowInfo()
	case "error":
		allow = level.AllowError()
	default:
		allow = level.AllowWarn()
	}
	return level.NewFilter(logger, allow)
}

type checkCmd struct {
	Programs       []string `arg:"" name:"program" help:"Program files (.yml) to check. A file that fails to load is reported as a failure and the rest are still checked."`
	Format         string   `help:"Output format (${enum})." enum:"text,json" default:"text"`
	CheckReceivers bool     `help:"Also validate the receiver subtree of every method call."`
}

type caseReport struct {
	Program    string   `json:"program"`
	Name       string   `json:"name"`
	Line       int      `json:"line"`
	Expr       string   `json:"expr"`
	Type       string   `json:"type,omitempty"`
	Kind       string   `json:"kind"`
	Error      string   `json:"error,omitempty"`
	Passed     bool     `json:"passed"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// kindLoadError marks a report entry for a program file that could not be loaded.
const kindLoadError = "LoadError"

type checkReport struct {
	Cases  []caseReport `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
}

func (cmd *checkCmd) Run(env *runEnv) error {
	checker := typechecker.New(typechecker.WithReceiverChecks(cmd.CheckReceivers))
	report := checkReport{Cases: []caseReport{}}

	for _, path := range cmd.Programs {
		level.Debug(env.logger).Log("msg", "loading program", "path", path)
		program, err := driver.LoadProgram(path, env.logger)
		if err != nil {
			level.Error(env.logger).Log("msg", "failed to load program", "path", path, "err", err)
			report.Cases = append(report.Cases, caseReport{
				Program: filepath.Base(path),
				Name:    "load",
				Kind:    kindLoadError,
				Error:   err.Error(),
			})
			report.Failed++
			continue
		}
		for _, res := range driver.Run(checker, program) {
			cr := caseReport{
				Program:    filepath.Base(program.Path),
				Name:       res.Case.Name,
				Line:       res.Case.Line,
				Expr:       ast.String(res.Case.Expr),
				Kind:       string(res.Kind),
				Passed:     res.Passed(),
				Mismatches: res.Mismatches,
			}
			if res.Err != nil {
				cr.Error = res.Err.Error()
			} else {
				cr.Type = types.Name(res.Type)
			}
			if cr.Passed {
				report.Passed++
			} else {
				report.Failed++
			}
			report.Cases = append(report.Cases, cr)
		}
		level.Info(env.logger).Log("msg", "checked program", "path", program.Path, "cases", len(program.Cases))
	}

	var err error
	if cmd.Format == "json" {
		err = writeJSONReport(env.stdout, report)
	} else {
		err = writeTextReport(env.stdout, report)
	}
	if err != nil {
		return errors.Wrap(err, "write report")
	}
	if report.Failed > 0 {
		return errCasesFailed
	}
	return nil
}

func writeJSONReport(w io.Writer, report checkReport) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeTextReport(w io.Writer, report checkReport) error {
	var b strings.Builder
	for _, cr := range report.Cases {
		if cr.Kind == kindLoadError {
			fmt.Fprintf(&b, "FAIL %s load\n    %s\n", cr.Program, strings.ReplaceAll(cr.Error, "\n", "\n    "))
			continue
		}
		status := "PASS"
		if !cr.Passed {
			status = "FAIL"
		}
		outcome := cr.Type
		if cr.Error != "" {
			outcome = cr.Kind + ": " + cr.Error
		}
		fmt.Fprintf(&b, "%s %s:%d %s\n    %s => %s\n", status, cr.Program, cr.Line, cr.Name, cr.Expr, outcome)
		for _, m := range cr.Mismatches {
			fmt.Fprintf(&b, "    %s\n", m)
		}
	}
	fmt.Fprintf(&b, "%d passed, %d failed\n", report.Passed, report.Failed)
	_, err := io.WriteString(w, b.String())
	return err
}

type typesCmd struct {
	Program string `arg:"" name:"program" help:"Program file (.yml) whose classes to list."`
}

func (cmd *typesCmd) Run(env *runEnv) error {
	program, err := driver.LoadProgram(cmd.Program, env.logger)
	if err != nil {
		return errors.Wrap(err, "load")
	}
	var b strings.Builder
	for _, class := range program.Registry.Classes() {
		b.WriteString("class ")
		b.WriteString(class.Name())
		if super := class.Supertype(); super != nil {
			b.WriteString(" extends ")
			b.WriteString(super.Name())
		}
		b.WriteByte('\n')
		if ctor := class.Constructor(); ctor != nil {
			fmt.Fprintf(&b, "  new %s%s\n", class.Name(), types.Names(ctor.ArgumentTypes))
		}
		for _, m := range class.DeclaredMethods() {
			fmt.Fprintf(&b, "  %s%s %s\n", m.Name, types.Names(m.ArgumentTypes), types.Name(m.ReturnType))
		}
	}
	_, err = io.WriteString(env.stdout, b.String())
	return err
}

type versionCmd struct{}

func (versionCmd) Run(env *runEnv) error {
	_, err := fmt.Fprintln(env.stdout, cliToolVersion)
	return err
}

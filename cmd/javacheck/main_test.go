package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var animalsProgram = filepath.Join("..", "..", "pkg", "driver", "testdata", "animals.yml")

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeProgram(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, cliToolVersion+"\n", stdout)
}

func TestHelpExitsCleanly(t *testing.T) {
	code, stdout, _ := runCLI(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "check")
	assert.Contains(t, stdout, "types")
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "javacheck:")
}

func TestCheckTextReport(t *testing.T) {
	code, stdout, stderr := runCLI(t, "check", animalsProgram)
	require.Equal(t, 0, code, "stderr: %s", stderr)

	assert.Contains(t, stdout, "PASS animals.yml:29 variable type\n    n => int\n")
	assert.Contains(t, stdout, "null.toString() => NoSuchMethod: Cannot invoke method toString() on null")
	assert.Contains(t, stdout, "new Dog().fetch(null).legs() => int")
	assert.True(t, strings.HasSuffix(stdout, "9 passed, 0 failed\n"), stdout)
	assert.NotContains(t, stdout, "FAIL")
}

func TestCheckJSONReport(t *testing.T) {
	code, stdout, _ := runCLI(t, "check", "--format=json", animalsProgram)
	require.Equal(t, 0, code)

	var report checkReport
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 9, report.Passed)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Cases, 9)

	first := report.Cases[0]
	assert.Equal(t, "variable type", first.Name)
	assert.Equal(t, "int", first.Type)
	assert.Equal(t, "none", first.Kind)
	assert.Empty(t, first.Error)

	rock := report.Cases[8]
	assert.Equal(t, "JavaTypeError", rock.Kind)
	assert.Equal(t, "Type Rock is not instantiable", rock.Error)
	assert.Empty(t, rock.Type)
}

func TestCheckFailingCaseExitsNonZero(t *testing.T) {
	path := writeProgram(t, `
classes:
  - {name: A, constructor: []}
cases:
  - name: wrong expectation
    expr: {new: {type: A}}
    expect: {type: int}
`)
	code, stdout, stderr := runCLI(t, "check", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "FAIL program.yml:6 wrong expectation")
	assert.Contains(t, stdout, "expected type int, got A")
	assert.Contains(t, stdout, "0 passed, 1 failed")
	assert.Empty(t, stderr)
}

func TestCheckReceiversFlag(t *testing.T) {
	path := writeProgram(t, `
classes:
  - name: A
    constructor: []
    methods:
      - {name: self, returns: A}
cases:
  - name: bad receiver subtree
    expr:
      call:
        receiver: {new: {type: A, args: [{literal: "1", type: int}]}}
        method: self
`)
	code, stdout, _ := runCLI(t, "check", path)
	assert.Equal(t, 0, code, stdout)

	code, stdout, _ = runCLI(t, "check", "--check-receivers", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Wrong number of arguments for A constructor: expected 0, got 1")
}

func TestCheckLoadFailureIsLogged(t *testing.T) {
	path := writeProgram(t, "classes:\n  - {name: A, extends: Missing}\n")
	code, stdout, stderr := runCLI(t, "check", "--log-format=json", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "FAIL program.yml load\n")
	assert.Contains(t, stdout, "0 passed, 1 failed")
	assert.Contains(t, stderr, `"level":"error"`)
	assert.Contains(t, stderr, "unknown superclass")
}

func TestCheckContinuesPastLoadFailure(t *testing.T) {
	broken := writeProgram(t, "cases: [\n")
	code, stdout, _ := runCLI(t, "check", broken, animalsProgram)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "FAIL program.yml load")
	assert.Contains(t, stdout, "PASS animals.yml:29 variable type")
	assert.True(t, strings.HasSuffix(stdout, "9 passed, 1 failed\n"), stdout)

	code, stdout, _ = runCLI(t, "check", "--format=json", animalsProgram, broken)
	assert.Equal(t, 1, code)
	var report checkReport
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Cases, 10)
	last := report.Cases[9]
	assert.Equal(t, kindLoadError, last.Kind)
	assert.False(t, last.Passed)
	assert.NotEmpty(t, last.Error)
	assert.Equal(t, 9, report.Passed)
	assert.Equal(t, 1, report.Failed)
}

func TestCheckDebugLogging(t *testing.T) {
	code, _, stderr := runCLI(t, "--log-level=debug", "check", animalsProgram)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "level=debug")
	assert.Contains(t, stderr, `msg="loading program"`)
	assert.Contains(t, stderr, `msg="checked program"`)
}

func TestTypesListing(t *testing.T) {
	code, stdout, stderr := runCLI(t, "types", animalsProgram)
	require.Equal(t, 0, code, stderr)

	want := strings.Join([]string{
		"class Object",
		"  new Object()",
		"class Animal extends Object",
		"  new Animal()",
		"  speak() void",
		"  legs() int",
		"class Dog extends Animal",
		"  new Dog()",
		"  fetch(Animal) Dog",
		"class Puppy extends Dog",
		"  new Puppy(int)",
		"class Kennel extends Object",
		"  new Kennel(Animal)",
		"  admit(Animal, int) void",
		"  weigh(double) double",
		"class Rock extends Object",
		"",
	}, "\n")
	assert.Equal(t, want, stdout)
}

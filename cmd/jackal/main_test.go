package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/jackal/jack/parser"
)

const squareClass = `class Square {
    field int x, y;

    method void moveRight() {
        if (x < 510) {
            let x = x + 2;
        }
        return;
    }
}
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestRootAnalyzesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "Square.jack", squareClass)
	writeSource(t, dir, "Main.jack", "class Main { function void main() { return; } }")

	out, err := run(t, "", dir)
	if err != nil {
		t.Fatalf("jackal %s: %v", dir, err)
	}

	for _, name := range []string{"Main.xml", "Square.xml"} {
		path := filepath.Join(dir, name)
		if !strings.Contains(out, path) {
			t.Errorf("output does not list %s:\n%s", path, out)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "<class>\n") {
			t.Errorf("%s does not start with <class>", name)
		}
	}

	data, _ := os.ReadFile(filepath.Join(dir, "Square.xml"))
	if !strings.Contains(string(data), "<symbol>&lt;</symbol>") {
		t.Error("Square.xml should contain the escaped < symbol")
	}
}

func TestAnalyzeFlags(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Square.jack", squareClass)

	if _, err := run(t, "", "analyze", "--format", "json", "--tokens", src); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, name := range []string{"Square.json", "SquareT.xml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "Square.xml")); !os.IsNotExist(err) {
		t.Error("Square.xml should not be written for --format json")
	}

	if _, err := run(t, "", "analyze", "--format", "html", src); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("--format html: err = %v", err)
	}
}

func TestAnalyzeUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Square.jack", squareClass)
	writeSource(t, dir, "jackal.toml", "[output]\nformat = \"tree\"\nextension = \".tree\"\n")

	if _, err := run(t, "", src); err != nil {
		t.Fatalf("jackal: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "Square.tree"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "class\n  keyword class\n") {
		t.Errorf("unexpected tree output:\n%s", data)
	}

	other := writeSource(t, t.TempDir(), "other.toml", "[output]\nformat = \"yaml\"\n")
	if _, err := run(t, "", "--config", other, src); err != nil {
		t.Fatalf("jackal --config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Square.yaml")); err != nil {
		t.Errorf("--config was not applied: %v", err)
	}
}

func TestAnalyzeSyntaxError(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Bad.jack", "class Bad {\n  method void f() {\n    let x = ;\n  }\n}\n")

	_, err := run(t, "", src)
	var syn *parser.SyntaxError
	if !errors.As(err, &syn) {
		t.Fatalf("err = %v, want SyntaxError", err)
	}
	if !strings.Contains(err.Error(), "Bad.jack:3:13: expected term") {
		t.Errorf("error %q lacks position and expectation", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Bad.xml")); !os.IsNotExist(err) {
		t.Error("no output should be written on a syntax error")
	}
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Square.jack", squareClass)

	out, err := run(t, "", "parse", "--check", "--format", "xml", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(out, "\t<classVarDec>\n\t\t<keyword>field</keyword>\n") {
		t.Errorf("unexpected XML:\n%s", out)
	}

	out, err = run(t, "let x = 1;", "parse", "-")
	if err == nil {
		t.Errorf("a statement is not a class, got:\n%s", out)
	}

	out, err = run(t, "class A { }", "parse", "-")
	if err != nil {
		t.Fatalf("parse -: %v", err)
	}
	if out != "class\n  keyword class\n  identifier A\n  symbol {\n  symbol }\n" {
		t.Errorf("unexpected tree:\n%s", out)
	}
}

func TestTokensCommand(t *testing.T) {
	out, err := run(t, "if (x < 1) { let s = \"a\"; }", "tokens", "--check", "-")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if lines[0] != "<tokens>" || lines[len(lines)-1] != "</tokens>" {
		t.Errorf("not a <tokens> document:\n%s", out)
	}
	if len(lines) != 15 {
		t.Errorf("got %d lines, want 13 tokens plus the wrapper", len(lines))
	}
	if lines[4] != "\t<symbol>&lt;</symbol>" {
		t.Errorf("lines[4] = %q", lines[4])
	}

	if _, err := run(t, "let x = @;", "tokens", "-"); err == nil {
		t.Error("illegal character should fail")
	}
}

func TestGrammarCommands(t *testing.T) {
	out, err := run(t, "", "grammar", "check")
	if err != nil {
		t.Fatalf("grammar check: %v", err)
	}
	if !strings.HasPrefix(out, "jack.ebnf: ") || !strings.Contains(out, "start Class") {
		t.Errorf("unexpected check output: %q", out)
	}

	out, err = run(t, "", "grammar", "print")
	if err != nil {
		t.Fatalf("grammar print: %v", err)
	}
	if !strings.Contains(out, "Class = \"class\" identifier") {
		t.Errorf("grammar print output:\n%s", out)
	}

	out, err = run(t, "", "grammar", "print", "--productions")
	if err != nil {
		t.Fatalf("grammar print --productions: %v", err)
	}
	for _, want := range []string{"ClassVarDec      classVarDec\n", "Statement        inline\n", "identifier       lexical\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("productions missing %q:\n%s", want, out)
		}
	}

	dir := t.TempDir()
	good := writeSource(t, dir, "good.ebnf", "S = \"a\" { T } .\nT = \"b\" .\n")
	if _, err := run(t, "", "grammar", "check", "--start", "S", good); err != nil {
		t.Errorf("check good.ebnf: %v", err)
	}
	bad := writeSource(t, dir, "bad.ebnf", "S = \"a\" Missing .\n")
	if _, err := run(t, "", "grammar", "check", "--start", "S", bad); err == nil {
		t.Error("check bad.ebnf should fail")
	}
}

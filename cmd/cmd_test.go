package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("KOMPAS_CONFIG", "")
	t.Setenv("HOME", t.TempDir())

	for _, c := range append(rootCmd.Commands(), rootCmd) {
		resetFlags(c.Flags())
		resetFlags(c.PersistentFlags())
	}
	for _, c := range RunsCmd.Commands() {
		resetFlags(c.Flags())
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestInitThenCheck(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "tables.db")

	stdout, _, err := run(t, "init", "Contoh", "--dir", dir)
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	path := filepath.Join(dir, "Contoh.pas")
	if !strings.Contains(stdout, path) {
		t.Errorf("init output should name %s, got %q", path, stdout)
	}

	stdout, stderr, err := run(t, "check", "--tables", "--format", "yaml", "--db", db, path)
	if err != nil {
		t.Fatalf("check error = %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "program: Contoh") || !strings.Contains(stdout, "name: jumlah") {
		t.Errorf("yaml tables missing entries:\n%s", stdout)
	}
	if !strings.Contains(stderr, "ok (Contoh)") {
		t.Errorf("check should confirm success, got %q", stderr)
	}

	stdout, _, err = run(t, "runs", "--db", db)
	if err != nil {
		t.Fatalf("runs error = %v", err)
	}
	if !strings.Contains(stdout, "Contoh") || !strings.Contains(stdout, path) {
		t.Errorf("runs should list the export:\n%s", stdout)
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := run(t, "init", "Dua", "--dir", dir); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if _, _, err := run(t, "init", "Dua", "--dir", dir); err == nil {
		t.Errorf("second init without --force expected an error")
	}
	if _, _, err := run(t, "init", "Dua", "--dir", dir, "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}
	if _, _, err := run(t, "init", "mulai", "--dir", dir); err == nil {
		t.Errorf("init with a keyword as name expected an error")
	}
}

func TestCheckReportsFailures(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"syntax", "program P;\nmulai\n  x := \nselesai.", "Syntax Error"},
		{"semantic", "program P;\nmulai\n  x := 1\nselesai.", "3:3: Semantic Error: undefined identifier 'x'"},
		{"lexical", "program P;\nmulai x := 1 # 2 selesai.", "Lexical Error: unrecognized character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, dir, tt.name+".pas", tt.src)
			_, stderr, err := run(t, "check", path)
			if !errors.Is(err, errReported) {
				t.Fatalf("check error = %v, want errReported", err)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, stderr)
			}
		})
	}
}

func TestCheckDumpsPartialStructures(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "sebagian.pas", "program Sebagian;\nvariabel nilai: integer;\nmulai\n  nilai := 3.5\nselesai.")

	stdout, stderr, err := run(t, "check", "--tables", "--ast", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("check error = %v, want errReported", err)
	}
	if !strings.Contains(stderr, "Semantic Error: cannot assign real value to integer target 'nilai'") {
		t.Errorf("stderr missing the semantic error:\n%s", stderr)
	}
	for _, want := range []string{"Program Sebagian", "tab\n", "nilai", "variable", "btab"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("partial dump missing %q:\n%s", want, stdout)
		}
	}

	lexPath := writeSource(t, dir, "lex.pas", "program L;\nmulai x := 1 # 2 selesai.")
	stdout, _, err = run(t, "check", "--tokens", "--ast", "--tables", lexPath)
	if !errors.Is(err, errReported) {
		t.Fatalf("check error = %v, want errReported", err)
	}
	if !strings.Contains(stdout, "ERROR") || !strings.Contains(stdout, "IDENTIFIER") {
		t.Errorf("tokens read before the lexical error should be printed:\n%s", stdout)
	}
	if strings.Contains(stdout, "Program L") || strings.Contains(stdout, "btab") {
		t.Errorf("phases after the lexical error never ran:\n%s", stdout)
	}
}

func TestCheckDumps(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "d.pas", "program D; variabel a: integer; mulai a := 1 selesai.")

	stdout, _, err := run(t, "check", "--tokens", "--tree", "--ast", "--tables", path)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	for _, want := range []string{"IDENTIFIER", "<program>", "Assign [type=integer", "btab"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestParseAndTokens(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "p.pas", "program P; mulai x := 1 selesai.")

	stdout, _, err := run(t, "parse", path)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if !strings.Contains(stdout, "<assignment-statement>") {
		t.Errorf("parse output missing the assignment:\n%s", stdout)
	}

	stdout, _, err = run(t, "tokens", path)
	if err != nil {
		t.Fatalf("tokens error = %v", err)
	}
	if !strings.Contains(stdout, "ASSIGN_OPERATOR") {
		t.Errorf("tokens output missing ':=':\n%s", stdout)
	}

	if _, _, err := run(t, "tokens", filepath.Join(dir, "p.txt")); err == nil {
		t.Errorf("tokens on a non .pas file expected an error")
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeSource(t, dir, "kompas.toml", "[output]\nast = true\n")
	path := writeSource(t, dir, "c.pas", "program C; mulai selesai.")

	stdout, _, err := run(t, "--config", cfgPath, "check", path)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(stdout, "Program C") {
		t.Errorf("[output] ast = true should print the AST:\n%s", stdout)
	}

	if _, _, err := run(t, "--config", filepath.Join(dir, "none.toml"), "version"); err == nil {
		t.Errorf("a missing --config file expected an error")
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(stdout, "kompas v"+Version) {
		t.Errorf("unexpected version output %q", stdout)
	}
}

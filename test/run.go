// Command run checks every sample program under tests/ with the kompas CLI.
// Programs in tests/good must pass; programs in tests/bad must fail with the
// message named by their leading "{ expect: ... }" comment.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	checkTimeout = 30 * time.Second // the first run also builds the binary
	expectPrefix = "{ expect:"
)

var checkArgs = []string{"run", ".", "check", "--tables", "--format", "yaml"}

var phaseErrors = []string{"Lexical Error:", "Syntax Error:", "Semantic Error:"}

type outcome struct {
	file   string
	good   bool
	reason string // empty when the program behaved as expected
}

func main() {
	var failures []outcome
	for _, suite := range []struct {
		dir  string
		good bool
	}{
		{"tests/good", true},
		{"tests/bad", false},
	} {
		files, _ := filepath.Glob(filepath.Join(suite.dir, "*.pas"))
		fmt.Printf("\n%s (%d programs)\n", suite.dir, len(files))

		passed := 0
		for _, file := range files {
			o := check(file, suite.good)
			if o.reason == "" {
				fmt.Printf("  ✅ %s\n", filepath.Base(file))
				passed++
				continue
			}
			fmt.Printf("  ❌ %s\n", filepath.Base(file))
			failures = append(failures, o)
		}
		fmt.Printf("  %d/%d as expected\n", passed, len(files))
	}

	for _, f := range failures {
		kind := "bad"
		if f.good {
			kind = "good"
		}
		fmt.Printf("\n--- %s (%s)\n%s\n", f.file, kind, f.reason)
	}
	if len(failures) > 0 {
		fmt.Printf("\n🚨 %d program(s) misbehaved\n", len(failures))
		os.Exit(1)
	}
	fmt.Println("\n🎉 All programs behaved as expected")
}

func check(file string, good bool) outcome {
	o := outcome{file: file, good: good}
	output, err := runCheck(file)

	if good {
		switch {
		case err != nil:
			o.reason = fmt.Sprintf("check failed: %v\n%s", err, output)
		case containsAny(output, phaseErrors):
			o.reason = fmt.Sprintf("unexpected error output:\n%s", output)
		default:
			name, nameErr := programName(file)
			if nameErr != nil {
				o.reason = nameErr.Error()
			} else if !strings.Contains(output, "program: "+name) {
				o.reason = fmt.Sprintf("symbol tables do not name program %s:\n%s", name, output)
			}
		}
		return o
	}

	want, expErr := expectedMessage(file)
	if expErr != nil {
		o.reason = expErr.Error()
		return o
	}
	patterns := phaseErrors
	if want != "" {
		patterns = []string{want}
	}
	switch {
	case err == nil:
		o.reason = fmt.Sprintf("expected a failure, got success:\n%s", output)
	case !containsAny(output, patterns):
		o.reason = fmt.Sprintf("failed without %q (%v):\n%s", strings.Join(patterns, " | "), err, output)
	}
	return o
}

// runCheck runs kompas check on file and returns stdout and stderr
// combined.
func runCheck(file string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "go", append(checkArgs, file)...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out.String(), fmt.Errorf("timed out after %v", checkTimeout)
	}
	return out.String(), err
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// expectedMessage reads the "{ expect: ... }" comment on the first line of
// file, if any.
func expectedMessage(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return "", sc.Err()
	}
	line, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), expectPrefix)
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(strings.TrimSuffix(line, "}")), nil
}

// programName returns the identifier following the program keyword.
func programName(file string) (string, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	fields := strings.FieldsFunc(string(src), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ';'
	})
	for i, f := range fields {
		if strings.EqualFold(f, "program") && i+1 < len(fields) {
			return fields[i+1], nil
		}
	}
	return "", fmt.Errorf("no program header in %s", file)
}

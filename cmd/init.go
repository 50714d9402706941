package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/kompas/internal/compiler"
	"github.com/arnavsurve/kompas/internal/compiler/lexer"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

var (
	initDir   string
	initForce bool
)

var programTemplate = template.Must(template.New("program").Parse(`program {{.Name}};
{ dibuat dengan kompas init }

variabel
  i, jumlah: integer;

mulai
  jumlah := 0;
  untuk i := 1 ke 10 lakukan
    jumlah := jumlah + i;
  writeln('jumlah = ', jumlah)
selesai.
`))

// init: scaffold a new program
var InitCmd = &cobra.Command{
	Use:   "init [program-name]",
	Short: "Scaffold a new program file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !isIdentifier(name) {
			return fmt.Errorf("%q is not a valid program name", name)
		}

		path := filepath.Join(initDir, name+compiler.SourceExt)
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := os.MkdirAll(initDir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := programTemplate.Execute(f, struct{ Name string }{name}); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		logger.Debug("scaffolded program", "path", path)
		fmt.Fprintf(cmd.OutOrStdout(), "↪ created %s\n", path)
		return nil
	},
}

func init() {
	InitCmd.Flags().StringVarP(&initDir, "dir", "d", ".", "directory for the new file")
	InitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
}

// isIdentifier reports whether name lexes as exactly one identifier.
func isIdentifier(name string) bool {
	toks, err := lexer.New(name, nil).Tokenize()
	return err == nil && len(toks) == 2 && toks[0].Type == token.IDENTIFIER && toks[0].Literal == name
}

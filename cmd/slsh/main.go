// Command slsh is the interactive Lisp shell: it wires the out-of-scope
// line editor, reader, and process layer to the internal/interp
// evaluation core. Flags and startup-file loading are grounded on
// _examples/original_source/src/shell.rs's start_interactive/load_scripts,
// the cobra command shape on CWBudde-go-dws's cmd/dwscript/cmd/root.go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slsh-lang/slsh/internal/shell"
)

var (
	commandFlag string
	loginFlag   bool
)

var rootCmd = &cobra.Command{
	Use:     "slsh [FILE] [ARGS...]",
	Short:   "slsh is a shell that is also a Lisp",
	Version: shellVersion(),
	Args:    cobra.ArbitraryArgs,
	RunE:    run,
}

func shellVersion() string {
	return "0.1.0"
}

func init() {
	rootCmd.Flags().StringVarP(&commandFlag, "command", "c", "", "run COMMAND instead of entering the REPL or reading a script")
	rootCmd.Flags().BoolVar(&loginFlag, "login", false, "run as a login shell (load slshrc and friends)")
}

func run(cmd *cobra.Command, args []string) error {
	opts := shell.Options{
		Command:    commandFlag,
		Login:      loginFlag,
		ScriptArgs: args,
	}
	return shell.Run(opts)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/tasklist-go/internal/config"
)

// configCommand prints the resolved configuration and where each value
// came from.
func configCommand(env *cliEnv, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasklist config", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(env.stdout, config.ExampleConfig())
		return nil
	}

	w := env.stdout
	fmt.Fprintln(w, "Config files:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settings:")
	for _, field := range config.Fields() {
		fmt.Fprintf(w, "  %-18s %-40s (%s)\n", field, cws.Config.Value(field), cws.Sources[field])
	}
	return nil
}

package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/tasklist-go/internal/tasks"
)

// now is the clock used for elapsed times in listings.
var now = time.Now

// withStore opens the configured store for a one-shot command, logging to
// stderr, and closes it when fn returns.
func withStore(ctx context.Context, env *cliEnv, fn func(*tasks.Store) error) error {
	a, err := openApp(ctx, env.cfg, env.logger(env.stderr), env.stderr)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a.store)
}

// parsePosition converts a 1-based position argument to a 0-based index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q (want a number from 1)", arg)
	}
	return n - 1, nil
}

// lookupPosition resolves a position argument to a task ID. ok is false,
// after telling the user, when the position is past the end of the list.
func lookupPosition(env *cliEnv, store *tasks.Store, arg string) (string, bool, error) {
	pos, err := parsePosition(arg)
	if err != nil {
		return "", false, err
	}
	id := store.IDAt(pos)
	if id == "" {
		fmt.Fprintf(env.stderr, "No task at position %d (%d tasks)\n", pos+1, store.Len())
		return "", false, nil
	}
	return id, true, nil
}

// addCommand appends a task. The arguments are joined with spaces and taken
// as given, so text such as "-5 degrees" is not read as a flag.
func addCommand(ctx context.Context, env *cliEnv, args []string) error {
	text := strings.Join(args, " ")

	return withStore(ctx, env, func(store *tasks.Store) error {
		task, ok, err := store.Add(ctx, text)
		if !ok {
			fmt.Fprintln(env.stderr, "Nothing to add: task text is blank")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(env.stdout, "Added %d: %s\n", store.Position(task.ID)+1, task.Text)
		return nil
	})
}

// lsCommand lists tasks with their positions.
func lsCommand(ctx context.Context, env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("tasklist ls", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	asJSON := fs.Bool("json", false, "Print the stored JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	variant, err := tasks.ParseVariant(env.cfg.Variant)
	if err != nil {
		return err
	}

	return withStore(ctx, env, func(store *tasks.Store) error {
		list := store.Tasks()
		if *asJSON {
			data, err := tasks.Encode(list)
			if err != nil {
				return err
			}
			_, err = env.stdout.Write(data)
			return err
		}
		printTaskList(env.stdout, list, variant)
		return nil
	})
}

func printTaskList(w io.Writer, list []tasks.Task, variant tasks.Variant) {
	counts := tasks.Count(list)
	fmt.Fprintf(w, "Completed: %d | Pending: %d\n", counts.Completed, counts.Pending)
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, row := range tasks.Rows(list, now(), variant) {
		check := "[ ]"
		if row.Completed {
			check = "[x]"
		}
		line := fmt.Sprintf("%3d. %s %s", row.Position+1, check, row.Text)
		switch {
		case row.Elapsed != "":
			line += "  " + row.Elapsed
		case row.Badge:
			line += "  ✓"
		}
		fmt.Fprintln(w, line)
	}
}

// doneCommand toggles the completion of one task.
func doneCommand(ctx context.Context, env *cliEnv, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasklist done <position>")
	}
	return withStore(ctx, env, func(store *tasks.Store) error {
		id, ok, err := lookupPosition(env, store, args[0])
		if err != nil || !ok {
			return err
		}
		if _, err := store.Toggle(ctx, id); err != nil {
			return err
		}
		task, _ := store.Get(id)
		verb := "Reopened"
		if task.Completed {
			verb = "Completed"
		}
		fmt.Fprintf(env.stdout, "%s %d: %s\n", verb, store.Position(id)+1, task.Text)
		return nil
	})
}

// editCommand replaces the text of one task. Like the TUI editor, any
// text is accepted, including an empty string.
func editCommand(ctx context.Context, env *cliEnv, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: tasklist edit <position> <text>")
	}
	text := strings.Join(args[1:], " ")

	return withStore(ctx, env, func(store *tasks.Store) error {
		id, ok, err := lookupPosition(env, store, args[0])
		if err != nil || !ok {
			return err
		}
		edit := tasks.NewSession(store)
		edit.Begin(id)
		edit.SetText(text)
		if _, err := edit.Commit(ctx); err != nil {
			return err
		}
		fmt.Fprintf(env.stdout, "Updated %d: %s\n", store.Position(id)+1, text)
		return nil
	})
}

// rmCommand deletes one task, or every completed task with -done.
func rmCommand(ctx context.Context, env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("tasklist rm", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	completed := fs.Bool("done", false, "Delete every completed task")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *completed {
		if fs.NArg() > 0 {
			return fmt.Errorf("unexpected arguments: %v", fs.Args())
		}
		return withStore(ctx, env, func(store *tasks.Store) error {
			n, err := store.ClearCompleted(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(env.stdout, "Deleted %d completed %s\n", n, plural(n, "task", "tasks"))
			return nil
		})
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: tasklist rm <position> | tasklist rm -done")
	}
	return withStore(ctx, env, func(store *tasks.Store) error {
		id, ok, err := lookupPosition(env, store, fs.Arg(0))
		if err != nil || !ok {
			return err
		}
		task, _ := store.Get(id)
		pos := store.Position(id)
		if _, err := store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(env.stdout, "Deleted %d: %s\n", pos+1, task.Text)
		return nil
	})
}

type statsOutput struct {
	Completed int  `json:"completed"`
	Pending   int  `json:"pending"`
	Total     int  `json:"total"`
	Busy      bool `json:"busy"`
}

// statsCommand prints the completed and pending counts.
func statsCommand(ctx context.Context, env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("tasklist stats", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	asJSON := fs.Bool("json", false, "Print as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withStore(ctx, env, func(store *tasks.Store) error {
		list := store.Tasks()
		counts := tasks.Count(list)
		if *asJSON {
			enc := json.NewEncoder(env.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(statsOutput{
				Completed: counts.Completed,
				Pending:   counts.Pending,
				Total:     counts.Total,
				Busy:      tasks.Busy(list),
			})
		}
		fmt.Fprintf(env.stdout, "Completed: %d | Pending: %d | Total: %d\n", counts.Completed, counts.Pending, counts.Total)
		return nil
	})
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

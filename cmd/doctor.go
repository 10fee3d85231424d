package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nibzard/tasklist-go/internal/cue"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/tasks"
)

// doctorCommand checks that storage is reachable, the saved list decodes,
// and the sound player can run.
func doctorCommand(ctx context.Context, env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("tasklist doctor", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := env.stdout
	cfg := env.cfg
	fmt.Fprintln(w, "tasklist doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintf(w, "Storage: %s (key %q)\n", cfg.Storage, cfg.StorageKey)
	if cfg.Storage == storage.DriverFile {
		fmt.Fprintf(w, "  Data dir: %s\n", cfg.DataDir)
		if err := checkWritableDir(cfg.DataDir); err != nil {
			fmt.Fprintf(w, "  ❌ Not writable: %v\n", err)
			allOK = false
		}
	}
	if cfg.Storage == storage.DriverRedis {
		fmt.Fprintf(w, "  Redis: %s db %d prefix %q\n", cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Prefix)
	}
	if !checkSavedTasks(ctx, w, cfg.StorageOptions(), cfg.StorageKey) {
		allOK = false
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Sounds:")
	if !checkSounds(w, cfg.Sounds.Enabled, cfg.Sounds.Player, cfg.CueAssets()) {
		allOK = false
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Session logs: %s\n", cfg.LogDir)
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed.")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// checkSavedTasks reads the stored blob directly so that a corrupt list is
// reported instead of silently reset.
func checkSavedTasks(ctx context.Context, w io.Writer, opts storage.Options, key string) bool {
	backend, err := storage.Open(ctx, opts)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Cannot open storage: %v\n", err)
		return false
	}
	defer backend.Close()

	data, err := backend.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(w, "  ✅ Reachable (no saved tasks yet)")
		return true
	}
	if err != nil {
		fmt.Fprintf(w, "  ❌ Read failed: %v\n", err)
		return false
	}

	list, err := tasks.Decode(data)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Saved tasks are unreadable and will be reset on next start: %v\n", err)
		return false
	}
	counts := tasks.Count(list)
	fmt.Fprintf(w, "  ✅ %d tasks (%d completed, %d pending)\n", counts.Total, counts.Completed, counts.Pending)
	return true
}

// checkSounds reports the player and its assets. Missing assets are only a
// warning because playback failures never affect the task list.
func checkSounds(w io.Writer, enabled bool, playerName string, assets map[cue.Kind]string) bool {
	if !enabled {
		fmt.Fprintln(w, "  ✅ Disabled")
		return true
	}
	player, err := cue.NewPlayer(playerName, io.Discard)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Player: %v\n", err)
		return false
	}
	switch player.(type) {
	case cue.NopPlayer:
		fmt.Fprintln(w, "  ✅ Player: none")
		return true
	case *cue.BellPlayer:
		fmt.Fprintln(w, "  ✅ Player: terminal bell")
		return true
	}

	fmt.Fprintf(w, "  ✅ Player: %s\n", playerName)
	for _, kind := range []cue.Kind{cue.Add, cue.Complete} {
		asset := assets[kind]
		if _, err := os.Stat(asset); err != nil {
			fmt.Fprintf(w, "  ⚠️  %s cue asset missing: %s\n", kind, asset)
			continue
		}
		fmt.Fprintf(w, "  ✅ %s cue: %s\n", kind, asset)
	}
	return true
}

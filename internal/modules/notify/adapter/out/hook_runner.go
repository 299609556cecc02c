package out

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"flowdash/internal/modules/notify/domain"
	notifyout "flowdash/internal/modules/notify/port/out"
)

const defaultHookTimeout = 5 * time.Second

// HookRunner executes user-configured commands from a YAML manifest whenever
// a reminder fires. The manifest is re-read on every trigger so edits take
// effect without a restart; a missing file means no hooks.
type HookRunner struct {
	manifestPath string
	log          zerolog.Logger
}

func NewHookRunner(manifestPath string, log zerolog.Logger) notifyout.Notifier {
	return &HookRunner{manifestPath: manifestPath, log: log}
}

func (r *HookRunner) Notify(ctx context.Context, goal string, elapsedMin int) error {
	hooks, err := r.loadManifest()
	if err != nil {
		return err
	}
	for _, hook := range hooks {
		if !hook.Enabled || len(hook.Argv) == 0 {
			continue
		}
		r.run(ctx, hook, goal, elapsedMin)
	}
	return nil
}

func (r *HookRunner) loadManifest() ([]domain.Hook, error) {
	payload, err := os.ReadFile(r.manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read hook manifest: %w", err)
	}
	var hooks []domain.Hook
	if err := yaml.Unmarshal(payload, &hooks); err != nil {
		return nil, fmt.Errorf("decode hook manifest: %w", err)
	}
	return hooks, nil
}

func (r *HookRunner) run(ctx context.Context, hook domain.Hook, goal string, elapsedMin int) {
	timeout := defaultHookTimeout
	if hook.TimeoutMS > 0 {
		timeout = time.Duration(hook.TimeoutMS) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, hook.Argv[0], hook.Argv[1:]...)
	cmd.Env = append(os.Environ(),
		"FLOWDASH_GOAL="+goal,
		"FLOWDASH_ELAPSED_MIN="+strconv.Itoa(elapsedMin),
	)
	if err := cmd.Run(); err != nil {
		r.log.Warn().Err(err).Str("hook", hook.Name).Msg("reminder hook failed")
	}
}

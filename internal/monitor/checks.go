package monitor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/runlab/lifeline/internal/cliconfig"
	"github.com/runlab/lifeline/pkg/health"
)

// commandCheck adapts an argv command into a health.CheckFunc. Exit 0 maps
// to ok, exit 1 to warning, any other exit (including a timeout kill) to
// critical; spawn failures map to unknown.
func commandCheck(argv []string, timeout time.Duration) health.CheckFunc {
	return func() (health.Status, error) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		err := cmd.Run()
		if err == nil {
			return health.StatusOK, nil
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if ctx.Err() != nil {
				return health.StatusCritical, fmt.Errorf("timed out after %s", timeout)
			}
			if exitErr.ExitCode() == 1 {
				return health.StatusWarning, err
			}
			return health.StatusCritical, err
		}

		return health.StatusUnknown, err
	}
}

// buildChecks builds the health checks for the configured definitions.
func buildChecks(cfgs []cliconfig.CheckConfig) []*health.Check {
	checks := make([]*health.Check, 0, len(cfgs))
	for _, cc := range cfgs {
		checks = append(checks, health.NewCheck(cc.Name, cc.Description, commandCheck(cc.Command, cc.Timeout)))
	}
	return checks
}

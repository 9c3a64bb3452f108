package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"github.com/devantler-tech/k3d-action/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/k3d-action/pkg/di"
	"github.com/devantler-tech/k3d-action/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// ErrCommandRequired is returned when k3d-action runs without a command.
var ErrCommandRequired = errors.New("a command is required: deploy or test-registry")

// NewRootCmd creates the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return NewRootCmdWithRuntime(di.NewRuntime(), version, commit, date)
}

// NewRootCmdWithRuntime creates the root command on top of runtime.
func NewRootCmdWithRuntime(runtime *di.Runtime, version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "k3d-action <command>",
		Short: "Create k3d clusters for CI jobs",
		Long: "k3d-action creates a k3d cluster on a shared docker network, optionally wires a local " +
			"image registry into it and waits until every node is Ready.",
		Args:         cobra.ArbitraryArgs,
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return v1alpha1.NewConfigurationError(err)
	})

	cmd.AddCommand(NewDeployCmd(runtime))
	cmd.AddCommand(NewTestRegistryCmd(runtime))

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// ReportError writes err to writer. Configuration errors are followed by the usage
// of the command that failed, or of root when cobra could not resolve one.
func ReportError(writer io.Writer, root *cobra.Command, err error) {
	notify.Errorf(writer, "%v", err)

	if !v1alpha1.IsConfigurationError(err) {
		return
	}

	failed := root

	var cmdErr *errorhandler.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Command() != nil {
		failed = cmdErr.Command()
	}

	_, _ = fmt.Fprint(writer, failed.UsageString())
}

// --- internals ---

// handleRootRunE prints usage. Without any argument the run fails; an unknown
// command prints usage on stdout and succeeds.
func handleRootRunE(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return v1alpha1.NewConfigurationError(ErrCommandRequired)
	}

	notify.Warningf(cmd.OutOrStdout(), "unknown command %q", args[0])

	_, _ = fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())

	return nil
}

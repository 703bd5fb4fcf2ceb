package cmd

import (
	"context"
	"errors"
	"fmt"

	"mreg-cli/core/audit"
	"mreg-cli/core/storage"
	"mreg-cli/core/tags"
	"mreg-cli/core/vlans"
	"mreg-cli/feature/netimport"

	"github.com/spf13/cobra"
)

var (
	// Flags for the network import command
	importForce  bool
	importDryRun bool
)

// networkImportCmd wires the full import pipeline behind one command.
var networkImportCmd = &cobra.Command{
	Use:   "import <file> [y]",
	Short: "Reconcile the subnet inventory against a flat file",
	Long: `Reads the subnet description file, diffs it against the subnets the
service knows, and applies the changes in delete, create, update order.

The run is refused when a subnet marked for deletion has addresses in use,
when a new subnet would overlap a surviving one, or when more than 20% of
the inventory would change. Force (a trailing "y" or --force) overrides only
the 20% threshold. Every run truncates and rewrites the transcript file,
which records the parse findings, any refusal reasons and each request made.

Examples:
  # Apply the file
  mreg-cli network import subnets.txt

  # Large reorganizations need force
  mreg-cli network import subnets.txt y

  # See the plan and the transcript without touching the service
  mreg-cli network import subnets.txt --dry-run`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		err = runNetworkImport(ctx, env, args[0], importForce || hasForceToken(args[1:]), importDryRun)
		return env.finish(ctx, commandLine(cmd, args), err)
	},
}

func init() {
	networkCmd.AddCommand(networkImportCmd)

	networkImportCmd.Flags().BoolVar(&importForce, "force", false, "Accept a plan that changes more than 20% of the subnets")
	networkImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse, diff and gate without executing any request")
}

func runNetworkImport(ctx context.Context, env *cmdEnv, path string, force, dryRun bool) error {
	vocab, err := tags.Load(env.cfg.Tags.File)
	if err != nil {
		return err
	}

	provider, err := vlanProvider(env)
	if err != nil {
		return err
	}

	importer := &netimport.Importer{
		Service:    env.client,
		Tags:       vocab,
		VLANs:      provider,
		Guard:      &netimport.Guard{Used: env.client},
		Audit:      env.cfg.Audit,
		Log:        env.log,
		TagFileRef: env.cfg.Tags.File,
	}

	if env.cfg.Audit.Archive {
		store, err := storage.NewClient(env.cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		importer.Archiver = audit.NewArchiver(store, env.cfg.Storage.Bucket, env.log)
	}

	result, err := importer.Run(ctx, path, netimport.Options{Force: force, DryRun: dryRun})
	switch {
	case errors.Is(err, netimport.ErrPlanRejected):
		for _, blocker := range result.Blockers {
			fmt.Println(blocker.Reason)
		}
		fmt.Printf("Check %s for details\n", result.TranscriptPath)
		return err
	case err != nil:
		if result != nil && result.Executed > 0 {
			fmt.Printf("import stopped after %d requests, check %s for how far it got\n",
				result.Executed, result.TranscriptPath)
		}
		return err
	}

	plan := result.Plan
	if dryRun {
		fmt.Printf("dry run: would delete %d, create %d, update %d subnets\n",
			len(plan.Delete), len(plan.Create), len(plan.Update))
	} else {
		fmt.Printf("deleted %d, created %d, updated %d subnets\n",
			len(plan.Delete), len(plan.Create), len(plan.Update))
	}
	if len(result.Diagnostics) > 0 {
		fmt.Printf("%d lines were rejected, see %s\n", len(result.Diagnostics), result.TranscriptPath)
	}
	return nil
}

// vlanProvider selects the range-to-VLAN mapping source from configuration.
func vlanProvider(env *cmdEnv) (vlans.Provider, error) {
	switch env.cfg.Vlans.Source {
	case vlans.SourceDatabase:
		if env.db == nil {
			return nil, errors.New("vlan source is database but no database is reachable")
		}
		return vlans.NewDBProvider(env.db, env.cfg.Vlans.Table), nil
	case vlans.SourceFile:
		return vlans.NewFileProviderFromConfig(env.cfg.Vlans), nil
	default:
		return nil, fmt.Errorf("unknown vlan source %q", env.cfg.Vlans.Source)
	}
}

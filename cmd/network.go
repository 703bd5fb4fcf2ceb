package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mreg-cli/core/mreg"
	"mreg-cli/core/netutil"
	"mreg-cli/core/tags"
	"mreg-cli/core/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the network commands
	networkVLAN     int
	networkCategory string
	networkLocation string
	networkFrozen   bool
	networkForce    bool
)

// networkCmd is the parent command for all subnet operations.
var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Inspect and manage subnets",
	Long: `Look up subnets by range or by any address inside them, create and
remove them, adjust their fields, and reconcile the whole inventory against
a flat file with the import subcommand.`,
}

// networkInfoCmd represents the network info command
var networkInfoCmd = &cobra.Command{
	Use:   "info <range|ip>",
	Short: "Show fields and address usage of a subnet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		return runNetworkInfo(cmd.Context(), env, args[0])
	},
}

// networkCreateCmd represents the network create command
var networkCreateCmd = &cobra.Command{
	Use:   "create <range> <description>",
	Short: "Create a subnet",
	Long: `Creates a subnet with the given range and description. The range
must not overlap any existing subnet; category and location tags are checked
against the configured vocabulary.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		var vlan *int
		if cmd.Flags().Changed("vlan") {
			vlan = &networkVLAN
		}
		ctx := cmd.Context()
		err = runNetworkCreate(ctx, env, args[0], args[1], vlan)
		return env.finish(ctx, commandLine(cmd, args), err)
	},
}

// networkRemoveCmd represents the network remove command
var networkRemoveCmd = &cobra.Command{
	Use:   "remove <range> [y]",
	Short: "Remove a subnet",
	Long: `Removes a subnet. Removal always requires force and is refused
while any address on the subnet is in use.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		err = runNetworkRemove(ctx, env, args[0], networkForce || hasForceToken(args[1:]))
		return env.finish(ctx, commandLine(cmd, args), err)
	},
}

// networkListUsedCmd represents the network list-used command
var networkListUsedCmd = &cobra.Command{
	Use:   "list-used <range|ip>",
	Short: "List the addresses in use and who holds them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		return runNetworkListUsed(cmd.Context(), env, args[0])
	},
}

// networkListUnusedCmd represents the network list-unused command
var networkListUnusedCmd = &cobra.Command{
	Use:   "list-unused <range|ip>",
	Short: "List the unused addresses of a subnet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		return runNetworkListUnused(cmd.Context(), env, args[0])
	},
}

func init() {
	networkCmd.AddCommand(networkInfoCmd, networkCreateCmd, networkRemoveCmd,
		networkListUsedCmd, networkListUnusedCmd)
	networkCmd.AddCommand(networkFieldCommands()...)

	networkCreateCmd.Flags().IntVar(&networkVLAN, "vlan", 0, "VLAN id")
	networkCreateCmd.Flags().StringVar(&networkCategory, "category", "", "Category tag")
	networkCreateCmd.Flags().StringVar(&networkLocation, "location", "", "Location tag")
	networkCreateCmd.Flags().BoolVar(&networkFrozen, "frozen", false, "Create the subnet frozen")
	networkRemoveCmd.Flags().BoolVar(&networkForce, "force", false, "Confirm the removal")

	RootCmd.AddCommand(networkCmd)
}

// networkFieldCommands builds the set-/unset- commands, one per mutable
// subnet field.
func networkFieldCommands() []*cobra.Command {
	patch := func(use, short string, argc int, build func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(argc),
			RunE: func(cmd *cobra.Command, args []string) error {
				env, err := newEnv()
				if err != nil {
					return err
				}
				ctx := cmd.Context()
				err = runNetworkPatch(ctx, env, args, build)
				return env.finish(ctx, commandLine(cmd, args), err)
			},
		}
	}

	return []*cobra.Command{
		patch("set-vlan <range|ip> <vlan>", "Set the VLAN id of a subnet", 2,
			func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error) {
				vlan, err := strconv.Atoi(args[1])
				if err != nil {
					return nil, "", fmt.Errorf("not a valid integer: %q", args[1])
				}
				return mreg.Fields{"vlan": vlan}, fmt.Sprintf("vlan to %d", vlan), nil
			}),
		patch("set-description <range|ip> <description>", "Set the description of a subnet", 2,
			func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error) {
				return mreg.Fields{"description": args[1]}, fmt.Sprintf("description to '%s'", args[1]), nil
			}),
		patch("set-location <range|ip> <location-tag>", "Set the location tag of a subnet", 2,
			func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error) {
				if err := checkTag(env, tags.Location, args[1]); err != nil {
					return nil, "", err
				}
				return mreg.Fields{"location": args[1]}, fmt.Sprintf("location tag to '%s'", args[1]), nil
			}),
		patch("set-category <range|ip> <category-tag>", "Set the category tag of a subnet", 2,
			func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error) {
				if err := checkTag(env, tags.Category, args[1]); err != nil {
					return nil, "", err
				}
				return mreg.Fields{"category": args[1]}, fmt.Sprintf("category tag to '%s'", args[1]), nil
			}),
		patch("set-dns-delegated <range|ip>", "Mark DNS as administered elsewhere", 1,
			func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error) {
				return mreg.Fields{"dns_delegated": true}, "dns_delegated to 'true'", nil
			}),
		patch("unset-dns-delegated <range|ip>", "Mark DNS as administered here", 1,
			func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error) {
				return mreg.Fields{"dns_delegated": false}, "dns_delegated to 'false'", nil
			}),
		patch("set-frozen <range|ip>", "Freeze a subnet", 1,
			func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error) {
				return mreg.Fields{"frozen": true}, "frozen to 'true'", nil
			}),
		patch("unset-frozen <range|ip>", "Unfreeze a subnet", 1,
			func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error) {
				return mreg.Fields{"frozen": false}, "frozen to 'false'", nil
			}),
		patch("set-reserved <range|ip> <number>", "Set the number of reserved addresses", 2,
			func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error) {
				reserved, err := strconv.Atoi(args[1])
				if err != nil || reserved < 0 {
					return nil, "", fmt.Errorf("not a valid number of reserved addresses: %q", args[1])
				}
				return mreg.Fields{"reserved": reserved}, fmt.Sprintf("reserved to '%d'", reserved), nil
			}),
	}
}

func runNetworkInfo(ctx context.Context, env *cmdEnv, arg string) error {
	subnet, err := subnetByRangeOrAddress(ctx, env, arg)
	if err != nil {
		return err
	}

	netmask, err := netutil.Netmask(subnet.Range)
	if err != nil {
		return err
	}
	usedCount, err := env.client.SubnetUsedCount(ctx, subnet.Range)
	if err != nil {
		return err
	}
	unusedCount, err := env.client.SubnetUnusedCount(ctx, subnet.Range)
	if err != nil {
		return err
	}
	reserved, err := env.client.SubnetReservedIPs(ctx, subnet.Range)
	if err != nil {
		return err
	}

	vlan := ""
	if subnet.VLAN != nil {
		vlan = strconv.Itoa(*subnet.VLAN)
	}

	fmt.Printf("%-25s%s\n", "Subnet:", subnet.Range)
	fmt.Printf("%-25s%s\n", "Netmask:", netmask)
	fmt.Printf("%-25s%s\n", "Description:", subnet.Description)
	fmt.Printf("%-25s%s\n", "Category:", orEmpty(subnet.Category))
	fmt.Printf("%-25s%s\n", "Location:", orEmpty(subnet.Location))
	fmt.Printf("%-25s%s\n", "VLAN:", vlan)
	fmt.Printf("%-25s%t\n", "DNS delegated:", subnet.DNSDelegated)
	fmt.Printf("%-25s%t\n", "Frozen:", subnet.Frozen)
	fmt.Printf("%-25s%d\n", "Reserved host addresses:", subnet.Reserved)
	for _, ip := range reserved {
		fmt.Printf("%-25s%s\n", "", ip)
	}
	fmt.Printf("%-25s%d\n", "Used addresses:", usedCount)
	fmt.Printf("%-25s%d (excluding reserved adr.)\n", "Unused addresses:", unusedCount)
	return nil
}

func runNetworkCreate(ctx context.Context, env *cmdEnv, ipRange, description string, vlan *int) error {
	if !netutil.IsValidPrefix(ipRange) {
		return fmt.Errorf("not a valid subnet: %q", ipRange)
	}

	var category, location *string
	if networkCategory != "" {
		if err := checkTag(env, tags.Category, networkCategory); err != nil {
			return err
		}
		category = &networkCategory
	}
	if networkLocation != "" {
		if err := checkTag(env, tags.Location, networkLocation); err != nil {
			return err
		}
		location = &networkLocation
	}

	// Refuse address space already covered by another subnet.
	existing, err := env.client.Subnets(ctx)
	if err != nil {
		return err
	}
	for _, other := range existing {
		overlap, err := netutil.Overlaps(ipRange, other.Range)
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("%s overlaps existing subnet %s", ipRange, other.Range)
		}
	}

	create := mreg.SubnetCreate{
		Range:       ipRange,
		Description: description,
		VLAN:        vlan,
		Category:    category,
		Location:    location,
		Frozen:      networkFrozen,
	}
	if err := env.client.CreateSubnet(ctx, create); err != nil {
		return err
	}

	fmt.Printf("created subnet %s\n", ipRange)
	env.log.Info("created subnet", zap.String("range", ipRange))
	return nil
}

func runNetworkRemove(ctx context.Context, env *cmdEnv, ipRange string, force bool) error {
	if !netutil.IsValidPrefix(ipRange) {
		return fmt.Errorf("not a valid subnet: %q", ipRange)
	}

	used, err := env.client.SubnetUsedList(ctx, ipRange)
	if err != nil {
		return err
	}
	if len(used) > 0 {
		return fmt.Errorf("subnet %s contains addresses that are in use, remove hosts before deletion", ipRange)
	}
	if !force {
		return errors.New("removing a subnet requires force")
	}

	if err := env.client.DeleteSubnet(ctx, ipRange); err != nil {
		return err
	}
	fmt.Printf("removed subnet %s\n", ipRange)
	env.log.Info("removed subnet", zap.String("range", ipRange))
	return nil
}

// runNetworkPatch resolves the subnet from args[0] and applies one field
// change.
func runNetworkPatch(ctx context.Context, env *cmdEnv, args []string, build func(ctx context.Context, env *cmdEnv, args []string) (mreg.Fields, string, error)) error {
	subnet, err := subnetByRangeOrAddress(ctx, env, args[0])
	if err != nil {
		return err
	}
	fields, what, err := build(ctx, env, args)
	if err != nil {
		return err
	}

	if err := env.client.UpdateSubnet(ctx, subnet.Range, fields); err != nil {
		return err
	}
	fmt.Printf("updated %s for %s\n", what, subnet.Range)
	env.log.Info("updated subnet",
		zap.String("range", subnet.Range), zap.String("change", what))
	return nil
}

func runNetworkListUsed(ctx context.Context, env *cmdEnv, arg string) error {
	subnet, err := subnetByRangeOrAddress(ctx, env, arg)
	if err != nil {
		return err
	}
	used, err := env.client.SubnetUsedList(ctx, subnet.Range)
	if err != nil {
		return err
	}

	for _, ip := range used {
		name, err := env.client.HostForAddress(ctx, ip)
		if err != nil {
			return err
		}
		fmt.Printf("%-25s%s\n", ip, name)
	}
	return nil
}

func runNetworkListUnused(ctx context.Context, env *cmdEnv, arg string) error {
	subnet, err := subnetByRangeOrAddress(ctx, env, arg)
	if err != nil {
		return err
	}
	unused, err := env.client.SubnetUnusedList(ctx, subnet.Range)
	if err != nil {
		return err
	}

	for _, ip := range unused {
		fmt.Println(ip)
	}
	return nil
}

// subnetByRangeOrAddress fetches a subnet given its range or any address
// inside it.
func subnetByRangeOrAddress(ctx context.Context, env *cmdEnv, arg string) (*mreg.Subnet, error) {
	if validate.IsValidIP(arg) {
		return env.client.SubnetForAddress(ctx, arg)
	}
	if !netutil.IsValidPrefix(arg) {
		return nil, fmt.Errorf("not a valid ip or subnet: %q", arg)
	}
	return env.client.Subnet(ctx, arg)
}

// checkTag validates a tag against the configured vocabulary.
func checkTag(env *cmdEnv, kind tags.Kind, tag string) error {
	vocab, err := tags.Load(env.cfg.Tags.File)
	if err != nil {
		return err
	}
	if vocab.Classify(tag) != kind {
		switch kind {
		case tags.Location:
			return fmt.Errorf("not a valid location tag: %q", tag)
		default:
			return fmt.Errorf("not a valid category tag: %q", tag)
		}
	}
	return nil
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

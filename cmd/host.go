package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mreg-cli/core/mreg"
	"mreg-cli/core/netutil"
	"mreg-cli/core/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the host commands
	hostForce   bool
	hostHinfo   int
	hostComment string
)

// hostCmd is the parent command for all host operations.
var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Inspect and manage hosts",
	Long: `Look up hosts by name or address, create and remove them, and keep
their contact and comment fields current. Short names are qualified with the
configured domain; a name that is an alias resolves to its canonical host.`,
}

// hostInfoCmd represents the host info command
var hostInfoCmd = &cobra.Command{
	Use:   "info <name|ip>",
	Short: "Show name, contact, records and aliases of a host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		return runHostInfo(cmd.Context(), env, args[0])
	},
}

// hostCreateCmd represents the host create command
var hostCreateCmd = &cobra.Command{
	Use:   "create <name> <ip|subnet> <contact> [y]",
	Short: "Create a host with an address",
	Long: `Creates a host and assigns it an address: the given one, or the
first unused address when given a subnet. Assigning a reserved address,
touching a frozen subnet or replacing an existing host requires force.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		err = runHostCreate(ctx, env, args[0], args[1], args[2], hostForce || hasForceToken(args[3:]))
		return env.finish(ctx, commandLine(cmd, args), err)
	},
}

// hostRemoveCmd represents the host remove command
var hostRemoveCmd = &cobra.Command{
	Use:   "remove <name|ip> [y]",
	Short: "Remove a host and its records",
	Long: `Removes a host. A host holding several addresses or aliases is only
removed when forced; its alias hosts are then removed with it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		err = runHostRemove(ctx, env, args[0], hostForce || hasForceToken(args[1:]))
		return env.finish(ctx, commandLine(cmd, args), err)
	},
}

// hostRenameCmd represents the host rename command
var hostRenameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name> [y]",
	Short: "Rename a host and re-point its aliases",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		err = runHostRename(ctx, env, args[0], args[1], hostForce || hasForceToken(args[2:]))
		return env.finish(ctx, commandLine(cmd, args), err)
	},
}

// hostSetContactCmd represents the host set-contact command
var hostSetContactCmd = &cobra.Command{
	Use:   "set-contact <name> <contact>",
	Short: "Set the contact address of a host",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		err = runHostSetContact(ctx, env, args[0], args[1])
		return env.finish(ctx, commandLine(cmd, args), err)
	},
}

// hostSetCommentCmd represents the host set-comment command
var hostSetCommentCmd = &cobra.Command{
	Use:   "set-comment <name> <comment>...",
	Short: "Set the comment of a host",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		err = runHostSetComment(ctx, env, args[0], strings.Join(args[1:], " "))
		return env.finish(ctx, commandLine(cmd, args), err)
	},
}

func init() {
	hostCmd.AddCommand(hostInfoCmd, hostCreateCmd, hostRemoveCmd, hostRenameCmd,
		hostSetContactCmd, hostSetCommentCmd)

	hostCreateCmd.Flags().BoolVar(&hostForce, "force", false, "Replace an existing host, use reserved addresses and frozen subnets")
	hostCreateCmd.Flags().IntVar(&hostHinfo, "hinfo", 0, "Hinfo preset id")
	hostCreateCmd.Flags().StringVar(&hostComment, "comment", "", "Free-text comment")
	hostRemoveCmd.Flags().BoolVar(&hostForce, "force", false, "Remove despite multiple addresses or aliases")
	hostRenameCmd.Flags().BoolVar(&hostForce, "force", false, "Replace an existing host under the new name")

	RootCmd.AddCommand(hostCmd)
}

func runHostInfo(ctx context.Context, env *cmdEnv, nameOrIP string) error {
	host, err := hostByNameOrAddress(ctx, env, nameOrIP)
	if err != nil {
		return err
	}

	aliases, err := env.client.AliasesOf(ctx, host.Name)
	if err != nil {
		return err
	}

	var hinfo string
	if host.Hinfo != nil {
		presets, err := env.client.HinfoPresets(ctx)
		if err != nil {
			return err
		}
		for _, preset := range presets {
			if preset.ID == *host.Hinfo {
				hinfo = fmt.Sprintf("cpu=%s os=%s", preset.CPU, preset.OS)
			}
		}
	}

	fmt.Printf("%-14s%s\n", "Name:", host.Name)
	fmt.Printf("%-14s%s\n", "Contact:", host.Contact)
	if host.Comment != "" {
		fmt.Printf("%-14s%s\n", "Comment:", host.Comment)
	}
	printAddresses(host.IPAddresses)
	printTTL(host.TTL)
	if hinfo != "" {
		fmt.Printf("%-14s%s\n", "Hinfo:", hinfo)
	}
	if host.Loc != nil {
		fmt.Printf("%-14s%s\n", "Loc:", *host.Loc)
	}
	for _, alias := range aliases {
		fmt.Printf("%-14s%s -> %s\n", "Cname:", alias, host.Name)
	}
	for _, txt := range host.TXTs {
		fmt.Printf("%-14s%s\n", "TXT:", txt.TXT)
	}
	return nil
}

func runHostCreate(ctx context.Context, env *cmdEnv, name, ipOrNet, contact string, force bool) error {
	if !validate.IsValidEmail(contact) {
		return fmt.Errorf("invalid mail address (%s) when trying to add %s", contact, name)
	}

	hinfo, err := resolveHinfo(ctx, env, hostHinfo)
	if err != nil {
		return err
	}
	if hostHinfo != 0 && hinfo == nil {
		return fmt.Errorf("invalid hinfo (%d) when trying to add %s", hostHinfo, name)
	}

	ip, err := pickAddress(ctx, env, ipOrNet, force)
	if err != nil {
		return err
	}

	// A host already carrying the name, on short or long form, has to be
	// forced out of the way first.
	if resolved, err := env.client.ResolveName(ctx, name); err == nil {
		if !force {
			return fmt.Errorf("host %s already exists, must force", resolved)
		}
		if err := env.client.DeleteHost(ctx, resolved); err != nil {
			return err
		}
		env.log.Info("deleted existing host", zap.String("name", resolved))
	} else if !errors.Is(err, mreg.ErrHostNotFound) {
		return err
	}

	qualified := env.client.QualifyName(name)
	create := mreg.HostCreate{
		Name:      qualified,
		IPAddress: ip,
		Contact:   contact,
		Hinfo:     hinfo,
		Comment:   hostComment,
	}
	if err := env.client.CreateHost(ctx, create); err != nil {
		return err
	}

	fmt.Printf("created host %s\n", qualified)
	env.log.Info("created host", zap.String("name", qualified), zap.String("ip", ip))
	return nil
}

func runHostRemove(ctx context.Context, env *cmdEnv, nameOrIP string, force bool) error {
	host, err := hostByNameOrAddress(ctx, env, nameOrIP)
	if err != nil {
		return err
	}

	if len(host.IPAddresses) > 1 && !force {
		return fmt.Errorf("%s has multiple ipaddresses, must force", host.Name)
	}

	aliases, err := env.client.AliasesOf(ctx, host.Name)
	if err != nil {
		return err
	}
	if len(aliases) > 0 && !force {
		return fmt.Errorf("%s has %d aliases, must force", host.Name, len(aliases))
	}
	for _, alias := range aliases {
		if err := env.client.DeleteHost(ctx, alias); err != nil {
			return err
		}
		env.log.Info("deleted alias host",
			zap.String("alias", alias), zap.String("host", host.Name))
	}

	if err := env.client.DeleteHost(ctx, host.Name); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", host.Name)
	env.log.Info("removed host", zap.String("name", host.Name))
	return nil
}

func runHostRename(ctx context.Context, env *cmdEnv, oldName, newName string, force bool) error {
	resolved, err := env.client.ResolveName(ctx, oldName)
	if err != nil {
		return err
	}

	// A host already holding the new name has to be forced out of the way,
	// along with its aliases.
	if existing, err := env.client.HostInfo(ctx, newName, false); err == nil {
		if !force {
			return fmt.Errorf("host %s already exists, must force", existing.Name)
		}
		aliases, err := env.client.AliasesOf(ctx, existing.Name)
		if err != nil {
			return err
		}
		for _, alias := range aliases {
			if err := env.client.DeleteHost(ctx, alias); err != nil {
				return err
			}
			env.log.Info("deleted alias host",
				zap.String("alias", alias), zap.String("host", existing.Name))
		}
		if err := env.client.DeleteHost(ctx, existing.Name); err != nil {
			return err
		}
		env.log.Info("deleted existing host", zap.String("name", existing.Name))
	} else if !errors.Is(err, mreg.ErrHostNotFound) {
		return err
	}

	qualified := env.client.QualifyName(newName)
	if err := env.client.UpdateHost(ctx, resolved, mreg.Fields{"name": qualified}); err != nil {
		return err
	}

	// Aliases keep working: every CNAME pointing at the old name is
	// re-pointed at the new one.
	cnames, err := env.client.CNAMEsPointingAt(ctx, resolved)
	if err != nil {
		return err
	}
	for _, cname := range cnames {
		if err := env.client.RepointCNAME(ctx, cname.ID, qualified); err != nil {
			return err
		}
	}

	fmt.Printf("renamed %s to %s\n", resolved, qualified)
	env.log.Info("renamed host",
		zap.String("from", resolved), zap.String("to", qualified))
	return nil
}

func runHostSetContact(ctx context.Context, env *cmdEnv, name, contact string) error {
	if !validate.IsValidEmail(contact) {
		return fmt.Errorf("invalid mail address %s (target host: %s)", contact, name)
	}

	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}
	if err := env.client.UpdateHost(ctx, host.Name, mreg.Fields{"contact": contact}); err != nil {
		return err
	}

	fmt.Printf("updated contact of %s to %s\n", host.Name, contact)
	env.log.Info("updated contact",
		zap.String("name", host.Name), zap.String("contact", contact))
	return nil
}

func runHostSetComment(ctx context.Context, env *cmdEnv, name, comment string) error {
	resolved, err := env.client.ResolveName(ctx, name)
	if err != nil {
		return err
	}
	if err := env.client.UpdateHost(ctx, resolved, mreg.Fields{"comment": comment}); err != nil {
		return err
	}

	fmt.Printf("updated comment of %s to %q\n", resolved, comment)
	env.log.Info("updated comment", zap.String("name", resolved))
	return nil
}

// hostByNameOrAddress fetches a host by name or by one of its addresses,
// following an alias to its canonical host.
func hostByNameOrAddress(ctx context.Context, env *cmdEnv, nameOrIP string) (*mreg.Host, error) {
	name := nameOrIP
	if validate.IsValidIP(nameOrIP) {
		resolved, err := env.client.HostForAddress(ctx, nameOrIP)
		if err != nil {
			return nil, err
		}
		name = resolved
	}
	return env.client.HostInfo(ctx, name, true)
}

// pickAddress returns the address to assign to a new host: the first unused
// one when given a subnet, the address itself when given an ip. The network
// and broadcast addresses are never assignable; a reserved address or a
// frozen subnet requires force.
func pickAddress(ctx context.Context, env *cmdEnv, ipOrNet string, force bool) (string, error) {
	if netutil.IsValidPrefix(ipOrNet) {
		subnet, err := env.client.Subnet(ctx, ipOrNet)
		if err != nil {
			return "", err
		}
		if subnet.Frozen && !force {
			return "", fmt.Errorf("subnet %s is frozen, must force", subnet.Range)
		}
		return env.client.SubnetFirstUnused(ctx, subnet.Range)
	}

	if !validate.IsValidIP(ipOrNet) {
		return "", fmt.Errorf("neither an ip address nor a subnet: %q", ipOrNet)
	}

	subnet, err := env.client.SubnetForAddress(ctx, ipOrNet)
	if err != nil {
		return "", err
	}
	network, broadcast, err := netutil.NetworkBroadcast(subnet.Range)
	if err != nil {
		return "", err
	}
	switch ipOrNet {
	case network.String():
		return "", errors.New("can't overwrite the network address of the subnet")
	case broadcast.String():
		return "", errors.New("can't overwrite the broadcast address of the subnet")
	}
	if !force {
		reserved, err := netutil.ReservedAddresses(subnet.Range, subnet.Reserved)
		if err != nil {
			return "", err
		}
		for _, r := range reserved {
			if r == ipOrNet {
				return "", fmt.Errorf("address %s is reserved, must force", ipOrNet)
			}
		}
	}
	if subnet.Frozen && !force {
		return "", fmt.Errorf("subnet %s is frozen, must force", subnet.Range)
	}
	return ipOrNet, nil
}

// resolveHinfo validates a hinfo preset id against the service's list.
// Returns nil for id 0 (none requested) and for unknown ids.
func resolveHinfo(ctx context.Context, env *cmdEnv, id int) (*int, error) {
	if id <= 0 {
		return nil, nil
	}
	presets, err := env.client.HinfoPresets(ctx)
	if err != nil {
		return nil, err
	}
	for _, preset := range presets {
		if preset.ID == id {
			return &id, nil
		}
	}
	return nil, nil
}

// printAddresses renders A and AAAA records in two aligned blocks.
func printAddresses(records []mreg.IPAddress) {
	var a, aaaa []mreg.IPAddress
	width := len("IP")
	for _, record := range records {
		if validate.IsValidIPv4(record.Address) {
			a = append(a, record)
		} else {
			aaaa = append(aaaa, record)
		}
		if len(record.Address) > width {
			width = len(record.Address)
		}
	}
	width += 2

	block := func(label string, records []mreg.IPAddress) {
		if len(records) == 0 {
			return
		}
		fmt.Printf("%-14s%-*s%s\n", label, width, "IP", "MAC")
		for _, record := range records {
			mac := record.MAC
			if mac == "" {
				mac = "<not set>"
			}
			fmt.Printf("%-14s%-*s%s\n", "", width, record.Address, mac)
		}
	}
	block("A_Records:", a)
	block("AAAA_Records:", aaaa)
}

func printTTL(ttl *int) {
	if ttl != nil {
		fmt.Printf("%-14s%d\n", "TTL:", *ttl)
	} else {
		fmt.Printf("%-14s%s\n", "TTL:", "(Default)")
	}
}

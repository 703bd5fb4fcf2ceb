package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mreg-cli/core/mreg"
	"mreg-cli/core/netutil"
	"mreg-cli/core/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// addressFamily abstracts the parts where A and AAAA handling differ.
type addressFamily struct {
	name  string
	valid func(string) bool
}

var (
	familyV4 = addressFamily{name: "ipv4", valid: validate.IsValidIPv4}
	familyV6 = addressFamily{name: "ipv6", valid: validate.IsValidIPv6}
)

func init() {
	hostCmd.AddCommand(
		newAddressCommands("a", "Manage A records of a host", familyV4),
		newAddressCommands("aaaa", "Manage AAAA records of a host", familyV6),
		newCNAMECommands(),
		newTTLCommands(),
		newLocCommands(),
		newHinfoCommands(),
	)
}

// newAddressCommands builds the add/remove/change/show family shared by the
// a and aaaa commands.
func newAddressCommands(use, short string, fam addressFamily) *cobra.Command {
	parent := &cobra.Command{Use: use, Short: short}

	add := &cobra.Command{
		Use:   "add <name> <ip|subnet>",
		Short: "Add an address to a host",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runAddressAdd(ctx, env, fam, args[0], args[1])
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	remove := &cobra.Command{
		Use:   "remove <name> <ip>",
		Short: "Remove an address from a host",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runAddressRemove(ctx, env, fam, args[0], args[1])
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	change := &cobra.Command{
		Use:   "change <name> <old-ip> <new-ip|subnet>",
		Short: "Replace an address of a host",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runAddressChange(ctx, env, fam, args[0], args[1], args[2])
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the addresses of a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			host, err := env.client.HostInfo(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			printAddresses(host.IPAddresses)
			return nil
		},
	}

	parent.AddCommand(add, remove, change, show)
	return parent
}

func runAddressAdd(ctx context.Context, env *cmdEnv, fam addressFamily, name, ipOrNet string) error {
	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}

	ip, err := pickFamilyAddress(ctx, env, fam, ipOrNet, host.Name)
	if err != nil {
		return err
	}

	if err := env.client.AddHostAddress(ctx, host.ID, ip); err != nil {
		return err
	}
	fmt.Printf("added ip %s to %s\n", ip, host.Name)
	env.log.Info("added address", zap.String("ip", ip), zap.String("host", host.Name))
	return nil
}

func runAddressRemove(ctx context.Context, env *cmdEnv, fam addressFamily, name, ip string) error {
	if !fam.valid(ip) {
		return fmt.Errorf("not a valid %s: %q", fam.name, ip)
	}

	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}
	if !holdsAddress(host, ip) {
		return fmt.Errorf("%s is not owned by %s", ip, host.Name)
	}

	if err := env.client.RemoveAddress(ctx, ip); err != nil {
		return err
	}
	fmt.Printf("removed ip %s from %s\n", ip, host.Name)
	env.log.Info("removed address", zap.String("ip", ip), zap.String("host", host.Name))
	return nil
}

func runAddressChange(ctx context.Context, env *cmdEnv, fam addressFamily, name, oldIP, newIPOrNet string) error {
	if !fam.valid(oldIP) {
		return fmt.Errorf("not a valid %s: %q (target host %s)", fam.name, oldIP, name)
	}

	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}
	if !holdsAddress(host, oldIP) {
		return fmt.Errorf("%s is not owned by %s", oldIP, host.Name)
	}

	newIP, err := pickFamilyAddress(ctx, env, fam, newIPOrNet, host.Name)
	if err != nil {
		return err
	}

	if err := env.client.ChangeAddress(ctx, oldIP, newIP); err != nil {
		return err
	}
	fmt.Printf("changed ip %s to %s for %s\n", oldIP, newIP, host.Name)
	env.log.Info("changed address",
		zap.String("from", oldIP), zap.String("to", newIP), zap.String("host", host.Name))
	return nil
}

// pickFamilyAddress accepts an address of the right family as-is and turns
// a subnet into its first unused address.
func pickFamilyAddress(ctx context.Context, env *cmdEnv, fam addressFamily, ipOrNet, hostName string) (string, error) {
	if fam.valid(ipOrNet) {
		return ipOrNet, nil
	}
	if !netutil.IsValidPrefix(ipOrNet) {
		return "", fmt.Errorf("invalid %s nor subnet: %q (target host: %s)", fam.name, ipOrNet, hostName)
	}
	ip, err := env.client.SubnetFirstUnused(ctx, ipOrNet)
	if err != nil {
		return "", err
	}
	if !fam.valid(ip) {
		return "", fmt.Errorf("subnet %s holds no %s addresses", ipOrNet, fam.name)
	}
	return ip, nil
}

func holdsAddress(host *mreg.Host, ip string) bool {
	for _, record := range host.IPAddresses {
		if record.Address == ip {
			return true
		}
	}
	return false
}

func newCNAMECommands() *cobra.Command {
	parent := &cobra.Command{Use: "cname", Short: "Manage CNAME aliases of a host"}

	add := &cobra.Command{
		Use:   "add <existing-name> <new-alias>",
		Short: "Add an alias for a host",
		Long: `Points a new alias at a host. The alias host is created when it
does not exist; an existing host can only become an alias when it carries no
records of its own.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runCNAMEAdd(ctx, env, args[0], args[1])
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	remove := &cobra.Command{
		Use:   "remove <name> <alias-to-delete>",
		Short: "Remove an alias of a host",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runCNAMERemove(ctx, env, args[0], args[1])
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the aliases of a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			return runCNAMEShow(cmd.Context(), env, args[0])
		},
	}

	parent.AddCommand(add, remove, show)
	return parent
}

func runCNAMEAdd(ctx context.Context, env *cmdEnv, name, alias string) error {
	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}

	aliasHost, err := env.client.HostInfo(ctx, alias, false)
	switch {
	case err == nil:
		if hostHasRecords(aliasHost) {
			return fmt.Errorf("host %s already exists and has record(s)", aliasHost.Name)
		}
	case errors.Is(err, mreg.ErrHostNotFound):
		// The alias host is created on the fly, inheriting the contact.
		qualified := env.client.QualifyName(alias)
		if err := env.client.CreateHost(ctx, mreg.HostCreate{Name: qualified, Contact: host.Contact}); err != nil {
			return err
		}
		aliasHost, err = env.client.HostInfo(ctx, qualified, false)
		if err != nil {
			return err
		}
	default:
		return err
	}

	if err := env.client.CreateCNAME(ctx, aliasHost.ID, host.Name); err != nil {
		return err
	}
	fmt.Printf("added cname alias %s for %s\n", aliasHost.Name, host.Name)
	env.log.Info("added cname",
		zap.String("alias", aliasHost.Name), zap.String("host", host.Name))
	return nil
}

func runCNAMERemove(ctx context.Context, env *cmdEnv, name, alias string) error {
	resolved, err := env.client.ResolveName(ctx, name)
	if err != nil {
		return err
	}

	aliasHost, err := env.client.HostInfo(ctx, alias, false)
	if err != nil {
		return err
	}
	if len(aliasHost.CNAMEs) == 0 {
		return fmt.Errorf("%q doesn't have any CNAME records", aliasHost.Name)
	}
	if aliasHost.CNAMEs[0].CName != resolved {
		return fmt.Errorf("%q is not an alias for %q", aliasHost.Name, resolved)
	}

	if err := env.client.DeleteHost(ctx, aliasHost.Name); err != nil {
		return err
	}
	fmt.Printf("removed cname alias %s for %s\n", aliasHost.Name, resolved)
	env.log.Info("removed cname",
		zap.String("alias", aliasHost.Name), zap.String("host", resolved))
	return nil
}

func runCNAMEShow(ctx context.Context, env *cmdEnv, name string) error {
	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}
	aliases, err := env.client.AliasesOf(ctx, host.Name)
	if err != nil {
		return err
	}
	for _, alias := range aliases {
		fmt.Printf("%-14s%s -> %s\n", "Cname:", alias, host.Name)
	}
	return nil
}

// hostHasRecords reports whether the host carries anything an alias host
// must not have: addresses, records, or an alias of its own.
func hostHasRecords(h *mreg.Host) bool {
	return h.Hinfo != nil || h.Loc != nil ||
		len(h.CNAMEs) > 0 || len(h.IPAddresses) > 0 || len(h.TXTs) > 0
}

func newTTLCommands() *cobra.Command {
	parent := &cobra.Command{Use: "ttl", Short: "Manage the TTL of a host"}

	set := &cobra.Command{
		Use:   "set <name> <ttl>",
		Short: `Set the TTL, 300 to 68400 or "default"`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runTTLSet(ctx, env, args[0], args[1])
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Drop the explicit TTL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runTTLRemove(ctx, env, args[0])
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the TTL of a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			host, err := env.client.HostInfo(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			printTTL(host.TTL)
			return nil
		},
	}

	parent.AddCommand(set, remove, show)
	return parent
}

func runTTLSet(ctx context.Context, env *cmdEnv, name, ttl string) error {
	// The alias host carries its own TTL, so no CNAME following here.
	resolved, err := env.client.ResolveName(ctx, name)
	if err != nil {
		return err
	}
	if !validate.IsValidTTL(ttl) {
		return fmt.Errorf("invalid TTL value: %s (target host %s)", ttl, resolved)
	}

	fields := mreg.Fields{"ttl": nil}
	if ttl != "default" {
		value, _ := strconv.Atoi(ttl)
		fields["ttl"] = value
	}
	if err := env.client.UpdateHost(ctx, resolved, fields); err != nil {
		return err
	}
	fmt.Printf("updated TTL for %s\n", resolved)
	env.log.Info("updated ttl", zap.String("name", resolved), zap.String("ttl", ttl))
	return nil
}

func runTTLRemove(ctx context.Context, env *cmdEnv, name string) error {
	resolved, err := env.client.ResolveName(ctx, name)
	if err != nil {
		return err
	}
	if err := env.client.UpdateHost(ctx, resolved, mreg.Fields{"ttl": nil}); err != nil {
		return err
	}
	fmt.Printf("removed TTL for %s\n", resolved)
	env.log.Info("removed ttl", zap.String("name", resolved))
	return nil
}

func newLocCommands() *cobra.Command {
	parent := &cobra.Command{Use: "loc", Short: "Manage the LOC record of a host"}

	set := &cobra.Command{
		Use:   "set <name> <loc>...",
		Short: "Set the location",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runLocSet(ctx, env, args[0], strings.Join(args[1:], " "))
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Drop the location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runLocRemove(ctx, env, args[0])
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the location of a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			host, err := env.client.HostInfo(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			if host.Loc != nil {
				fmt.Printf("%-14s%s\n", "Loc:", *host.Loc)
			}
			return nil
		},
	}

	parent.AddCommand(set, remove, show)
	return parent
}

func runLocSet(ctx context.Context, env *cmdEnv, name, loc string) error {
	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}
	if !validate.IsValidLoc(loc) {
		return fmt.Errorf("invalid LOC %q (target host %s)", loc, host.Name)
	}

	if err := env.client.UpdateHost(ctx, host.Name, mreg.Fields{"loc": loc}); err != nil {
		return err
	}
	fmt.Printf("updated LOC to %s for %s\n", loc, host.Name)
	env.log.Info("updated loc", zap.String("name", host.Name), zap.String("loc", loc))
	return nil
}

func runLocRemove(ctx context.Context, env *cmdEnv, name string) error {
	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}
	if err := env.client.UpdateHost(ctx, host.Name, mreg.Fields{"loc": nil}); err != nil {
		return err
	}
	fmt.Printf("removed LOC for %s\n", host.Name)
	env.log.Info("removed loc", zap.String("name", host.Name))
	return nil
}

func newHinfoCommands() *cobra.Command {
	parent := &cobra.Command{Use: "hinfo", Short: "Manage the hinfo preset of a host"}

	set := &cobra.Command{
		Use:   "set <name> <preset-id>",
		Short: "Set the hinfo preset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runHinfoSet(ctx, env, args[0], args[1])
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Drop the hinfo preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = runHinfoRemove(ctx, env, args[0])
			return env.finish(ctx, commandLine(cmd, args), err)
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the hinfo of a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			return runHinfoShow(cmd.Context(), env, args[0])
		},
	}

	parent.AddCommand(set, remove, show)
	return parent
}

func runHinfoSet(ctx context.Context, env *cmdEnv, name, value string) error {
	id, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid hinfo %q, expected a preset id", value)
	}

	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}
	hinfo, err := resolveHinfo(ctx, env, id)
	if err != nil {
		return err
	}
	if hinfo == nil {
		return fmt.Errorf("invalid hinfo (%d), no such preset", id)
	}

	if err := env.client.UpdateHost(ctx, host.Name, mreg.Fields{"hinfo": *hinfo}); err != nil {
		return err
	}
	fmt.Printf("updated hinfo to %d for %s\n", id, host.Name)
	env.log.Info("updated hinfo", zap.String("name", host.Name), zap.Int("hinfo", id))
	return nil
}

func runHinfoRemove(ctx context.Context, env *cmdEnv, name string) error {
	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}
	if err := env.client.UpdateHost(ctx, host.Name, mreg.Fields{"hinfo": nil}); err != nil {
		return err
	}
	fmt.Printf("removed hinfo for %s\n", host.Name)
	env.log.Info("removed hinfo", zap.String("name", host.Name))
	return nil
}

func runHinfoShow(ctx context.Context, env *cmdEnv, name string) error {
	host, err := env.client.HostInfo(ctx, name, true)
	if err != nil {
		return err
	}
	if host.Hinfo == nil {
		return nil
	}

	presets, err := env.client.HinfoPresets(ctx)
	if err != nil {
		return err
	}
	for _, preset := range presets {
		if preset.ID == *host.Hinfo {
			fmt.Printf("%-14scpu=%s os=%s\n", "Hinfo:", preset.CPU, preset.OS)
		}
	}
	return nil
}

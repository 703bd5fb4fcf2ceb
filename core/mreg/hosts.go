package mreg

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ResolveName finds the stored long-form name for a host given on short or
// long form. Returns ErrHostNotFound when no host matches.
func (c *Client) ResolveName(ctx context.Context, name string) (string, error) {
	hostname := name
	if !strings.Contains(name, ".") {
		hostname = c.QualifyName(name)
	}

	var hosts []Host
	if err := c.get(ctx, "/hosts/?name="+url.QueryEscape(hostname), &hosts); err != nil {
		return "", err
	}
	if len(hosts) == 1 {
		return hostname, nil
	}
	return "", fmt.Errorf("%w: %s", ErrHostNotFound, name)
}

// HostByName fetches a single host. The name must be on long form.
func (c *Client) HostByName(ctx context.Context, name string) (*Host, error) {
	var host Host
	if err := c.get(ctx, "/hosts/"+name, &host); err != nil {
		return nil, err
	}
	return &host, nil
}

// HostInfo resolves name and fetches its host. With followCNAME set, an
// alias resolves to its canonical host instead.
func (c *Client) HostInfo(ctx context.Context, name string, followCNAME bool) (*Host, error) {
	resolved, err := c.ResolveName(ctx, name)
	if err != nil {
		return nil, err
	}

	host, err := c.HostByName(ctx, resolved)
	if err != nil {
		return nil, err
	}

	if followCNAME && len(host.CNAMEs) > 0 {
		if len(host.CNAMEs) > 1 {
			return nil, fmt.Errorf("%s has multiple CNAME records", resolved)
		}
		return c.HostInfo(ctx, host.CNAMEs[0].CName, true)
	}
	return host, nil
}

// HostForAddress returns the name of the host holding the given address.
// Returns ErrHostNotFound when the address belongs to no host.
func (c *Client) HostForAddress(ctx context.Context, ip string) (string, error) {
	var hosts []Host
	if err := c.get(ctx, "/hosts/?ipaddress__ipaddress="+url.QueryEscape(ip), &hosts); err != nil {
		return "", err
	}
	if len(hosts) > 1 {
		return "", fmt.Errorf("multiple hosts hold address %s", ip)
	}
	if len(hosts) == 0 {
		return "", fmt.Errorf("%w: no host holds %s", ErrHostNotFound, ip)
	}
	return hosts[0].Name, nil
}

// AliasesOf lists the names of every alias host pointing at name.
func (c *Client) AliasesOf(ctx context.Context, name string) ([]string, error) {
	var hosts []Host
	if err := c.get(ctx, "/hosts/?cname__cname="+url.QueryEscape(name), &hosts); err != nil {
		return nil, err
	}
	aliases := make([]string, 0, len(hosts))
	for _, host := range hosts {
		aliases = append(aliases, host.Name)
	}
	return aliases, nil
}

// CreateHost creates a new host.
func (c *Client) CreateHost(ctx context.Context, host HostCreate) error {
	return c.mutate(ctx, http.MethodPost, "/hosts/", host, "/hosts/"+host.Name)
}

// UpdateHost patches the given fields of a host.
func (c *Client) UpdateHost(ctx context.Context, name string, fields Fields) error {
	return c.mutate(ctx, http.MethodPatch, "/hosts/"+name, fields, "")
}

// DeleteHost removes a host and its records.
func (c *Client) DeleteHost(ctx context.Context, name string) error {
	return c.mutate(ctx, http.MethodDelete, "/hosts/"+name, nil, "/hosts/")
}

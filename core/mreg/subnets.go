package mreg

import (
	"context"
	"fmt"
	"net/http"

	"mreg-cli/core/netutil"
)

// Subnets fetches every subnet the service knows about.
func (c *Client) Subnets(ctx context.Context) ([]Subnet, error) {
	var subnets []Subnet
	if err := c.get(ctx, "/subnets/", &subnets); err != nil {
		return nil, err
	}
	return subnets, nil
}

// Subnet fetches a single subnet by its range.
func (c *Client) Subnet(ctx context.Context, ipRange string) (*Subnet, error) {
	var subnet Subnet
	if err := c.get(ctx, "/subnets/"+ipRange, &subnet); err != nil {
		return nil, err
	}
	return &subnet, nil
}

// SubnetForAddress finds the subnet containing the given address, scanning
// the full inventory. Returns IsNotFound-matching error when no subnet holds
// the address.
func (c *Client) SubnetForAddress(ctx context.Context, ip string) (*Subnet, error) {
	subnets, err := c.Subnets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range subnets {
		ok, err := netutil.Contains(subnets[i].Range, ip)
		if err != nil {
			continue
		}
		if ok {
			return &subnets[i], nil
		}
	}
	return nil, &APIError{
		Method:     http.MethodGet,
		URL:        c.AbsoluteURL("/subnets/"),
		StatusCode: http.StatusNotFound,
		Body:       []byte(fmt.Sprintf(`{"detail": "no subnet contains %s"}`, ip)),
	}
}

// SubnetUsedList lists the addresses in use on a subnet.
func (c *Client) SubnetUsedList(ctx context.Context, ipRange string) ([]string, error) {
	var used []string
	if err := c.get(ctx, "/subnets/"+ipRange+"?used_list", &used); err != nil {
		return nil, err
	}
	return used, nil
}

// SubnetUsedCount returns the number of addresses in use on a subnet.
func (c *Client) SubnetUsedCount(ctx context.Context, ipRange string) (int, error) {
	var count int
	if err := c.get(ctx, "/subnets/"+ipRange+"?used_count", &count); err != nil {
		return 0, err
	}
	return count, nil
}

// SubnetUnusedList lists the free addresses on a subnet.
func (c *Client) SubnetUnusedList(ctx context.Context, ipRange string) ([]string, error) {
	var unused []string
	if err := c.get(ctx, "/subnets/"+ipRange+"?unused_list", &unused); err != nil {
		return nil, err
	}
	return unused, nil
}

// SubnetUnusedCount returns the number of free addresses on a subnet.
func (c *Client) SubnetUnusedCount(ctx context.Context, ipRange string) (int, error) {
	var count int
	if err := c.get(ctx, "/subnets/"+ipRange+"?unused_count", &count); err != nil {
		return 0, err
	}
	return count, nil
}

// SubnetFirstUnused returns the first free address on a subnet, empty string
// if the subnet is full.
func (c *Client) SubnetFirstUnused(ctx context.Context, ipRange string) (string, error) {
	var ip string
	if err := c.get(ctx, "/subnets/"+ipRange+"?first_unused", &ip); err != nil {
		return "", err
	}
	return ip, nil
}

// SubnetReservedIPs lists the reserved addresses on a subnet.
func (c *Client) SubnetReservedIPs(ctx context.Context, ipRange string) ([]string, error) {
	var reserved []string
	if err := c.get(ctx, "/subnets/"+ipRange+"?reserved_list", &reserved); err != nil {
		return nil, err
	}
	return reserved, nil
}

// CreateSubnet creates a new subnet.
func (c *Client) CreateSubnet(ctx context.Context, subnet SubnetCreate) error {
	return c.mutate(ctx, http.MethodPost, "/subnets/", subnet, "/subnets/"+subnet.Range)
}

// UpdateSubnet patches the given fields of a subnet.
func (c *Client) UpdateSubnet(ctx context.Context, ipRange string, fields Fields) error {
	return c.mutate(ctx, http.MethodPatch, "/subnets/"+ipRange, fields, "")
}

// DeleteSubnet removes a subnet.
func (c *Client) DeleteSubnet(ctx context.Context, ipRange string) error {
	return c.mutate(ctx, http.MethodDelete, "/subnets/"+ipRange, nil, "/subnets/")
}

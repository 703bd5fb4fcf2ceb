package mreg

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AddHostAddress adds an A or AAAA record to the host with the given id.
func (c *Client) AddHostAddress(ctx context.Context, hostID int64, ip string) error {
	payload := Fields{"hostid": hostID, "ipaddress": ip}
	return c.mutate(ctx, http.MethodPost, "/ipaddresses/", payload, "/ipaddresses/"+ip)
}

// ChangeAddress rewrites an existing A or AAAA record in place.
func (c *Client) ChangeAddress(ctx context.Context, oldIP, newIP string) error {
	return c.mutate(ctx, http.MethodPatch, "/ipaddresses/"+oldIP, Fields{"ipaddress": newIP}, "")
}

// RemoveAddress deletes an A or AAAA record.
func (c *Client) RemoveAddress(ctx context.Context, ip string) error {
	return c.mutate(ctx, http.MethodDelete, "/ipaddresses/"+ip, nil, "/ipaddresses/")
}

// CreateCNAME makes the host with the given id an alias for target. The
// record id is server-assigned, so this mutation carries no undo path.
func (c *Client) CreateCNAME(ctx context.Context, hostID int64, target string) error {
	return c.mutate(ctx, http.MethodPost, "/cnames/", Fields{"hostid": hostID, "cname": target}, "")
}

// CNAMEsPointingAt lists every CNAME record whose target is name.
func (c *Client) CNAMEsPointingAt(ctx context.Context, name string) ([]CNAME, error) {
	var cnames []CNAME
	if err := c.get(ctx, "/cnames/?cname="+url.QueryEscape(name), &cnames); err != nil {
		return nil, err
	}
	return cnames, nil
}

// RepointCNAME changes the target of an existing CNAME record.
func (c *Client) RepointCNAME(ctx context.Context, id int64, target string) error {
	path := fmt.Sprintf("/cnames/%d", id)
	return c.mutate(ctx, http.MethodPatch, path, Fields{"cname": target}, "")
}

// HinfoPresets lists the hinfo presets hosts can reference.
func (c *Client) HinfoPresets(ctx context.Context) ([]HinfoPreset, error) {
	var presets []HinfoPreset
	if err := c.get(ctx, "/hinfopresets/", &presets); err != nil {
		return nil, err
	}
	return presets, nil
}

// Zones lists the DNS zones the service controls.
func (c *Client) Zones(ctx context.Context) ([]Zone, error) {
	var zones []Zone
	if err := c.get(ctx, "/zones/", &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// ZoneControlled reports whether the named zone is controlled by the service.
func (c *Client) ZoneControlled(ctx context.Context, zone string) (bool, error) {
	var zones []Zone
	if err := c.get(ctx, "/zones/?name="+url.QueryEscape(zone), &zones); err != nil {
		return false, err
	}
	return len(zones) > 0, nil
}

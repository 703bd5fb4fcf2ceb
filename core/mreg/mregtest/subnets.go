package mregtest

import (
	"fmt"
	"net/netip"
	"sort"

	"github.com/gofiber/fiber/v2"

	"mreg-cli/core/mreg"
	"mreg-cli/core/netutil"
)

// enumerationLimit caps address walks so a mistakenly seeded huge range
// cannot hang a test.
const enumerationLimit = 1 << 16

func (s *Server) listSubnets(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranges := make([]string, 0, len(s.subnets))
	for r := range s.subnets {
		ranges = append(ranges, r)
	}
	sort.Strings(ranges)

	out := make([]mreg.Subnet, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, *s.subnets[r])
	}
	return c.JSON(out)
}

func (s *Server) getSubnet(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subnets[c.Params("*")]
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}

	flags := c.Context().QueryArgs()
	switch {
	case flags.Has("used_count"):
		return c.JSON(len(s.usedAddresses(sub)))
	case flags.Has("used_list"):
		return c.JSON(s.usedAddresses(sub))
	case flags.Has("unused_count"):
		return c.JSON(len(s.unusedAddresses(sub)))
	case flags.Has("unused_list"):
		return c.JSON(s.unusedAddresses(sub))
	case flags.Has("first_unused"):
		unused := s.unusedAddresses(sub)
		if len(unused) == 0 {
			return c.JSON("")
		}
		return c.JSON(unused[0])
	case flags.Has("reserved_list"):
		reserved, err := netutil.ReservedAddresses(sub.Range, sub.Reserved)
		if err != nil {
			return detail(c, fiber.StatusInternalServerError, err.Error())
		}
		if reserved == nil {
			reserved = []string{}
		}
		return c.JSON(reserved)
	}
	return c.JSON(sub)
}

func (s *Server) createSubnet(c *fiber.Ctx) error {
	var payload mreg.SubnetCreate
	if err := c.BodyParser(&payload); err != nil {
		return detail(c, fiber.StatusBadRequest, "malformed subnet payload")
	}
	if !netutil.IsValidPrefix(payload.Range) {
		return detail(c, fiber.StatusBadRequest, "invalid subnet range "+payload.Range)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subnets[payload.Range]; exists {
		return detail(c, fiber.StatusConflict, "subnet already exists")
	}

	sub := &mreg.Subnet{
		Range:       payload.Range,
		Description: payload.Description,
		VLAN:        payload.VLAN,
		Category:    payload.Category,
		Location:    payload.Location,
		Frozen:      payload.Frozen,
		// New subnets hold back three addresses for infrastructure,
		// matching the service default.
		Reserved: 3,
	}
	s.subnets[sub.Range] = sub
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// patchSubnet applies the known subnet fields and ignores the rest, the
// same way the service treats read-only fields in a PATCH.
func (s *Server) patchSubnet(c *fiber.Ctx) error {
	fields, err := parseFields(c)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "malformed patch payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subnets[c.Params("*")]
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}

	for key, value := range fields {
		switch key {
		case "description":
			sub.Description, _ = value.(string)
		case "vlan":
			sub.VLAN = intField(value)
		case "category":
			sub.Category = strField(value)
		case "location":
			sub.Location = strField(value)
		case "frozen":
			sub.Frozen, _ = value.(bool)
		case "reserved":
			if n := intField(value); n != nil {
				sub.Reserved = *n
			}
		case "dns_delegated":
			sub.DNSDelegated, _ = value.(bool)
		}
	}
	return c.JSON(sub)
}

func (s *Server) deleteSubnet(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subnets[c.Params("*")]
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}

	// The service refuses to drop a subnet while hosts still hold
	// addresses on it.
	if n := len(s.usedAddresses(sub)); n > 0 {
		return detail(c, fiber.StatusConflict,
			fmt.Sprintf("subnet %s has %d addresses in use", sub.Range, n))
	}

	delete(s.subnets, sub.Range)
	return c.SendStatus(fiber.StatusNoContent)
}

// usedAddresses lists the host-held addresses inside the range, in address
// order. Callers hold s.mu.
func (s *Server) usedAddresses(sub *mreg.Subnet) []string {
	var used []netip.Addr
	for _, h := range s.hosts {
		for _, ip := range h.IPAddresses {
			ok, err := netutil.Contains(sub.Range, ip.Address)
			if err != nil || !ok {
				continue
			}
			if addr, err := netip.ParseAddr(ip.Address); err == nil {
				used = append(used, addr)
			}
		}
	}
	sort.Slice(used, func(i, j int) bool { return used[i].Less(used[j]) })

	out := make([]string, 0, len(used))
	for _, addr := range used {
		out = append(out, addr.String())
	}
	return out
}

// unusedAddresses walks the range's usable addresses and drops the reserved
// ones and the ones hosts hold. Callers hold s.mu.
func (s *Server) unusedAddresses(sub *mreg.Subnet) []string {
	taken := make(map[string]bool)
	for _, ip := range s.usedAddresses(sub) {
		taken[ip] = true
	}
	reserved, err := netutil.ReservedAddresses(sub.Range, sub.Reserved)
	if err != nil {
		return []string{}
	}
	for _, ip := range reserved {
		taken[ip] = true
	}

	first, last, err := netutil.NetworkBroadcast(sub.Range)
	if err != nil {
		return []string{}
	}

	out := make([]string, 0)
	walked := 0
	for addr := first.Next(); addr.IsValid() && addr.Less(last) && walked < enumerationLimit; addr = addr.Next() {
		walked++
		if !taken[addr.String()] {
			out = append(out, addr.String())
		}
	}
	return out
}

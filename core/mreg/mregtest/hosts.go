package mregtest

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"mreg-cli/core/mreg"
)

func (s *Server) listHosts(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := c.Query("name")
	aliasTarget := c.Query("cname__cname")
	address := c.Query("ipaddress__ipaddress")

	out := make([]mreg.Host, 0)
	for _, h := range s.hosts {
		if name != "" && h.Name != name {
			continue
		}
		if aliasTarget != "" && !pointsAt(h, aliasTarget) {
			continue
		}
		if address != "" && !holdsAddress(h, address) {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return c.JSON(out)
}

func pointsAt(h *mreg.Host, target string) bool {
	for _, cn := range h.CNAMEs {
		if cn.CName == target {
			return true
		}
	}
	return false
}

func holdsAddress(h *mreg.Host, ip string) bool {
	for _, a := range h.IPAddresses {
		if a.Address == ip {
			return true
		}
	}
	return false
}

func (s *Server) getHost(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hosts[c.Params("name")]
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}
	return c.JSON(h)
}

func (s *Server) createHost(c *fiber.Ctx) error {
	var payload mreg.HostCreate
	if err := c.BodyParser(&payload); err != nil {
		return detail(c, fiber.StatusBadRequest, "malformed host payload")
	}
	if payload.Name == "" {
		return detail(c, fiber.StatusBadRequest, "host name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.hosts[payload.Name]; exists {
		return detail(c, fiber.StatusConflict, "host with this name already exists")
	}

	h := &mreg.Host{
		ID:      s.nextID,
		Name:    payload.Name,
		Contact: payload.Contact,
		Comment: payload.Comment,
		Hinfo:   payload.Hinfo,
	}
	s.nextID++
	if payload.IPAddress != "" {
		h.IPAddresses = append(h.IPAddresses, mreg.IPAddress{Address: payload.IPAddress})
	}
	s.hosts[h.Name] = h
	return c.Status(fiber.StatusCreated).JSON(h)
}

// patchHost applies the known host fields and ignores the rest, the same
// way the service treats read-only fields in a PATCH.
func (s *Server) patchHost(c *fiber.Ctx) error {
	fields, err := parseFields(c)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "malformed patch payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hosts[c.Params("name")]
	if !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}

	for key, value := range fields {
		switch key {
		case "name":
			name, ok := value.(string)
			if !ok || name == "" {
				return detail(c, fiber.StatusBadRequest, "name must be a non-empty string")
			}
			delete(s.hosts, h.Name)
			h.Name = name
			s.hosts[name] = h
		case "contact":
			h.Contact, _ = value.(string)
		case "comment":
			h.Comment, _ = value.(string)
		case "ttl":
			h.TTL = intField(value)
		case "hinfo":
			h.Hinfo = intField(value)
		case "loc":
			h.Loc = strField(value)
		}
	}
	return c.JSON(h)
}

func (s *Server) deleteHost(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := c.Params("name")
	if _, ok := s.hosts[name]; !ok {
		return detail(c, fiber.StatusNotFound, "Not found.")
	}
	delete(s.hosts, name)
	return c.SendStatus(fiber.StatusNoContent)
}

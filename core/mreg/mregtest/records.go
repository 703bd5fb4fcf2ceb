package mregtest

import (
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"mreg-cli/core/mreg"
)

type addressPayload struct {
	HostID    int64  `json:"hostid"`
	IPAddress string `json:"ipaddress"`
	MAC       string `json:"macaddress"`
}

func (s *Server) addAddress(c *fiber.Ctx) error {
	var payload addressPayload
	if err := c.BodyParser(&payload); err != nil {
		return detail(c, fiber.StatusBadRequest, "malformed address payload")
	}
	if payload.IPAddress == "" {
		return detail(c, fiber.StatusBadRequest, "ipaddress is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.hostByID(payload.HostID)
	if h == nil {
		return detail(c, fiber.StatusBadRequest, "no host with id "+strconv.FormatInt(payload.HostID, 10))
	}
	h.IPAddresses = append(h.IPAddresses, mreg.IPAddress{Address: payload.IPAddress, MAC: payload.MAC})
	return c.SendStatus(fiber.StatusCreated)
}

// getAddress returns a record in the same shape addAddress accepts, so a
// captured body can recreate the record verbatim.
func (s *Server) getAddress(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ip := c.Params("ip")
	for _, h := range s.hosts {
		for _, a := range h.IPAddresses {
			if a.Address == ip {
				return c.JSON(fiber.Map{
					"hostid":     h.ID,
					"ipaddress":  a.Address,
					"macaddress": a.MAC,
				})
			}
		}
	}
	return detail(c, fiber.StatusNotFound, "Not found.")
}

func (s *Server) changeAddress(c *fiber.Ctx) error {
	fields, err := parseFields(c)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "malformed patch payload")
	}
	next, _ := fields["ipaddress"].(string)
	if next == "" {
		return detail(c, fiber.StatusBadRequest, "ipaddress must be a non-empty string")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ip := c.Params("ip")
	for _, h := range s.hosts {
		for i := range h.IPAddresses {
			if h.IPAddresses[i].Address == ip {
				h.IPAddresses[i].Address = next
				return c.JSON(h.IPAddresses[i])
			}
		}
	}
	return detail(c, fiber.StatusNotFound, "Not found.")
}

func (s *Server) removeAddress(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ip := c.Params("ip")
	for _, h := range s.hosts {
		for i := range h.IPAddresses {
			if h.IPAddresses[i].Address == ip {
				h.IPAddresses = append(h.IPAddresses[:i], h.IPAddresses[i+1:]...)
				return c.SendStatus(fiber.StatusNoContent)
			}
		}
	}
	return detail(c, fiber.StatusNotFound, "Not found.")
}

func (s *Server) hostByID(id int64) *mreg.Host {
	for _, h := range s.hosts {
		if h.ID == id {
			return h
		}
	}
	return nil
}

type cnamePayload struct {
	HostID int64  `json:"hostid"`
	CName  string `json:"cname"`
}

func (s *Server) createCNAME(c *fiber.Ctx) error {
	var payload cnamePayload
	if err := c.BodyParser(&payload); err != nil {
		return detail(c, fiber.StatusBadRequest, "malformed cname payload")
	}
	if payload.CName == "" {
		return detail(c, fiber.StatusBadRequest, "cname target is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.hostByID(payload.HostID)
	if h == nil {
		return detail(c, fiber.StatusBadRequest, "no host with id "+strconv.FormatInt(payload.HostID, 10))
	}
	record := mreg.CNAME{ID: s.nextID, CName: payload.CName}
	s.nextID++
	h.CNAMEs = append(h.CNAMEs, record)
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (s *Server) listCNAMEs(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := c.Query("cname")
	out := make([]mreg.CNAME, 0)
	for _, h := range s.hosts {
		for _, cn := range h.CNAMEs {
			if target != "" && cn.CName != target {
				continue
			}
			out = append(out, cn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(out)
}

func (s *Server) getCNAME(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "cname id must be numeric")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record := s.cnameByID(id); record != nil {
		return c.JSON(record)
	}
	return detail(c, fiber.StatusNotFound, "Not found.")
}

func (s *Server) patchCNAME(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "cname id must be numeric")
	}
	fields, err := parseFields(c)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "malformed patch payload")
	}
	target, _ := fields["cname"].(string)
	if target == "" {
		return detail(c, fiber.StatusBadRequest, "cname must be a non-empty string")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record := s.cnameByID(id); record != nil {
		record.CName = target
		return c.JSON(record)
	}
	return detail(c, fiber.StatusNotFound, "Not found.")
}

func (s *Server) cnameByID(id int64) *mreg.CNAME {
	for _, h := range s.hosts {
		for i := range h.CNAMEs {
			if h.CNAMEs[i].ID == id {
				return &h.CNAMEs[i]
			}
		}
	}
	return nil
}

func (s *Server) listHinfoPresets(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.presets)
}

func (s *Server) listZones(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := c.Query("name")
	out := make([]mreg.Zone, 0)
	for _, z := range s.zones {
		if name != "" && z.Name != name {
			continue
		}
		out = append(out, z)
	}
	return c.JSON(out)
}

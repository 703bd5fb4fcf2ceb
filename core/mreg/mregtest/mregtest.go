package mregtest

import (
	"encoding/json"
	"net"
	"sort"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mreg-cli/core/logger"
	"mreg-cli/core/mreg"
)

// Call is one request the server saw, in arrival order. URL carries the
// query string when the request had one.
type Call struct {
	Method string
	URL    string
}

// Server is an in-memory stand-in for the inventory API. It serves the
// endpoints the client uses, keeps state in plain maps, and records every
// request so tests can assert on the traffic.
type Server struct {
	app *fiber.App
	log *zap.Logger

	mu      sync.Mutex
	hosts   map[string]*mreg.Host
	subnets map[string]*mreg.Subnet
	presets []mreg.HinfoPreset
	zones   []mreg.Zone
	nextID  int64
	calls   []Call
}

// New creates a server with empty state. Pass nil to discard request logs.
func New(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		log:     log,
		hosts:   make(map[string]*mreg.Host),
		subnets: make(map[string]*mreg.Subnet),
		presets: []mreg.HinfoPreset{},
		zones:   []mreg.Zone{},
		nextID:  1,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Ray id first so every line logged below can carry it.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("ray_id", uuid.NewString())
		s.mu.Lock()
		// Ctx strings alias fasthttp's reused request buffers and are only
		// valid within the handler; copy before keeping them past it.
		s.calls = append(s.calls, Call{Method: utils.CopyString(c.Method()), URL: utils.CopyString(c.OriginalURL())})
		s.mu.Unlock()
		return c.Next()
	})
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(s.log, c)
		l.Debug("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		return c.Next()
	})

	s.register(app)
	s.app = app
	return s
}

// register wires the API routes. Subnet routes use a wildcard because a
// subnet range contains a slash of its own.
func (s *Server) register(app fiber.Router) {
	hosts := app.Group("/hosts")
	hosts.Get("/", s.listHosts)
	hosts.Post("/", s.createHost)
	hosts.Get("/:name", s.getHost)
	hosts.Patch("/:name", s.patchHost)
	hosts.Delete("/:name", s.deleteHost)

	subnets := app.Group("/subnets")
	subnets.Get("/", s.listSubnets)
	subnets.Post("/", s.createSubnet)
	subnets.Get("/*", s.getSubnet)
	subnets.Patch("/*", s.patchSubnet)
	subnets.Delete("/*", s.deleteSubnet)

	addresses := app.Group("/ipaddresses")
	addresses.Post("/", s.addAddress)
	addresses.Get("/:ip", s.getAddress)
	addresses.Patch("/:ip", s.changeAddress)
	addresses.Delete("/:ip", s.removeAddress)

	cnames := app.Group("/cnames")
	cnames.Get("/", s.listCNAMEs)
	cnames.Post("/", s.createCNAME)
	cnames.Get("/:id", s.getCNAME)
	cnames.Patch("/:id", s.patchCNAME)

	app.Get("/hinfopresets/", s.listHinfoPresets)
	app.Get("/zones/", s.listZones)
}

// Start serves the stub on an ephemeral localhost port and returns its base
// URL. The server shuts down when the test finishes.
func (s *Server) Start(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen for stub server: %v", err)
	}
	go func() {
		_ = s.app.Listener(ln)
	}()
	t.Cleanup(func() { _ = s.app.Shutdown() })
	return "http://" + ln.Addr().String()
}

// Listen serves the stub on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops a running server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Calls returns every request seen so far, in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// ResetCalls clears the recorded requests. State is kept.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// SeedHost inserts a host directly into state. Missing record ids are
// assigned.
func (s *Server) SeedHost(h mreg.Host) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == 0 {
		h.ID = s.nextID
		s.nextID++
	}
	for i := range h.CNAMEs {
		if h.CNAMEs[i].ID == 0 {
			h.CNAMEs[i].ID = s.nextID
			s.nextID++
		}
	}
	s.hosts[h.Name] = &h
}

// SeedSubnet inserts a subnet directly into state.
func (s *Server) SeedSubnet(sub mreg.Subnet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subnets[sub.Range] = &sub
}

// SeedHinfoPreset registers a cpu/os pair and returns its id.
func (s *Server) SeedHinfoPreset(cpu, os string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := int(s.nextID)
	s.nextID++
	s.presets = append(s.presets, mreg.HinfoPreset{ID: id, CPU: cpu, OS: os})
	return id
}

// SeedZone registers a controlled zone.
func (s *Server) SeedZone(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones = append(s.zones, mreg.Zone{Name: name})
}

// Host returns a copy of the named host's current state.
func (s *Server) Host(name string) (mreg.Host, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hosts[name]
	if !ok {
		return mreg.Host{}, false
	}
	return *h, true
}

// Subnet returns a copy of the subnet's current state.
func (s *Server) Subnet(ipRange string) (mreg.Subnet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subnets[ipRange]
	if !ok {
		return mreg.Subnet{}, false
	}
	return *sub, true
}

// SubnetRanges returns the ranges currently in state, sorted.
func (s *Server) SubnetRanges() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranges := make([]string, 0, len(s.subnets))
	for r := range s.subnets {
		ranges = append(ranges, r)
	}
	sort.Strings(ranges)
	return ranges
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}

func parseFields(c *fiber.Ctx) (map[string]any, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// intField converts a decoded JSON value to *int. Numbers arrive from the
// decoder as float64; null and anything non-numeric clear the field.
func intField(v any) *int {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func strField(v any) *string {
	str, ok := v.(string)
	if !ok {
		return nil
	}
	return &str
}

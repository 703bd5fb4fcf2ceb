// Package mregtest is an in-memory double of the inventory API for tests
// and local development.
//
// The server speaks the subset of the API the client uses: hosts with
// their address and alias records, subnets with the address accounting
// query flags (used_list, unused_list, first_unused and friends), hinfo
// presets and zones. State lives in maps behind one mutex, every request
// is recorded so tests can assert on traffic, and unknown PATCH fields
// are ignored the way the service ignores read-only fields.
//
// Tests usually seed some state and start it on an ephemeral port:
//
//	stub := mregtest.New(nil)
//	stub.SeedSubnet(mreg.Subnet{Range: "10.0.0.0/24", Reserved: 1})
//	client := mreg.NewClient(mreg.Config{URL: stub.Start(t)}, zap.NewNop())
//
// The debug stub server command serves the same double on a fixed port
// for poking at the CLI by hand.
package mregtest

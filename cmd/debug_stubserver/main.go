// Runs the in-memory mreg API stub on a real port, seeded with a small
// inventory, so client commands can be exercised without a live service:
//
//	go run ./cmd/debug_stubserver [addr]
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"mreg-cli/core/logger"
	"mreg-cli/core/mreg"
	"mreg-cli/core/mreg/mregtest"

	"go.uber.org/zap"
)

func main() {
	addr := ":8000"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}

	logg, err := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if err != nil {
		log.Fatal(err)
	}

	srv := mregtest.New(logg)
	seed(srv)

	go func() {
		logg.Info("Stub mreg API listening", zap.String("addr", addr))
		if err := srv.Listen(addr); err != nil {
			logg.Fatal("Stub server failed", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logg.Info("Shutting down stub server...")
	_ = srv.Shutdown()
}

// seed loads a small inventory so commands have something to show.
func seed(srv *mregtest.Server) {
	srv.SeedZone("example.org")
	srv.SeedHinfoPreset("x86-64", "linux")
	srv.SeedHinfoPreset("arm64", "linux")

	vlan := 101
	srv.SeedSubnet(mreg.Subnet{Range: "10.0.0.0/24", Description: "office net", VLAN: &vlan, Reserved: 3})
	srv.SeedSubnet(mreg.Subnet{Range: "10.0.1.0/24", Description: "lab net", Reserved: 3})

	srv.SeedHost(mreg.Host{
		Name:        "gw.example.org",
		Contact:     "hostmaster@example.org",
		IPAddresses: []mreg.IPAddress{{Address: "10.0.0.4", MAC: "28:85:b1:60:54:dc"}},
	})
	srv.SeedHost(mreg.Host{
		Name:        "files.example.org",
		Contact:     "hostmaster@example.org",
		Comment:     "file server",
		IPAddresses: []mreg.IPAddress{{Address: "10.0.0.5"}},
	})
	srv.SeedHost(mreg.Host{
		Name:    "nas.example.org",
		Contact: "hostmaster@example.org",
		CNAMEs:  []mreg.CNAME{{CName: "files.example.org"}},
	})
}

package vlans

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Lines like "129.240.12.0/23   ifi-ansatte  vlan 412  bygg IFI2". The word
// "vlan" in any casing introduces the id.
var vlanLineRe = regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+/\d+)\s+.*?(?i:vlan)\s*(\d+)`)

// FileProvider reads the mapping from the flat VLAN definition files
// maintained outside the inventory service.
type FileProvider struct {
	paths []string
}

// NewFileProvider creates a provider reading the given files in order.
func NewFileProvider(paths ...string) *FileProvider {
	return &FileProvider{paths: paths}
}

// NewFileProviderFromConfig creates a provider from the comma-separated file
// list in cfg.
func NewFileProviderFromConfig(cfg Config) *FileProvider {
	var paths []string
	for _, p := range strings.Split(cfg.Files, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return NewFileProvider(paths...)
}

func (p *FileProvider) Mapping(_ context.Context) (Mapping, error) {
	m := make(Mapping)
	for _, path := range p.paths {
		if err := readFile(path, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func readFile(path string, m Mapping) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening vlan file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		match := vlanLineRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		vlan, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		m[match[1]] = vlan
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading vlan file %s: %w", path, err)
	}
	return nil
}

package netimport

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"mreg-cli/core/netutil"
	"mreg-cli/core/tags"
	"mreg-cli/core/vlans"
)

// Import lines look like
//
//	129.240.12.0/23   :ifi:stud:|Informatics student network
//
// range, a colon-fenced tag list, a "|", and the description.
var importLineRe = regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+/\d+)\s+:(.*):\|(.*)`)

// Parser turns an import file into the desired inventory.
type Parser struct {
	// Tags classifies the colon-fenced tags on each line.
	Tags *tags.Resolver

	// VLANs annotates each range with its VLAN id; ranges without an entry
	// get a nil VLAN.
	VLANs vlans.Mapping

	// TagFileRef names the tag vocabulary in invalid-tag diagnostics.
	TagFileRef string
}

// ParseFile parses the import file at path.
func (p *Parser) ParseFile(path string) (Inventory, []Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads the desired inventory from r. Lines that do not match the
// import format, unknown tags, invalid ranges and duplicate ranges become
// diagnostics; none of them stop the parse.
func (p *Parser) Parse(r io.Reader) (Inventory, []Diagnostic, error) {
	inventory := make(Inventory)
	var diagnostics []Diagnostic

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		match := importLineRe.FindStringSubmatch(line)
		if match == nil {
			diagnostics = append(diagnostics, Diagnostic{
				Line:    lineNumber,
				Message: "Line did not match the import format, skipped",
			})
			continue
		}

		ipRange := match[1]
		if !netutil.IsValidPrefix(ipRange) {
			diagnostics = append(diagnostics, Diagnostic{
				Line:    lineNumber,
				Message: fmt.Sprintf("Invalid range %s, skipped", ipRange),
			})
			continue
		}

		record := Record{
			Range:       ipRange,
			Description: strings.TrimSpace(match[3]),
		}

		// Tag segments are taken verbatim: no trimming, and an empty
		// segment is an unknown tag like any other.
		var category string
		for _, tag := range strings.Split(match[2], ":") {
			switch p.Tags.Classify(tag) {
			case tags.Location:
				record.Location = &tag
			case tags.Category:
				if category == "" {
					category = tag
				} else {
					category += " " + tag
				}
			default:
				diagnostics = append(diagnostics, Diagnostic{
					Line:    lineNumber,
					Message: fmt.Sprintf("Invalid tag %s. Valid tags can be found in %s", tag, p.TagFileRef),
				})
			}
		}
		if category != "" {
			record.Category = &category
		}

		if vlan, ok := p.VLANs[ipRange]; ok {
			record.VLAN = &vlan
		}

		if _, ok := inventory[ipRange]; ok {
			diagnostics = append(diagnostics, Diagnostic{
				Line:    lineNumber,
				Message: fmt.Sprintf("Duplicate range %s, last definition wins", ipRange),
			})
		}
		inventory[ipRange] = record
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading import file: %w", err)
	}

	return inventory, diagnostics, nil
}

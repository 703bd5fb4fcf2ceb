// Package vlans loads the subnet-range-to-VLAN mapping the import engine
// annotates subnets with.
//
// Two providers exist: FileProvider parses the flat VLAN definition files
// (one "<range> ... vlan <id>" entry per line, # comments), and DBProvider
// reads a two-column database table. Both satisfy Provider, so the engine
// does not care where the mapping came from.
package vlans

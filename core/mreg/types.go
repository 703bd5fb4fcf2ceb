package mreg

// Subnet is one subnet as the API returns it.
type Subnet struct {
	Range        string  `json:"range"`
	Description  string  `json:"description"`
	VLAN         *int    `json:"vlan"`
	Category     *string `json:"category"`
	Location     *string `json:"location"`
	Frozen       bool    `json:"frozen"`
	Reserved     int     `json:"reserved"`
	DNSDelegated bool    `json:"dns_delegated"`
}

// SubnetCreate is the payload for creating a subnet.
type SubnetCreate struct {
	Range       string  `json:"range"`
	Description string  `json:"description"`
	VLAN        *int    `json:"vlan"`
	Category    *string `json:"category"`
	Location    *string `json:"location"`
	Frozen      bool    `json:"frozen"`
}

// Host is one host as the API returns it.
type Host struct {
	ID          int64       `json:"hostid"`
	Name        string      `json:"name"`
	Contact     string      `json:"contact"`
	Comment     string      `json:"comment"`
	TTL         *int        `json:"ttl"`
	Hinfo       *int        `json:"hinfo"`
	Loc         *string     `json:"loc"`
	IPAddresses []IPAddress `json:"ipaddress"`
	CNAMEs      []CNAME     `json:"cname"`
	TXTs        []TXT       `json:"txt"`
}

// HostCreate is the payload for creating a host.
type HostCreate struct {
	Name      string `json:"name"`
	IPAddress string `json:"ipaddress,omitempty"`
	Contact   string `json:"contact,omitempty"`
	Hinfo     *int   `json:"hinfo,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// IPAddress is one A or AAAA record.
type IPAddress struct {
	Address string `json:"ipaddress"`
	MAC     string `json:"macaddress"`
}

// CNAME is one alias record.
type CNAME struct {
	ID    int64  `json:"id"`
	CName string `json:"cname"`
}

// TXT is one TXT record.
type TXT struct {
	TXT string `json:"txt"`
}

// HinfoPreset is one predefined cpu/os pair hosts can reference by id.
type HinfoPreset struct {
	ID  int    `json:"hinfoid"`
	CPU string `json:"cpu"`
	OS  string `json:"os"`
}

// Zone is one DNS zone the service controls.
type Zone struct {
	Name string `json:"name"`
}

// Fields is the changed-field subset sent in PATCH bodies.
type Fields map[string]any

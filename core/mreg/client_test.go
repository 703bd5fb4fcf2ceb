package mreg_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mreg-cli/core/mreg"
	"mreg-cli/core/mreg/mregtest"
)

func testClient(t *testing.T, stub *mregtest.Server) (*mreg.Client, string) {
	t.Helper()

	base := stub.Start(t)
	client := mreg.NewClient(mreg.Config{
		URL:            base,
		Domain:         "example.org",
		TimeoutSeconds: 5,
	}, zap.NewNop())
	return client, base
}

type capturingJournal struct {
	entries []mreg.JournalEntry
}

func (j *capturingJournal) RecordRequest(e mreg.JournalEntry) {
	j.entries = append(j.entries, e)
}

func TestQualifyName(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		in     string
		want   string
	}{
		{"Short Name Gets Domain", "example.org", "web", "web.example.org"},
		{"Long Name Unchanged", "example.org", "web.example.org", "web.example.org"},
		{"Uppercase Folded", "example.org", "WEB", "web.example.org"},
		{"Trailing Dot Marks Qualified", "example.org", "other.example.com.", "other.example.com"},
		{"No Domain Configured", "", "web", "web"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mreg.NewClient(mreg.Config{
				URL:    "http://mreg.example.org",
				Domain: tt.domain,
			}, zap.NewNop())
			assert.Equal(t, tt.want, client.QualifyName(tt.in))
		})
	}
}

func TestResolveName(t *testing.T) {
	stub := mregtest.New(nil)
	stub.SeedHost(mreg.Host{Name: "web.example.org"})
	client, _ := testClient(t, stub)

	name, err := client.ResolveName(context.Background(), "web")
	require.NoError(t, err)
	assert.Equal(t, "web.example.org", name)

	_, err = client.ResolveName(context.Background(), "ghost")
	assert.ErrorIs(t, err, mreg.ErrHostNotFound)
}

func TestHostInfo(t *testing.T) {
	stub := mregtest.New(nil)
	stub.SeedHost(mreg.Host{Name: "nas.example.org", Comment: "the canonical one"})
	stub.SeedHost(mreg.Host{Name: "files.example.org", CNAMEs: []mreg.CNAME{{CName: "nas.example.org"}}})
	client, _ := testClient(t, stub)

	t.Run("Follows CNAME To Canonical Host", func(t *testing.T) {
		h, err := client.HostInfo(context.Background(), "files", true)
		require.NoError(t, err)
		assert.Equal(t, "nas.example.org", h.Name)
		assert.Equal(t, "the canonical one", h.Comment)
	})

	t.Run("Keeps Alias When Not Following", func(t *testing.T) {
		h, err := client.HostInfo(context.Background(), "files", false)
		require.NoError(t, err)
		assert.Equal(t, "files.example.org", h.Name)
	})

	t.Run("Refuses Ambiguous Alias", func(t *testing.T) {
		stub.SeedHost(mreg.Host{Name: "twins.example.org", CNAMEs: []mreg.CNAME{
			{CName: "nas.example.org"},
			{CName: "web.example.org"},
		}})
		_, err := client.HostInfo(context.Background(), "twins", true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple CNAME records")
	})
}

func TestAPIErrorFormat(t *testing.T) {
	stub := mregtest.New(nil)
	client, base := testClient(t, stub)

	_, err := client.HostByName(context.Background(), "ghost.example.org")
	require.Error(t, err)

	var apiErr *mreg.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.True(t, mreg.IsNotFound(err))

	want := fmt.Sprintf("GET %q: 404: Not Found\n{\n  \"detail\": \"Not found.\"\n}",
		base+"/hosts/ghost.example.org")
	assert.Equal(t, want, err.Error())
}

func TestJournalRecordsMutations(t *testing.T) {
	stub := mregtest.New(nil)
	vlan := 12
	stub.SeedSubnet(mreg.Subnet{Range: "10.0.0.0/24", Description: "office net", VLAN: &vlan})
	client, base := testClient(t, stub)

	journal := &capturingJournal{}
	client.SetJournal(journal)

	ctx := context.Background()
	require.NoError(t, client.CreateSubnet(ctx, mreg.SubnetCreate{Range: "10.0.1.0/24", Description: "lab net"}))
	require.NoError(t, client.UpdateSubnet(ctx, "10.0.0.0/24", mreg.Fields{"description": "hq net"}))
	require.NoError(t, client.DeleteSubnet(ctx, "10.0.1.0/24"))

	require.Len(t, journal.entries, 3)

	post := journal.entries[0]
	assert.Equal(t, "POST", post.Method)
	assert.Equal(t, base+"/subnets/", post.URL)
	assert.Equal(t, base+"/subnets/10.0.1.0/24", post.UndoURL)
	assert.Contains(t, string(post.Body), `"range":"10.0.1.0/24"`)
	assert.Empty(t, post.Previous)

	patch := journal.entries[1]
	assert.Equal(t, "PATCH", patch.Method)
	assert.Equal(t, base+"/subnets/10.0.0.0/24", patch.URL)
	assert.Empty(t, patch.UndoURL)
	assert.Contains(t, string(patch.Previous), `"description":"office net"`)

	del := journal.entries[2]
	assert.Equal(t, "DELETE", del.Method)
	assert.Equal(t, base+"/subnets/", del.UndoURL)
	assert.Contains(t, string(del.Previous), `"range":"10.0.1.0/24"`)

	// The pre-change state is fetched right before each PATCH and DELETE.
	calls := stub.Calls()
	require.Len(t, calls, 5)
	assert.Equal(t, mregtest.Call{Method: "GET", URL: "/subnets/10.0.0.0/24"}, calls[1])
	assert.Equal(t, mregtest.Call{Method: "PATCH", URL: "/subnets/10.0.0.0/24"}, calls[2])
	assert.Equal(t, mregtest.Call{Method: "GET", URL: "/subnets/10.0.1.0/24"}, calls[3])
	assert.Equal(t, mregtest.Call{Method: "DELETE", URL: "/subnets/10.0.1.0/24"}, calls[4])
}

func TestNoJournalSkipsStateCapture(t *testing.T) {
	stub := mregtest.New(nil)
	stub.SeedSubnet(mreg.Subnet{Range: "10.0.0.0/24"})
	client, _ := testClient(t, stub)

	err := client.UpdateSubnet(context.Background(), "10.0.0.0/24", mreg.Fields{"description": "x"})
	require.NoError(t, err)

	calls := stub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "PATCH", calls[0].Method)
}

func TestReplayDoesNotJournal(t *testing.T) {
	stub := mregtest.New(nil)
	client, base := testClient(t, stub)

	journal := &capturingJournal{}
	client.SetJournal(journal)

	body := []byte(`{"name": "web.example.org", "ipaddress": "10.0.0.5"}`)
	require.NoError(t, client.Replay(context.Background(), "POST", base+"/hosts/", body))

	assert.Empty(t, journal.entries)
	_, ok := stub.Host("web.example.org")
	assert.True(t, ok)
}

func TestHostForAddress(t *testing.T) {
	stub := mregtest.New(nil)
	stub.SeedHost(mreg.Host{Name: "web.example.org", IPAddresses: []mreg.IPAddress{{Address: "10.0.0.5"}}})
	stub.SeedHost(mreg.Host{Name: "anycast-a.example.org", IPAddresses: []mreg.IPAddress{{Address: "10.0.0.53"}}})
	stub.SeedHost(mreg.Host{Name: "anycast-b.example.org", IPAddresses: []mreg.IPAddress{{Address: "10.0.0.53"}}})
	client, _ := testClient(t, stub)

	ctx := context.Background()
	name, err := client.HostForAddress(ctx, "10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, "web.example.org", name)

	_, err = client.HostForAddress(ctx, "10.0.0.53")
	assert.ErrorContains(t, err, "multiple hosts")

	_, err = client.HostForAddress(ctx, "10.0.0.99")
	assert.ErrorIs(t, err, mreg.ErrHostNotFound)
}

func TestSubnetForAddress(t *testing.T) {
	stub := mregtest.New(nil)
	stub.SeedSubnet(mreg.Subnet{Range: "10.0.0.0/24", Description: "office net"})
	stub.SeedSubnet(mreg.Subnet{Range: "10.0.1.0/24", Description: "lab net"})
	client, _ := testClient(t, stub)

	sub, err := client.SubnetForAddress(context.Background(), "10.0.1.17")
	require.NoError(t, err)
	assert.Equal(t, "10.0.1.0/24", sub.Range)

	_, err = client.SubnetForAddress(context.Background(), "192.168.0.1")
	assert.True(t, mreg.IsNotFound(err))
}

func TestZoneControlled(t *testing.T) {
	stub := mregtest.New(nil)
	stub.SeedZone("example.org")
	client, _ := testClient(t, stub)

	controlled, err := client.ZoneControlled(context.Background(), "example.org")
	require.NoError(t, err)
	assert.True(t, controlled)

	controlled, err = client.ZoneControlled(context.Background(), "evil.example.com")
	require.NoError(t, err)
	assert.False(t, controlled)
}

package vlans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mreg-cli/core/database"
)

type seededVLAN struct {
	Range string `gorm:"column:range"`
	VLAN  int    `gorm:"column:vlan"`
}

func (seededVLAN) TableName() string { return "network_vlans" }

func TestDBProviderMapping(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", File: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&seededVLAN{}))

	rows := []seededVLAN{
		{Range: "129.240.12.0/23", VLAN: 412},
		{Range: "129.240.14.0/24", VLAN: 413},
	}
	require.NoError(t, db.Create(&rows).Error)

	m, err := NewDBProvider(db, "network_vlans").Mapping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Mapping{
		"129.240.12.0/23": 412,
		"129.240.14.0/24": 413,
	}, m)
}

func TestDBProviderMissingTable(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", File: ":memory:"})
	require.NoError(t, err)

	_, err = NewDBProvider(db, "network_vlans").Mapping(context.Background())
	assert.ErrorContains(t, err, "loading vlan mapping from network_vlans")
}

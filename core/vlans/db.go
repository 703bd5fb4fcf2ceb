package vlans

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// DBProvider reads the mapping from a database table with range and vlan
// columns, for sites that keep VLAN assignments in a database instead of
// flat files.
type DBProvider struct {
	db    *gorm.DB
	table string
}

// NewDBProvider creates a provider reading from the given table.
func NewDBProvider(db *gorm.DB, table string) *DBProvider {
	return &DBProvider{db: db, table: table}
}

type vlanRow struct {
	Range string `gorm:"column:range"`
	VLAN  int    `gorm:"column:vlan"`
}

func (p *DBProvider) Mapping(ctx context.Context) (Mapping, error) {
	var rows []vlanRow
	if err := p.db.WithContext(ctx).Table(p.table).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading vlan mapping from %s: %w", p.table, err)
	}

	m := make(Mapping, len(rows))
	for _, row := range rows {
		m[row.Range] = row.VLAN
	}
	return m, nil
}

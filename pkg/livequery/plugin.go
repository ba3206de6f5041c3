package livequery

import (
	"time"

	"gorm.io/gorm"
)

// Plugin hooks gorm's write callbacks and publishes a table-level event on
// the bus after each successful create, update, or delete.
type Plugin struct {
	bus *Bus
}

func NewPlugin(bus *Bus) *Plugin {
	return &Plugin{bus: bus}
}

func (p *Plugin) Name() string {
	return "livequery"
}

func (p *Plugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Create().After("gorm:create").Register("livequery:create", p.after(OpCreate)); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("livequery:update", p.after(OpUpdate)); err != nil {
		return err
	}
	return db.Callback().Delete().After("gorm:delete").Register("livequery:delete", p.after(OpDelete))
}

func (p *Plugin) after(op Op) func(tx *gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement == nil {
			return
		}
		table := tx.Statement.Table
		if table == "" {
			return
		}
		// Updates and deletes that touched nothing are not changes.
		if op != OpCreate && tx.RowsAffected == 0 {
			return
		}
		p.bus.Publish(Event{Table: table, Op: op, At: time.Now().UTC()})
	}
}

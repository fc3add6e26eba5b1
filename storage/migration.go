package storage

import "github.com/luxfi/log"

// Migration is one idempotent schema change, applied at most once and
// recorded by Id() in ColumnMigrations so it is skipped thereafter.
// Grounded verbatim on migration_base.hpp's Base: Id/DbVersion/IsApplied/
// Apply, with Apply always running inside its own batch.
type Migration interface {
	// Id uniquely identifies this migration; used as the applied-record key.
	Id() string
	// DbVersion is the schema version this migration declares. Migrator
	// only logs it when applying; it is not compared against any stored
	// database version, and skipping is decided by Id alone.
	DbVersion() uint32
	// Run performs the migration's writes within batch.
	Run(store *Store, batch *WriteBatch, log log.Logger) error
}

// Migrator applies a fixed, declaration-ordered list of migrations at
// startup, each skipped if already recorded applied and each committed in
// its own batch — per spec.md §4.13: "Migrations are idempotent records
// keyed by string id, skipped when id ∈ applied and run inside one batch
// each... applied in declaration order at startup before any engine task
// begins."
type Migrator struct {
	store      *Store
	migrations []Migration
	log        log.Logger
}

// NewMigrator constructs a Migrator that will apply migrations, in the
// order given, against store.
func NewMigrator(store *Store, logger log.Logger, migrations ...Migration) *Migrator {
	return &Migrator{store: store, migrations: migrations, log: logger}
}

// Run applies every not-yet-applied migration in declaration order.
func (m *Migrator) Run() error {
	for _, mig := range m.migrations {
		applied, err := m.store.Has(ColumnMigrations, []byte(mig.Id()))
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		batch := m.store.NewBatch()
		if err := mig.Run(m.store, batch, m.log); err != nil {
			return err
		}
		if err := batch.Put(ColumnMigrations, []byte(mig.Id()), []byte{1}); err != nil {
			return err
		}
		if err := batch.Commit(); err != nil {
			return err
		}
		m.log.Info("applied migration", "id", mig.Id(), "db_version", mig.DbVersion())
	}
	return nil
}

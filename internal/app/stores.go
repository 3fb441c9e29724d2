package app

import (
	"context"
	"fmt"
	"log/slog"

	"hostel-service/internal/config"
	"hostel-service/internal/crud"
	"hostel-service/internal/dashboard"
	"hostel-service/internal/db"
	"hostel-service/internal/fee"
	"hostel-service/internal/maintenance"
	"hostel-service/internal/room"
	"hostel-service/internal/sample"
	"hostel-service/internal/student"
	"hostel-service/internal/visitor"

	"github.com/uptrace/bun"
)

// migrate creates the tables of every kind kept in PostgreSQL.
func migrate(ctx context.Context, database *bun.DB, storage config.StorageConfig) error {
	var models []any
	if storage.Students == config.BackendPostgres {
		models = append(models, (*student.Student)(nil))
	}
	if storage.Rooms == config.BackendPostgres {
		models = append(models, (*room.Room)(nil))
	}
	if storage.Fees == config.BackendPostgres {
		models = append(models, (*fee.Fee)(nil))
	}
	if storage.Visitors == config.BackendPostgres {
		models = append(models, (*visitor.Visitor)(nil))
	}
	if storage.Maintenance == config.BackendPostgres {
		models = append(models, (*maintenance.Request)(nil))
	}
	if err := db.RunMigrations(ctx, database, models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// kindStores holds the undecorated store of every kind.
type kindStores struct {
	students    crud.Seeder[student.Student]
	rooms       crud.Seeder[room.Room]
	fees        crud.Seeder[fee.Fee]
	visitors    crud.Seeder[visitor.Visitor]
	maintenance crud.Seeder[maintenance.Request]
}

// openStores picks a PostgreSQL or memory store per kind. All of them start
// out empty until seedStores runs.
func openStores(database *bun.DB, storage config.StorageConfig, recorder crud.QueryRecorder) kindStores {
	return kindStores{
		students:    open[student.Student](storage.Students, database, student.Kind, "students", recorder),
		rooms:       open[room.Room](storage.Rooms, database, room.Kind, "rooms", recorder),
		fees:        open[fee.Fee](storage.Fees, database, fee.Kind, "fees", recorder),
		visitors:    open[visitor.Visitor](storage.Visitors, database, visitor.Kind, "visitors", recorder),
		maintenance: open[maintenance.Request](storage.Maintenance, database, maintenance.Kind, "maintenance_requests", recorder),
	}
}

func open[T crud.Entity[T]](backend string, database *bun.DB, kind crud.Kind, table string, recorder crud.QueryRecorder) crud.Seeder[T] {
	if backend == config.BackendPostgres {
		return crud.NewBunStore[T](database, kind, table, recorder)
	}
	return crud.NewMemoryStore[T](kind)
}

func newSampleGenerator(cfg config.SampleConfig) *sample.Generator {
	return sample.NewGenerator(cfg.Seed, sample.Counts{
		Students:    cfg.Students,
		Rooms:       cfg.Rooms,
		Visitors:    cfg.Visitors,
		Maintenance: cfg.Maintenance,
	}, now())
}

// seedStores fills every empty store with sample data. Fees, visitors and
// maintenance requests are generated against the students and rooms the
// stores hold after seeding, which for a reused database are the rows of an
// earlier run.
func seedStores(ctx context.Context, ks kindStores, gen *sample.Generator, logger *slog.Logger) error {
	students, rooms := gen.Residents()
	if err := seed(ctx, ks.students, student.Kind, students, logger); err != nil {
		return err
	}
	if err := seed(ctx, ks.rooms, room.Kind, rooms, logger); err != nil {
		return err
	}

	students, err := ks.students.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list seeded students: %w", err)
	}
	rooms, err = ks.rooms.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list seeded rooms: %w", err)
	}

	ds := gen.Dependents(students, rooms)
	if err := seed(ctx, ks.fees, fee.Kind, ds.Fees, logger); err != nil {
		return err
	}
	if err := seed(ctx, ks.visitors, visitor.Kind, ds.Visitors, logger); err != nil {
		return err
	}
	return seed(ctx, ks.maintenance, maintenance.Kind, ds.Maintenance, logger)
}

func seed[T crud.Entity[T]](ctx context.Context, s crud.Seeder[T], kind crud.Kind, recs []T, logger *slog.Logger) error {
	n, err := s.SeedIfEmpty(ctx, recs...)
	if err != nil {
		return fmt.Errorf("failed to seed %s: %w", kind.Plural, err)
	}
	if n > 0 {
		logger.Info("sample data seeded", "kind", kind.Plural, "records", n)
	}
	return nil
}

// observed decorates every store so that observers hear about changes.
func (ks kindStores) observed(observers []crud.Observer) dashboard.Stores {
	return dashboard.Stores{
		Students:    withObservers[student.Student](ks.students, student.Kind, observers),
		Rooms:       withObservers[room.Room](ks.rooms, room.Kind, observers),
		Fees:        withObservers[fee.Fee](ks.fees, fee.Kind, observers),
		Visitors:    withObservers[visitor.Visitor](ks.visitors, visitor.Kind, observers),
		Maintenance: withObservers[maintenance.Request](ks.maintenance, maintenance.Kind, observers),
	}
}

func withObservers[T crud.Entity[T]](s crud.Store[T], kind crud.Kind, observers []crud.Observer) crud.Store[T] {
	if len(observers) == 0 {
		return s
	}
	return crud.Observed(s, kind, observers...)
}

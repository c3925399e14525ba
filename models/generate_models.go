package models

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

	reelbyte report

The report lists, per table, the database columns that no model field maps to.

	=== COLUMN MISMATCH REPORT ===
	--- Table: gigs ---
	Found 1 columns not accounted for in model:
	  - legacy_rank
	=== SUMMARY ===
	Total mismatched columns across all tables: 1
*/

// All returns every persisted model, in dependency order.
func All() []any {
	return []any{
		&CreatorProfile{},
		&ClientProfile{},
		&Gig{},
		&GigTag{},
		&Project{},
		&ProjectSkill{},
		&OutboxEvent{},
	}
}

// Migrate creates or alters every table to match the models.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// GenerateQueries writes typed query helpers for every model into outPath.
func GenerateQueries(db *gorm.DB, outPath string) {
	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Info)}))
	g.ApplyBasic(All()...)
	g.Execute()
}

// ColumnMismatchReport writes a report of database columns that aren't
// accounted for in the models and returns how many it found.
func ColumnMismatchReport(db *gorm.DB, w io.Writer) (int, error) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	cache := &sync.Map{}
	totalMismatches := 0

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return totalMismatches, fmt.Errorf("parse model %T: %w", model, err)
		}

		fmt.Fprintf(w, "\n--- Table: %s ---\n", s.Table)

		if !db.Migrator().HasTable(s.Table) {
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(s.Table)
		if err != nil {
			return totalMismatches, fmt.Errorf("columns for table %s: %w", s.Table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		mismatches := findColumnMismatches(dbColumns, s.DBNames)
		if len(mismatches) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}

		fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(w, "  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[strings.ToLower(field)] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[strings.ToLower(col)] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}

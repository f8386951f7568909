package models

import (
	"fmt"

	"gorm.io/gen"
	"gorm.io/gorm"
)

/*
Query-helper generation:

Set GENERATE_MODELS=true and run the application. Type-safe query helpers for
the projects/tasks/dependencies tables are written to ./query and the process
exits. The generated code is not used at runtime; it exists for ad-hoc tooling
and migrations review.
*/

func GenerateModels(db *gorm.DB) {
	if err := db.Exec("SELECT 1").Error; err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		return
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:       "./query",
		Mode:          gen.WithoutContext | gen.WithDefaultQuery,
		FieldNullable: true,
	})

	g.UseDB(db)
	g.ApplyBasic(Project{}, Task{}, Dependency{})
	g.Execute()

	fmt.Println("Query helpers generated in ./query")
}

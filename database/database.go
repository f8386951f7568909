package database

import (
	"gorm.io/gorm"
)

type Database struct {
	db             *gorm.DB
	projectRepo    *ProjectRepo
	taskRepo       *TaskRepo
	dependencyRepo *DependencyRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		projectRepo:    NewProjectRepo(db),
		taskRepo:       NewTaskRepo(db),
		dependencyRepo: NewDependencyRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TaskRepo() *TaskRepo {
	return d.taskRepo
}

func (d Database) DependencyRepo() *DependencyRepo {
	return d.dependencyRepo
}

// DB returns the underlying connection for the transactional services.
func (d Database) DB() *gorm.DB {
	return d.db
}

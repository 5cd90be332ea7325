// Package models contains GORM persistence models for the marketplace tables the
// reporting engine reads. Reports never write through these models; they exist so
// tests can seed data and so the schema can be auto-migrated on SQLite.
package models

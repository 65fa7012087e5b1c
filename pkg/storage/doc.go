// Package storage provides storage implementations for rule persistence.
//
// This package includes:
//   - GormStorage: A GORM-based implementation supporting SQLite and PostgreSQL
//   - Open: picks a GORM dialector from a DSN
//   - NewRecord and RecordRule: conversion between core.Rule and core.RuleRecord
//
// The Storage interface is defined in pkg/core and must be implemented
// by any custom storage backend.
//
// Most users should import the root package github.com/jdziat/simple-reminders
// which provides NewGormStorage() to create storage instances.
package storage

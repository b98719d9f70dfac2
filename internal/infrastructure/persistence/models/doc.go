// Package models contains GORM persistence models for plots, their cells and
// rotation history. The domain types in internal/domain/garden stay free of
// ORM tags; each model converts to and from its domain type with
// ToDomain / FromDomain.
package models

package model

import "time"

// ProductionCompany is a reference record from the `production_companies`
// table, referenced by movies.production_company_id.
type ProductionCompany struct {
	ID           uint64
	Name         string
	Country      *string
	FoundingDate *time.Time
	Description  *string
}

package model

// All lists every model, in dependency order. Used by AutoMigrate in tests
// and by tooling that needs the full table set.
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&Credential{},
		&Story{},
		&MediaFile{},
		&Interview{},
		&Project{},
		&KnowledgeEntry{},
		&OrganizationService{},
		&Activity{},
	}
}

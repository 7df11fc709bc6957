package models

func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&EntityTypeRecord{},
		&EntityKey{},
	}
}

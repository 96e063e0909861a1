// services/catalog.go
package services

import (
	"sort"

	"gtr-backend/models"

	"gorm.io/gorm"
)

// Curated starting sets for the site and role pickers. Values found in
// stored user data are merged in on read.
var initialUtecs = []string{
	"UTEC ALTO SANTA TEREZINHA", "UTEC BOA VIAGEM", "UTEC CAXANGÁ", "UTEC COQUE", "UTEC CORDEIRO",
	"UTEC CRISTIANO DONATO", "UTEC PINA", "UTEC GREGÓRIO BEZERRA", "UTEC IBURA", "UTEC JARDIM BOTÂNICO",
	"UTEC LARGO DOM LUÍS", "UTEC NOVA DESCOBERTA", "UTEC SANTO AMARO", "UTEC SÍTIO TRINDADE",
}

var initialRoles = []string{"Professor Multiplicador", "Coordenador", "Outro"}

func ListUtecs(db *gorm.DB) ([]string, error) {
	return mergedDistinct(db, "utec", initialUtecs)
}

func ListRoles(db *gorm.DB) ([]string, error) {
	return mergedDistinct(db, "role", initialRoles)
}

func mergedDistinct(db *gorm.DB, column string, initial []string) ([]string, error) {
	var stored []string
	err := db.Model(&models.User{}).
		Distinct(column).
		Where(column+" <> ''").
		Pluck(column, &stored).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(initial)+len(stored))
	merged := make([]string, 0, len(initial)+len(stored))
	for _, v := range append(append([]string{}, initial...), stored...) {
		if v != "" && !seen[v] {
			seen[v] = true
			merged = append(merged, v)
		}
	}
	sort.Strings(merged)
	return merged, nil
}

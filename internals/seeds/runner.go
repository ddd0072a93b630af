package seeds

import (
	"gorm.io/gorm"

	"schoolku_backend/internals/seeds/report_cards/roster"
)

func RunAllSeeds(db *gorm.DB) {
	//* Roster (kelas, mapel, absensi) + bobot default
	roster.SeedRosterFromJSON(db, "internals/seeds/report_cards/roster/data_roster.json")
}

package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	reportCardModel "schoolku_backend/internals/features/school/report_cards/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	// Catatan: kalau pakai PgBouncer, biarkan PreferSimpleProtocol=true
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  configs.DatabaseDSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Migrate: bootstrap skema rapor (dev / staging). Produksi pakai migrasi SQL.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return err
	}
	if err := db.AutoMigrate(
		&reportCardModel.ClassStudentModel{},
		&reportCardModel.ClassSubjectModel{},
		&reportCardModel.AttendanceSummaryModel{},
		&reportCardModel.AssessmentScoreModel{},
		&reportCardModel.AttitudeGradeModel{},
		&reportCardModel.WeightConfigModel{},
		&reportCardModel.ReportCardModel{},
	); err != nil {
		return err
	}

	// CHECK constraints (mirror validasi aplikasi)
	stmts := []string{
		`DO $$ BEGIN
			ALTER TABLE assessment_scores ADD CONSTRAINT ck_assessment_scores_value CHECK (assessment_score_value BETWEEN 0 AND 100);
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
			ALTER TABLE weight_configs ADD CONSTRAINT ck_weight_configs_sum CHECK (weight_config_uh + weight_config_uts + weight_config_uas + weight_config_praktik = 100);
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
			ALTER TABLE report_cards ADD CONSTRAINT ck_report_cards_status CHECK (report_card_status IN ('DRAFT','PENDING_APPROVAL','RELEASED'));
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	log.Println("✅ Migrasi skema rapor selesai.")
	return nil
}

package databases

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"praklinik_backend/internals/configs"
)

var DB *gorm.DB

// ConnectDB membuka koneksi ke PostgreSQL via GORM.
// TranslateError wajib aktif supaya pelanggaran unique constraint
// muncul sebagai gorm.ErrDuplicatedKey (dipetakan jadi 409 di service).
func ConnectDB() {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=Asia/Jakarta",
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_USER", "postgres"),
		configs.GetEnv("DB_PASSWORD", ""),
		configs.GetEnv("DB_NAME", "praklinik"),
		configs.GetEnv("DB_SSLMODE", "disable"),
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // hindari cache prepared statement di pgbouncer
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Gagal koneksi ke database: %v", err)
	}

	DB = db
	log.Println("✅ Database terkoneksi.")
}

// TunePool menyetel pool koneksi bawaan database/sql.
func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Println("[ERROR] Gagal ambil sql.DB dari GORM:", err)
		return
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
}

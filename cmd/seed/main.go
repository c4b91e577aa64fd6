package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/internal/users"
	"github.com/kantinhub/kantin-backend/pkg/config"
	"github.com/kantinhub/kantin-backend/pkg/db"
	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	"github.com/kantinhub/kantin-backend/pkg/logger"
	"github.com/kantinhub/kantin-backend/pkg/security"
)

// seed provisions one account per role, a starter menu, and the settings
// row so a fresh environment is usable immediately. Rerunning is safe:
// existing rows are left alone.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)

	accounts := []struct {
		email string
		name  string
		role  enums.UserRole
	}{
		{"pengurus@kantinhub.local", "Pengurus Kantin", enums.UserRolePengurus},
		{"kasir@kantinhub.local", "Kasir Kantin", enums.UserRoleKasir},
		{"mitra@kantinhub.local", "Mitra Dapur", enums.UserRoleMitra},
		{"user@kantinhub.local", "Pengguna Contoh", enums.UserRoleUser},
	}

	var mitra *models.User
	for _, account := range accounts {
		existing, err := userRepo.FindByEmail(ctx, account.email)
		if err == nil {
			logg.Info(logg.WithField(ctx, "email", account.email), "account already present")
			if account.role == enums.UserRoleMitra {
				mitra = existing
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			requireResource(ctx, logg, "user lookup", err)
		}

		hash, err := security.HashPassword("kantin123", cfg.Password)
		requireResource(ctx, logg, "password hash", err)

		created, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        account.email,
			PasswordHash: hash,
			Name:         account.name,
			Role:         account.role,
		})
		requireResource(ctx, logg, "user insert", err)
		if account.role == enums.UserRoleMitra {
			mitra = created
		}
		logg.Info(logg.WithField(ctx, "email", account.email), "account seeded")
	}

	if mitra != nil {
		seedMenu(ctx, logg, gdb, mitra)
	}
	seedSettings(ctx, logg, gdb)

	logg.Info(ctx, "seed complete")
}

func seedMenu(ctx context.Context, logg *logger.Logger, gdb *gorm.DB, mitra *models.User) {
	menu := []struct {
		name  string
		price int64
		stock int
		tags  []string
	}{
		{"Nasi Goreng", 15000, 20, []string{"makanan"}},
		{"Mie Ayam", 12000, 15, []string{"makanan"}},
		{"Es Teh Manis", 5000, 50, []string{"minuman"}},
		{"Ayam Geprek", 18000, 10, []string{"makanan", "pedas"}},
	}

	for _, entry := range menu {
		var count int64
		err := gdb.WithContext(ctx).
			Model(&models.Item{}).
			Where("name = ? AND mitra_id = ?", entry.name, mitra.ID).
			Count(&count).Error
		requireResource(ctx, logg, "item lookup", err)
		if count > 0 {
			continue
		}

		item := &models.Item{
			Name:      entry.name,
			StockQty:  entry.stock,
			UnitPrice: decimal.NewFromInt(entry.price),
			Status:    enums.ItemStatusAvailable,
			Tags:      pq.StringArray(entry.tags),
			MitraID:   mitra.ID,
		}
		requireResource(ctx, logg, "item insert", gdb.WithContext(ctx).Create(item).Error)
		logg.Info(logg.WithField(ctx, "item", entry.name), "menu item seeded")
	}
}

func seedSettings(ctx context.Context, logg *logger.Logger, gdb *gorm.DB) {
	var count int64
	err := gdb.WithContext(ctx).Model(&models.Settings{}).Count(&count).Error
	requireResource(ctx, logg, "settings lookup", err)
	if count > 0 {
		return
	}

	row := &models.Settings{
		ID:              1,
		CafeteriaName:   "KantinHub",
		Tagline:         "Kantin kampus dalam genggaman",
		HeroTitle:       "Pesan makan tanpa antre",
		HeroDescription: "Lihat menu hari ini dan pesan langsung dari mejamu.",
		FooterText:      "© KantinHub",
	}
	requireResource(ctx, logg, "settings insert", gdb.WithContext(ctx).Create(row).Error)
	logg.Info(ctx, "settings seeded")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}

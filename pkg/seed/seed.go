package seed

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/packages"
)

func SeedPackages(db *gorm.DB) {
	for _, pkgType := range []packages.PackageType{packages.SmallPackage, packages.MediumPackage, packages.LargePackage} {
		tier := packages.Tiers[pkgType]
		pkg := model.Package{
			Name:         tier.Name,
			Type:         string(pkgType),
			Description:  tier.Description,
			Features:     tier.Features,
			Integrations: tier.Integrations,
			OneTimeFee:   tier.OneTimeFee,
			MonthlyFee:   tier.MonthlyFee,
			Currency:     "DKK",
		}

		result := db.FirstOrCreate(&pkg, model.Package{Name: pkg.Name})
		if result.Error != nil {
			log.Printf("Error creating package %s: %v", pkg.Name, result.Error)
		}
	}

	log.Println("Packages seeded successfully!")
}

func SeedSettings(db *gorm.DB) {
	defaults := map[string]string{
		model.SettingAIConsultationEnabled: "true",
		model.SettingAdditionalFeatureFee:  "1500",
	}

	for key, value := range defaults {
		setting := model.Setting{Key: key, Value: value}
		result := db.FirstOrCreate(&setting, model.Setting{Key: key})
		if result.Error != nil {
			log.Printf("Error creating setting %s: %v", key, result.Error)
		}
	}

	log.Println("Settings seeded successfully!")
}

// SeedAdminUser creates the bootstrap admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no admin exists yet.
func SeedAdminUser(db *gorm.DB) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return
	}

	var count int64
	db.Model(&model.AdminUser{}).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	admin := model.AdminUser{
		Email:    adminEmail,
		Password: string(hashed),
		Name:     "Administrator",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return
	}

	log.Printf("Bootstrap admin user created for %s", adminEmail)
}

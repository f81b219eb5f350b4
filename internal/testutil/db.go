// Package testutil reúne helpers compartilhados pelos testes de pacotes
// que tocam o banco.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/care-marketplace/internal/db"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
)

var dbSeq atomic.Int64

// NewDB abre um sqlite em memória isolado por teste, já migrado. Uma única
// conexão mantém o banco vivo e serializa escritas concorrentes.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:care_test_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser grava um usuário com perfil. A senha é guardada com bcrypt
// de custo mínimo para manter os testes rápidos.
func CreateUser(t *testing.T, db *gorm.DB, email, password, role, fullName string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	u := &models.User{Email: email, PasswordHash: string(hash), Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	p := &models.Profile{UserID: u.ID, FullName: fullName, Phone: "(11) 99999-0000", City: "São Paulo"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	u.Profile = p
	return u
}

// CreateProfessional cria usuário, perfil, categoria (se preciso) e o
// registro de profissional ativo.
func CreateProfessional(t *testing.T, db *gorm.DB, email, fullName, categoryName string) (*models.User, *models.Professional) {
	t.Helper()

	u := CreateUser(t, db, email, "senha123", models.RoleProfessional, fullName)

	var cat models.Category
	if err := db.Where(models.Category{Name: categoryName}).FirstOrCreate(&cat).Error; err != nil {
		t.Fatalf("category: %v", err)
	}

	p := &models.Professional{
		UserID:          u.ID,
		CategoryID:      cat.ID,
		ExperienceYears: 5,
		Description:     "Atendimento domiciliar",
		Status:          models.ProfessionalActive,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create professional: %v", err)
	}
	return u, p
}

package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/you/identitysvc/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags).
// Each phone pair shares a composite unique index; NULL halves never collide.
type DBUser struct {
	ID                  uint      `gorm:"primaryKey"`
	Email               string    `gorm:"uniqueIndex;size:255;not null"`
	Username            string    `gorm:"size:255;not null"`
	CountryCode         *string   `gorm:"uniqueIndex:idx_users_phone;size:8"`
	PhoneNumber         *string   `gorm:"uniqueIndex:idx_users_phone;size:32"`
	WhatsappCountryCode *string   `gorm:"uniqueIndex:idx_users_whatsapp;size:8"`
	WhatsappPhoneNumber *string   `gorm:"uniqueIndex:idx_users_whatsapp;size:32"`
	PasswordHash        string    `gorm:"column:password;not null"`
	EmailVerified       bool      `gorm:"not null;default:false"`
	CreatedAt           time.Time `gorm:"index"`
	UpdatedAt           time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// MigrateUsers creates the users table and its case-insensitive username index
func MigrateUsers(db *gorm.DB) error {
	if err := db.AutoMigrate(&DBUser{}); err != nil {
		return err
	}
	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))").Error
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. A unique index violation is
// reported as domain.ErrIdentityConflict.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrIdentityConflict
		}
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

// FindByUsername implements domain.UserRepository
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "LOWER(username) = ?", strings.ToLower(username))
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, pair domain.PhonePair) (*domain.User, error) {
	return r.first(ctx, "country_code = ? AND phone_number = ?", pair.CountryCode.String(), pair.Number.String())
}

// FindByWhatsapp implements domain.UserRepository
func (r *UserRepositoryImpl) FindByWhatsapp(ctx context.Context, pair domain.PhonePair) (*domain.User, error) {
	return r.first(ctx, "whatsapp_country_code = ? AND whatsapp_phone_number = ?", pair.CountryCode.String(), pair.Number.String())
}

// MarkEmailVerified implements domain.UserRepository
func (r *UserRepositoryImpl) MarkEmailVerified(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Update("email_verified", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) first(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, args...).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return dbToDomain(&dbUser), nil
}

func domainToDB(user *domain.User) *DBUser {
	dbUser := &DBUser{
		ID:            user.ID,
		Email:         user.Email,
		Username:      user.Username,
		PasswordHash:  user.PasswordHash,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
	dbUser.CountryCode, dbUser.PhoneNumber = pairColumns(user.Phone)
	dbUser.WhatsappCountryCode, dbUser.WhatsappPhoneNumber = pairColumns(user.Whatsapp)
	return dbUser
}

func dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:            dbUser.ID,
		Email:         dbUser.Email,
		Username:      dbUser.Username,
		Phone:         columnsPair(dbUser.CountryCode, dbUser.PhoneNumber),
		Whatsapp:      columnsPair(dbUser.WhatsappCountryCode, dbUser.WhatsappPhoneNumber),
		PasswordHash:  dbUser.PasswordHash,
		EmailVerified: dbUser.EmailVerified,
		CreatedAt:     dbUser.CreatedAt,
		UpdatedAt:     dbUser.UpdatedAt,
	}
}

func pairColumns(pair *domain.PhonePair) (*string, *string) {
	if pair == nil || !pair.Present() {
		return nil, nil
	}
	code, number := pair.CountryCode.String(), pair.Number.String()
	return &code, &number
}

func columnsPair(code, number *string) *domain.PhonePair {
	if code == nil || number == nil {
		return nil
	}
	return &domain.PhonePair{CountryCode: domain.Digits(*code), Number: domain.Digits(*number)}
}

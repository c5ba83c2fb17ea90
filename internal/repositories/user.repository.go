package repositories

import (
	"context"

	"healthtrack/internal/database"
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func New(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	user.Email = NormalizeEmail(user.Email)
	if err := getDB(ctx, r.db).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if err := getDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get user by id", err, "id", id)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	log := r.log.Function("GetByEmail")

	var user User
	err := getDB(ctx, r.db).First(&user, "email = ?", NormalizeEmail(email)).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get user by email", err)
	}

	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	log := r.log.Function("ExistsByEmail")

	var count int64
	err := getDB(ctx, r.db).
		Model(&User{}).
		Where("email = ?", NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, log.Err("failed to count users by email", err)
	}

	return count > 0, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role Role) ([]User, error) {
	log := r.log.Function("ListByRole")

	var users []User
	if err := getDB(ctx, r.db).Where("role = ?", role).Order("name ASC").Find(&users).Error; err != nil {
		return nil, log.Err("failed to list users by role", err, "role", role)
	}

	return users, nil
}

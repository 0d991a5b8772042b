package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Thonzy/Inventory-App/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced on registration, change and reset.
const MinPasswordLength = 8

var (
	// ErrDuplicateEmail is returned when registering an email that exists.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so login failures cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	CreateUser(name, email, password string) (models.User, error)
	UpdateProfile(id string, update ProfileUpdate) (models.User, error)
	UpdatePassword(id, currentPassword, newPassword string) error
	SetPassword(id, newPassword string) error
	AuthenticateUser(email, password string) (models.User, error)
	EmailExists(email string) (string, error)
}

// ProfileUpdate carries the caller-mutable profile fields. Nil means
// "leave unchanged"; email is deliberately not part of this set.
type ProfileUpdate struct {
	Name  *string
	Photo *string
	Phone *string
	Bio   *string
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, email, photo, phone, bio, emp_num, created_at, updated_at
		FROM users WHERE id = ?`, id)

	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Photo, &user.Phone, &user.Bio, &user.EmpNum, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// getUserByEmail retrieves a user by email, including the password hash.
// Internal only: callers outside this service never see the hash.
func (s *UserService) getUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, name, email, password_hash, photo, phone, bio, emp_num, created_at, updated_at
		FROM users WHERE email = ?`, normalizeEmail(email))

	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Photo, &user.Phone, &user.Bio, &user.EmpNum, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// EmailExists returns the ID of the user owning the email, or ErrUserNotFound.
func (s *UserService) EmailExists(email string) (string, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", normalizeEmail(email)).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return id, nil
}

// CreateUser creates a new user, hashing their password at the storage
// boundary. Fails with ErrDuplicateEmail if the email is registered and
// ErrPasswordTooShort for short passwords.
func (s *UserService) CreateUser(name, email, password string) (models.User, error) {
	if len(password) < MinPasswordLength {
		return models.User{}, ErrPasswordTooShort
	}

	email = normalizeEmail(email)
	if _, err := s.EmailExists(email); err == nil {
		return models.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO users(id, name, email, password_hash, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Name, user.Email, string(hashedPassword), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		// The UNIQUE column backstops the pre-check under concurrency.
		if strings.Contains(err.Error(), "UNIQUE") {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdateProfile updates a user's caller-mutable profile fields.
func (s *UserService) UpdateProfile(id string, update ProfileUpdate) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Photo != nil {
		user.Photo = *update.Photo
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	user.UpdatedAt = time.Now().UTC()

	stmt, err := s.db.Prepare("UPDATE users SET name = ?, photo = ?, phone = ?, bio = ?, updated_at = ? WHERE id = ?")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.Name, user.Photo, user.Phone, user.Bio, user.UpdatedAt, id); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdatePassword verifies the current password, then hashes and sets a new one.
func (s *UserService) UpdatePassword(id, currentPassword, newPassword string) error {
	var currentHash string
	err := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", id).Scan(&currentHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	return s.SetPassword(id, newPassword)
}

// SetPassword hashes and stores a new password without verifying the old
// one. Used by the reset flow, where the reset token is the authorization.
func (s *UserService) SetPassword(id, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	res, err := s.db.Exec("UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?", string(hashedPassword), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AuthenticateUser verifies a user's credentials. Unknown email and wrong
// password return the same error.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

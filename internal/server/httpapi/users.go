package httpapi

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// Profile is the user payload exchanged with the client.
type Profile struct {
	Username    string  `json:"username"`
	Firstname   string  `json:"firstname"`
	Lastname    string  `json:"lastname"`
	NationalID  string  `json:"nationalid"`
	Gender      *int    `json:"gender"`
	Nationality string  `json:"nationality"`
	PhoneNumber string  `json:"phoneNumber"`
	Email       string  `json:"email"`
	Birthdate   string  `json:"birthdate"`
	Role        *string `json:"role"`
}

type account struct {
	profile      Profile
	passwordHash []byte
}

// Users is an in-memory user directory with bcrypt password hashes.
type Users struct {
	mu       sync.RWMutex
	accounts map[string]*account
}

func NewUsers() *Users {
	return &Users{accounts: map[string]*account{}}
}

func (u *Users) Add(p Profile, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.accounts[p.Username]; ok {
		return ErrUserExists
	}
	u.accounts[p.Username] = &account{profile: p, passwordHash: hash}
	return nil
}

func (u *Users) Authenticate(username, password string) (Profile, error) {
	u.mu.RLock()
	a, ok := u.accounts[username]
	u.mu.RUnlock()
	if !ok {
		return Profile{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return Profile{}, ErrInvalidCredentials
	}
	return a.profile, nil
}

func (u *Users) Get(username string) (Profile, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	a, ok := u.accounts[username]
	if !ok {
		return Profile{}, ErrUserNotFound
	}
	return a.profile, nil
}

// Update replaces the stored profile. The username cannot change.
func (u *Users) Update(username string, p Profile) (Profile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	a, ok := u.accounts[username]
	if !ok {
		return Profile{}, ErrUserNotFound
	}
	p.Username = username
	a.profile = p
	return p, nil
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/directus-community/directus-node/internal/crypto"
	"github.com/directus-community/directus-node/pkg/types"
)

// ProfilesFileName is the filename of the profiles database.
const ProfilesFileName = "profiles.json"

// Profile is one named set of Directus credentials.
type Profile struct {
	Name        string            `json:"name"`
	Credentials types.Credentials `json:"credentials"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// encryptedProfile is how a profile sits on disk: the credentials are sealed
// into one opaque string.
type encryptedProfile struct {
	Name          string    `json:"name"`
	EncryptedData string    `json:"encrypted_data"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type profilesDatabase struct {
	Version   int                          `json:"version"`
	Profiles  map[string]*encryptedProfile `json:"profiles"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

// ProfileStore manages encrypted credential profiles on disk.
type ProfileStore struct {
	configDir string
	encryptor *crypto.Encryptor
	profiles  map[string]*Profile
}

// NewProfileStore opens (or initializes) the store in configDir, unlocking it
// with the given master password.
func NewProfileStore(configDir, password string) (*ProfileStore, error) {
	if err := crypto.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}
	store := &ProfileStore{
		configDir: configDir,
		encryptor: crypto.NewEncryptor(password),
		profiles:  make(map[string]*Profile),
	}
	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return store, nil
}

// Create adds a new profile. The name must be unique.
func (s *ProfileStore) Create(name string, creds types.Credentials) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if _, exists := s.profiles[name]; exists {
		return fmt.Errorf("profile '%s' already exists", name)
	}
	if creds.URL == "" || creds.Token == "" {
		return fmt.Errorf("profile requires both a URL and a token")
	}

	now := time.Now().UTC()
	s.profiles[name] = &Profile{
		Name:        name,
		Credentials: creds,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.save()
}

// Get returns a profile by name.
func (s *ProfileStore) Get(name string) (*Profile, error) {
	profile, ok := s.profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}
	return profile, nil
}

// Delete removes a profile by name.
func (s *ProfileStore) Delete(name string) error {
	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}
	delete(s.profiles, name)
	return s.save()
}

// List returns all profile names, sorted.
func (s *ProfileStore) List() []string {
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *ProfileStore) path() string {
	return filepath.Join(s.configDir, ProfilesFileName)
}

func (s *ProfileStore) load() error {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil // empty store is valid
		}
		return err
	}

	var db profilesDatabase
	if err := json.Unmarshal(data, &db); err != nil {
		return fmt.Errorf("profiles database is corrupted: %w", err)
	}

	for name, enc := range db.Profiles {
		plaintext, err := s.encryptor.DecryptString(enc.EncryptedData)
		if err != nil {
			return fmt.Errorf("failed to decrypt profile '%s': %w", name, err)
		}
		var creds types.Credentials
		if err := json.Unmarshal([]byte(plaintext), &creds); err != nil {
			return fmt.Errorf("profile '%s' has invalid credentials: %w", name, err)
		}
		s.profiles[name] = &Profile{
			Name:        name,
			Credentials: creds,
			CreatedAt:   enc.CreatedAt,
			UpdatedAt:   enc.UpdatedAt,
		}
	}
	return nil
}

func (s *ProfileStore) save() error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db := profilesDatabase{
		Version:   1,
		Profiles:  make(map[string]*encryptedProfile, len(s.profiles)),
		UpdatedAt: time.Now().UTC(),
	}
	for name, profile := range s.profiles {
		plaintext, err := json.Marshal(profile.Credentials)
		if err != nil {
			return fmt.Errorf("failed to encode profile '%s': %w", name, err)
		}
		sealed, err := s.encryptor.EncryptString(string(plaintext))
		if err != nil {
			return fmt.Errorf("failed to encrypt profile '%s': %w", name, err)
		}
		db.Profiles[name] = &encryptedProfile{
			Name:          name,
			EncryptedData: sealed,
			CreatedAt:     profile.CreatedAt,
			UpdatedAt:     profile.UpdatedAt,
		}
	}

	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), data, 0600)
}

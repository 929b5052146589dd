package model

import "fmt"

// StorageType selects which persistence backend holds the dataset collection.
type StorageType string

const (
	// StorageTypePersistent keeps datasets across restarts.
	StorageTypePersistent StorageType = "persistent"
	// StorageTypeSession keeps datasets only for the current session.
	StorageTypeSession StorageType = "session"
)

// IsValid reports whether t is a recognized storage type.
func (t StorageType) IsValid() bool {
	return t == StorageTypePersistent || t == StorageTypeSession
}

// Settings holds the process-wide user configuration.
type Settings struct {
	APIToken            string      `json:"apiToken"            yaml:"apiToken"`
	StorageType         StorageType `json:"storageType"         yaml:"storageType"`
	EnableNotifications bool        `json:"enableNotifications" yaml:"enableNotifications"`
	AutoAnalysis        bool        `json:"autoAnalysis"        yaml:"autoAnalysis"`
}

// DefaultSettings returns the settings used before anything is stored.
func DefaultSettings() Settings {
	return Settings{
		StorageType: StorageTypePersistent,
	}
}

// HasAPIToken reports whether a token has been saved.
func (s Settings) HasAPIToken() bool {
	return s.APIToken != ""
}

// Validate checks that the settings hold recognized values.
func (s Settings) Validate() error {
	if !s.StorageType.IsValid() {
		return fmt.Errorf("invalid storage type %q", s.StorageType)
	}
	return nil
}

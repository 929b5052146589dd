package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, StorageTypePersistent, s.StorageType)
	assert.Empty(t, s.APIToken)
	assert.False(t, s.EnableNotifications)
	assert.False(t, s.AutoAnalysis)
	assert.False(t, s.HasAPIToken())
	assert.NoError(t, s.Validate())
}

func TestStorageType_IsValid(t *testing.T) {
	tests := []struct {
		storageType StorageType
		want        bool
	}{
		{StorageTypePersistent, true},
		{StorageTypeSession, true},
		{StorageType(""), false},
		{StorageType("local"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.storageType), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.storageType.IsValid())
		})
	}
}

func TestSettings_Validate(t *testing.T) {
	s := DefaultSettings()
	s.StorageType = "cloud"

	err := s.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage type")
}

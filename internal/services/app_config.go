package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mapbrew/brewfinder/internal/database"
	"github.com/mapbrew/brewfinder/internal/models"
)

type AppConfigService struct {
	db *database.DB
}

func NewAppConfigService(db *database.DB) *AppConfigService {
	return &AppConfigService{db: db}
}

type VersionCheckResponse struct {
	NeedsUpdate   bool    `json:"needs_update"`
	ForceUpdate   bool    `json:"force_update"`
	LatestVersion string  `json:"latest_version"`
	MinVersion    string  `json:"min_version"`
	UpdateMessage *string `json:"update_message,omitempty"`
	StoreURL      *string `json:"store_url,omitempty"`
}

// GetAdConfigs retrieves rewarded-ad configurations for a platform
func (s *AppConfigService) GetAdConfigs(platform string) ([]models.AdConfig, error) {
	var configs []models.AdConfig
	query := s.db.Where("is_enabled = ?", true)

	if platform != "" {
		query = query.Where("platform = ?", platform)
	}

	err := query.Order("priority ASC").Find(&configs).Error
	return configs, err
}

// CheckVersion checks the client app version against requirements
func (s *AppConfigService) CheckVersion(platform, currentVersion string) (*VersionCheckResponse, error) {
	var appVersion models.AppVersion
	if err := s.db.Where("platform = ?", platform).Order("created_at DESC").First(&appVersion).Error; err != nil {
		return nil, errors.New("platform not found")
	}

	needsUpdate := compareVersions(currentVersion, appVersion.Version) < 0
	forceUpdate := compareVersions(currentVersion, appVersion.MinimumVersion) < 0

	return &VersionCheckResponse{
		NeedsUpdate:   needsUpdate,
		ForceUpdate:   forceUpdate || appVersion.ForceUpdate,
		LatestVersion: appVersion.Version,
		MinVersion:    appVersion.MinimumVersion,
		UpdateMessage: appVersion.UpdateMessage,
		StoreURL:      appVersion.StoreURL,
	}, nil
}

// compareVersions compares dotted version strings: -1 if a < b, 0 if
// equal, 1 if a > b. Missing segments count as 0.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

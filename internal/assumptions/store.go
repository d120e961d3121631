package assumptions

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// AdminRecord is the persisted admin-defaults blob as stored by the external
// configuration service, versioned by UpdatedAt.
type AdminRecord struct {
	Overrides Overrides `json:"overrides" yaml:"overrides"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// LoadAdminFile reads admin assumption defaults from a YAML file. A missing
// or malformed file means "fall back to schema defaults": it returns nil with
// a logged warning, never an error, so a bad config file can't take verdicts
// down.
func LoadAdminFile(path string) *Overrides {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"path": path,
		}).Warnf("Admin assumptions file unreadable, using schema defaults: %v", err)
		return nil
	}

	var record AdminRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		logrus.WithFields(logrus.Fields{
			"path": path,
		}).Warnf("Admin assumptions file malformed, using schema defaults: %v", err)
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"path":       path,
		"updated_at": record.UpdatedAt,
	}).Info("Loaded admin assumption defaults")
	return &record.Overrides
}

// ParseAdminBlob decodes the admin-defaults JSON blob as delivered by the
// external assumption-cache service. Same policy as LoadAdminFile: malformed
// input degrades to schema defaults.
func ParseAdminBlob(blob []byte) *Overrides {
	if len(blob) == 0 {
		return nil
	}

	var record AdminRecord
	if err := json.Unmarshal(blob, &record); err != nil {
		logrus.Warnf("Admin assumptions blob malformed, using schema defaults: %v", err)
		return nil
	}
	return &record.Overrides
}

package config

import (
	"fmt"
	"os"

	"github.com/futig/interview-backend/internal/entity"
	"gopkg.in/yaml.v3"
)

// Profile is a named interview preset: type, length and personalization
type Profile struct {
	InterviewType   entity.InterviewType    `yaml:"interview_type"`
	TotalQuestions  int                     `yaml:"total_questions"`
	Personalization *entity.Personalization `yaml:"personalization,omitempty"`
}

type profilesFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadProfiles reads interview profiles from a YAML file. A missing file
// yields no profiles.
func LoadProfiles(path string) (map[string]Profile, error) {
	if path == "" {
		return map[string]Profile{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Printf("Warning: interview profiles file not found at %s, no profiles loaded\n", path)
		return map[string]Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}

	return ParseProfiles(data)
}

// ParseProfiles decodes and validates a profiles document
func ParseProfiles(data []byte) (map[string]Profile, error) {
	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	if file.Profiles == nil {
		return map[string]Profile{}, nil
	}

	for name, p := range file.Profiles {
		if p.InterviewType != "" && !p.InterviewType.Valid() {
			return nil, fmt.Errorf("profile %q: unknown interview type %q", name, p.InterviewType)
		}
		if p.TotalQuestions < 0 || p.TotalQuestions > 20 {
			return nil, fmt.Errorf("profile %q: total_questions must be between 0 and 20, got %d", name, p.TotalQuestions)
		}
	}

	return file.Profiles, nil
}

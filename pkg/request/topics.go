package request

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TopicCatalog is the set of broadcast topics a revision may be tagged with.
type TopicCatalog struct {
	Topics []string `yaml:"topics" json:"topics"`
}

func LoadTopics(path string) (TopicCatalog, error) {
	if path == "" {
		return DefaultTopics(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultTopics(), err
	}

	var cat TopicCatalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return TopicCatalog{}, err
	}
	if len(cat.Topics) == 0 {
		return TopicCatalog{}, errors.New("no topics configured")
	}
	return cat, nil
}

func (c TopicCatalog) Valid(topic string) bool {
	for _, t := range c.Topics {
		if strings.EqualFold(t, topic) {
			return true
		}
	}
	return false
}

func DefaultTopics() TopicCatalog {
	return TopicCatalog{Topics: []string{
		"agriculture",
		"culture",
		"education",
		"health",
		"news",
		"science",
		"technology",
		"weather",
	}}
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryRule maps a topic category to its keyword list and the
// environment variable that holds its notification destination.
// Rule order is part of the contract: the categorizer returns the
// first matching rule, so the declared order decides ties.
type CategoryRule struct {
	Name           string   `yaml:"name"`
	Keywords       []string `yaml:"keywords"`
	DestinationEnv string   `yaml:"destination_env"`

	// Destination is resolved from DestinationEnv at startup.
	// Empty means the category is categorized and cached but never
	// notified.
	Destination string `yaml:"-"`
}

type rulesFile struct {
	Categories []CategoryRule `yaml:"categories"`
}

// DefaultRules returns the compiled-in category rule set.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{
			Name:           "personal_development",
			Keywords:       []string{"personal development", "soft skills", "leadership", "communication"},
			DestinationEnv: "PERSONAL_DEV_GROUP",
		},
		{
			Name:           "cybersecurity",
			Keywords:       []string{"cybersecurity", "security", "ethical hacking", "penetration testing", "cyber"},
			DestinationEnv: "CYBERSEC_GROUP",
		},
		{
			Name:           "crypto",
			Keywords:       []string{"cryptocurrency", "blockchain", "bitcoin", "crypto", "web3"},
			DestinationEnv: "CRYPTO_GROUP",
		},
		{
			Name:           "marketing",
			Keywords:       []string{"marketing", "digital marketing", "social media marketing"},
			DestinationEnv: "MARKETING_GROUP",
		},
		{
			Name:           "backend",
			Keywords:       []string{"backend", "python", "java", "nodejs", "php", "database"},
			DestinationEnv: "BACKEND_GROUP",
		},
		{
			Name:           "web_design",
			Keywords:       []string{"web design", "html", "css", "ui design"},
			DestinationEnv: "WEBDESIGN_GROUP",
		},
		{
			Name:           "design",
			Keywords:       []string{"graphic design", "photoshop", "illustrator", "figma"},
			DestinationEnv: "DESIGN_GROUP",
		},
		{
			Name:           "fullstack",
			Keywords:       []string{"full stack", "fullstack", "mern", "mean", "web development"},
			DestinationEnv: "FULLSTACK_GROUP",
		},
		{
			Name:           "app_development",
			Keywords:       []string{"application development", "software development", "app development"},
			DestinationEnv: "APPDEV_GROUP",
		},
		{
			Name:           "mobile",
			Keywords:       []string{"mobile development", "android", "ios", "flutter", "react native"},
			DestinationEnv: "MOBILE_GROUP",
		},
		{
			Name:           "cloud",
			Keywords:       []string{"cloud computing", "aws", "azure", "google cloud", "devops"},
			DestinationEnv: "CLOUD_GROUP",
		},
		{
			Name:           "quantum",
			Keywords:       []string{"quantum computing", "quantum", "quantum mechanics"},
			DestinationEnv: "QUANTUM_GROUP",
		},
		{
			Name:           "seo",
			Keywords:       []string{"seo", "search engine optimization", "google analytics"},
			DestinationEnv: "SEO_GROUP",
		},
		{
			Name:           "software",
			Keywords:       []string{"software", "tools", "applications", "productivity"},
			DestinationEnv: "SOFTWARE_GROUP",
		},
	}
}

// LoadRules returns the category rules, reading them from the given
// YAML file when path is non-empty and falling back to DefaultRules
// otherwise. The YAML list order is preserved.
func LoadRules(path string) ([]CategoryRule, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("rules file %s contains no categories", path)
	}

	for i, rule := range f.Categories {
		if rule.Name == "" {
			return nil, fmt.Errorf("rules file %s: category %d has no name", path, i)
		}
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("rules file %s: category %q has no keywords", path, rule.Name)
		}
	}

	return f.Categories, nil
}

// ResolveDestinations fills in each rule's Destination from its
// DestinationEnv. Rules whose variable is unset keep an empty
// destination; their items are still categorized and deduped, just
// not sent anywhere.
func ResolveDestinations(rules []CategoryRule) []CategoryRule {
	resolved := make([]CategoryRule, len(rules))
	for i, rule := range rules {
		rule.Destination = os.Getenv(rule.DestinationEnv)
		resolved[i] = rule
	}
	return resolved
}

package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BankQuestion is one canned question from the YAML question bank, used when
// the generative provider cannot produce a question set.
type BankQuestion struct {
	Question   string   `yaml:"question"`
	Answer     string   `yaml:"answer"`
	Category   string   `yaml:"category"`
	Difficulty string   `yaml:"difficulty"`
	Roles      []string `yaml:"roles,omitempty"`
}

// QuestionBank holds all fallback questions.
type QuestionBank struct {
	Questions []BankQuestion `yaml:"questions"`
}

// LoadQuestionBank reads and parses the questions.yaml file.
func LoadQuestionBank(path string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank file: %w", err)
	}

	var bank QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question bank YAML: %w", err)
	}

	return &bank, nil
}

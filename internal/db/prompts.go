package db

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"
)

// PromptRecord is one prompt waiting to be imported.
type PromptRecord struct {
	Category string
	Text     string
}

// ImportPrompts upserts records into the prompt_library table and returns how
// many rows were processed.
func ImportPrompts(conn *gorm.DB, records []PromptRecord) (int, error) {
	if conn == nil {
		return 0, nil
	}
	inserted := 0
	for _, record := range records {
		entry := PromptLibrary{
			Category: record.Category,
			Text:     record.Text,
		}
		if err := conn.FirstOrCreate(&entry, PromptLibrary{Category: entry.Category, Text: entry.Text}).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// LoadDecks groups every prompt_library row by category.
func LoadDecks(conn *gorm.DB) (map[string][]string, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	var rows []PromptLibrary
	if err := conn.Order("category asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	decks := make(map[string][]string)
	for _, row := range rows {
		decks[row.Category] = append(decks[row.Category], row.Text)
	}
	return decks, nil
}

// ReadPromptsCSV parses "category,text" rows. The first row is a header.
func ReadPromptsCSV(r io.Reader) ([]PromptRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var records []PromptRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 2 {
			continue
		}
		category := strings.TrimSpace(row[0])
		text := strings.TrimSpace(row[1])
		if category == "" || text == "" {
			continue
		}
		records = append(records, PromptRecord{Category: category, Text: text})
	}
	return records, nil
}

// ReadPromptsJSON parses a deck file (a JSON array of prompts) into records of
// the given category.
func ReadPromptsJSON(r io.Reader, category string) ([]PromptRecord, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}
	var prompts []string
	if err := json.NewDecoder(r).Decode(&prompts); err != nil {
		return nil, err
	}
	records := make([]PromptRecord, 0, len(prompts))
	for _, text := range prompts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		records = append(records, PromptRecord{Category: category, Text: text})
	}
	return records, nil
}

// Package knowledge keeps the short question/answer catalogue the router
// matches utterances against. Entries live in SQLite so they survive
// restarts and can be extended over the HTTP API.
package knowledge

import (
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    "gorm.io/gorm/logger"

    "alira/assistant/internal/intent"
)

// Item is one catalogue row.
type Item struct {
    ID        uint      `gorm:"primaryKey" json:"id"`
    Question  string    `gorm:"uniqueIndex;not null" json:"question"`
    Answer    string    `gorm:"not null" json:"answer"`
    CreatedAt time.Time `json:"created_at"`
}

// seedItems bootstraps an empty catalogue on first open.
var seedItems = []Item{
    {Question: "what is 1kz head bolt torque", Answer: "118 Nm"},
    {Question: "wifi ssid name", Answer: "Nova"},
    {Question: "wifi password", Answer: "roomi100"},
    {Question: "wifi credentials", Answer: "Nova and the password is roomi100"},
    {Question: "fan relay pin", Answer: "D1"},
    {Question: "desk light pin", Answer: "D2"},
    {Question: "focus recipe", Answer: "Desk light 30%, fan 30%, 50-minute timer."},
    {Question: "camera lab steps", Answer: "Power capture card, start viewer, check Coral USB, run pipeline."},
}

// Store wraps the catalogue database.
type Store struct {
    db *gorm.DB
}

// Open opens (creating if needed) the catalogue at path and seeds it when
// empty. Path ":memory:" is accepted for tests.
func Open(path string) (*Store, error) {
    if path != ":memory:" && !strings.HasPrefix(path, "file:") {
        if dir := filepath.Dir(path); dir != "." && dir != "" {
            if err := os.MkdirAll(dir, 0o755); err != nil {
                return nil, fmt.Errorf("knowledge: create data dir: %w", err)
            }
        }
    }
    db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
        Logger: logger.Default.LogMode(logger.Silent),
    })
    if err != nil {
        return nil, fmt.Errorf("knowledge: open %s: %w", path, err)
    }
    if err := db.AutoMigrate(&Item{}); err != nil {
        return nil, fmt.Errorf("knowledge: migrate: %w", err)
    }
    s := &Store{db: db}
    if err := s.seed(); err != nil {
        return nil, err
    }
    return s, nil
}

func (s *Store) seed() error {
    var n int64
    if err := s.db.Model(&Item{}).Count(&n).Error; err != nil {
        return fmt.Errorf("knowledge: count: %w", err)
    }
    if n > 0 {
        return nil
    }
    if err := s.db.Create(&seedItems).Error; err != nil {
        return fmt.Errorf("knowledge: seed: %w", err)
    }
    return nil
}

// All returns the catalogue as detector pairs, in insertion order.
func (s *Store) All() ([]intent.QA, error) {
    var rows []Item
    if err := s.db.Order("id").Find(&rows).Error; err != nil {
        return nil, fmt.Errorf("knowledge: list: %w", err)
    }
    out := make([]intent.QA, 0, len(rows))
    for _, r := range rows {
        out = append(out, intent.QA{Question: r.Question, Answer: r.Answer})
    }
    return out, nil
}

// Add inserts one entry. Duplicate questions are rejected by the unique
// index.
func (s *Store) Add(question, answer string) (Item, error) {
    question = strings.TrimSpace(question)
    answer = strings.TrimSpace(answer)
    if question == "" || answer == "" {
        return Item{}, fmt.Errorf("knowledge: question and answer are required")
    }
    it := Item{Question: question, Answer: answer}
    if err := s.db.Create(&it).Error; err != nil {
        return Item{}, fmt.Errorf("knowledge: add: %w", err)
    }
    return it, nil
}

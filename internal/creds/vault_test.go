package creds

import (
    "strings"
    "testing"
)

const sampleCSV = `name,url,username,password
survivmo,https://survivmo.example.com/login,romm@example.com,hunter2
movies shows,https://movies-shows.online,viewer@example.com,popcorn9
router admin,http://192.168.1.1,admin,changeme
`

func loadSample(t *testing.T) *Vault {
    t.Helper()
    v, err := parse(strings.NewReader(sampleCSV))
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    if v.Len() != 3 {
        t.Fatalf("rows: %d", v.Len())
    }
    return v
}

func TestFindByNameSubstring(t *testing.T) {
    v := loadSample(t)
    e, ok := v.Find("what is the password for survivmo")
    if !ok || e.Password != "hunter2" {
        t.Fatalf("got %+v, %v", e, ok)
    }
}

func TestFindPrefersStrongerMatch(t *testing.T) {
    v := loadSample(t)
    // name and url both present beats name only
    e, ok := v.Find("login for movies shows at movies-shows.online")
    if !ok || e.Username != "viewer@example.com" {
        t.Fatalf("got %+v, %v", e, ok)
    }
}

func TestFindFuzzyFallback(t *testing.T) {
    v := loadSample(t)
    // no exact substring, close enough to the stored name
    e, ok := v.Find("movie show")
    if !ok || e.Name != "movies shows" {
        t.Fatalf("got %+v, %v", e, ok)
    }
}

func TestFindNoMatch(t *testing.T) {
    v := loadSample(t)
    if _, ok := v.Find("launch the weather balloon"); ok {
        t.Fatalf("expected no match")
    }
    if _, ok := v.Find("   "); ok {
        t.Fatalf("blank query matched")
    }
}

func TestDomainExtraction(t *testing.T) {
    if d := domainOf("https://movies-shows.online/account/settings"); d != "movies-shows.online" {
        t.Fatalf("domain: %s", d)
    }
    if d := domainOf("192.168.1.1"); d != "192.168.1.1" {
        t.Fatalf("domain: %s", d)
    }
}

func TestSimilarityBounds(t *testing.T) {
    if similarity("abc", "abc") != 1 {
        t.Fatalf("identical strings must score 1")
    }
    if similarity("abc", "") != 0 {
        t.Fatalf("empty string must score 0")
    }
    if s := similarity("focus", "fungus"); s <= 0 || s >= 1 {
        t.Fatalf("partial overlap out of range: %f", s)
    }
}

// Package creds answers "what is my X password" style questions from a
// locally exported credential CSV. The file is read once and kept in
// memory; lookups never touch the network.
package creds

import (
    "encoding/csv"
    "fmt"
    "io"
    "os"
    "sort"
    "strings"
)

// Entry is one credential row. Password is included; callers decide what
// to surface.
type Entry struct {
    Name     string `json:"name"`
    URL      string `json:"url"`
    Username string `json:"username"`
    Password string `json:"password"`
}

// Vault holds the loaded rows.
type Vault struct {
    entries []Entry
}

// Load reads the credential CSV at path. Header columns name, url,
// username and password are matched case-insensitively; unknown columns
// are ignored.
func Load(path string) (*Vault, error) {
    f, err := os.Open(path)
    if err != nil {
        return nil, fmt.Errorf("creds: open %s: %w", path, err)
    }
    defer f.Close()
    return parse(f)
}

func parse(r io.Reader) (*Vault, error) {
    cr := csv.NewReader(r)
    cr.FieldsPerRecord = -1
    header, err := cr.Read()
    if err != nil {
        return nil, fmt.Errorf("creds: read header: %w", err)
    }
    col := map[string]int{}
    for i, h := range header {
        col[strings.ToLower(strings.TrimSpace(h))] = i
    }
    pick := func(rec []string, name string) string {
        i, ok := col[name]
        if !ok || i >= len(rec) {
            return ""
        }
        return strings.TrimSpace(rec[i])
    }

    v := &Vault{}
    for {
        rec, err := cr.Read()
        if err == io.EOF {
            break
        }
        if err != nil {
            return nil, fmt.Errorf("creds: read row: %w", err)
        }
        v.entries = append(v.entries, Entry{
            Name:     pick(rec, "name"),
            URL:      pick(rec, "url"),
            Username: pick(rec, "username"),
            Password: pick(rec, "password"),
        })
    }
    return v, nil
}

// Len reports the number of loaded rows.
func (v *Vault) Len() int { return len(v.entries) }

// Find returns the best-matching entry for a free-form query like
// "password for survivmo" or "login for movies-shows.online", or false
// when nothing scores.
func (v *Vault) Find(query string) (Entry, bool) {
    q := strings.ToLower(strings.TrimSpace(query))
    if q == "" {
        return Entry{}, false
    }

    // Direct substring hits are strong signals; site name and URL weigh
    // more than the username.
    type scored struct {
        score int
        e     Entry
    }
    var hits []scored
    for _, e := range v.entries {
        score := 0
        if n := strings.ToLower(e.Name); n != "" && strings.Contains(q, n) {
            score += 3
        }
        if u := strings.ToLower(e.URL); u != "" && strings.Contains(q, u) {
            score += 3
        }
        if un := strings.ToLower(e.Username); un != "" && strings.Contains(q, un) {
            score += 2
        }
        if score > 0 {
            hits = append(hits, scored{score, e})
        }
    }
    if len(hits) > 0 {
        sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
        return hits[0].e, true
    }

    // Fuzzy fallback over names and URL domains.
    best := Entry{}
    bestRatio := 0.0
    for _, e := range v.entries {
        for _, key := range fuzzKeys(e) {
            if r := similarity(q, key); r > bestRatio {
                bestRatio = r
                best = e
            }
        }
    }
    if bestRatio >= 0.4 {
        return best, true
    }
    return Entry{}, false
}

func fuzzKeys(e Entry) []string {
    var keys []string
    if n := strings.ToLower(e.Name); n != "" {
        keys = append(keys, n)
    }
    if u := strings.ToLower(e.URL); u != "" {
        keys = append(keys, domainOf(u))
    }
    return keys
}

func domainOf(u string) string {
    if i := strings.Index(u, "//"); i >= 0 {
        u = u[i+2:]
    }
    if i := strings.IndexByte(u, '/'); i >= 0 {
        u = u[:i]
    }
    return u
}

// similarity is 2*LCS/(len(a)+len(b)), a Ratcliff/Obershelp-style ratio
// in [0,1].
func similarity(a, b string) float64 {
    if a == "" || b == "" {
        return 0
    }
    ra, rb := []rune(a), []rune(b)
    prev := make([]int, len(rb)+1)
    cur := make([]int, len(rb)+1)
    for i := 1; i <= len(ra); i++ {
        for j := 1; j <= len(rb); j++ {
            if ra[i-1] == rb[j-1] {
                cur[j] = prev[j-1] + 1
            } else if prev[j] >= cur[j-1] {
                cur[j] = prev[j]
            } else {
                cur[j] = cur[j-1]
            }
        }
        prev, cur = cur, prev
    }
    lcs := prev[len(rb)]
    return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

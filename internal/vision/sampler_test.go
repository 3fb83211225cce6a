package vision

import "testing"

func TestStrideKeepsEveryNth(t *testing.T) {
    p := StridePolicy{N: 3}
    kept := 0
    for i := 0; i < 9; i++ {
        if p.Keep(i) {
            kept++
            if i%3 != 0 {
                t.Fatalf("kept off-stride index %d", i)
            }
        }
    }
    if kept != 3 {
        t.Fatalf("expected 3 kept of 9, got %d", kept)
    }
}

func TestStrideOfOneKeepsEverything(t *testing.T) {
    p := StridePolicy{N: 1}
    for i := 0; i < 5; i++ {
        if !p.Keep(i) {
            t.Fatalf("stride 1 must keep index %d", i)
        }
    }
}

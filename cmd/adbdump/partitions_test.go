package main

import (
	"testing"

	"adbdump/internal/cache"
)

// countingShell counts remote calls so tests can assert the cache collapsed
// repeated fetches into one.
type countingShell struct {
	out   string
	calls int
}

func (c *countingShell) Shell(command string) (string, error) {
	c.calls++
	return c.out, nil
}

func TestListPartitionsSharesOneRemoteCall(t *testing.T) {
	cache.Global().Clear()
	t.Cleanup(cache.Global().Clear)

	sh := &countingShell{out: "mmcblk0p1|boot_a|131072\nmmcblk0p2|boot_b|131072\n"}

	first, err := listPartitions(sh, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := listPartitions(sh, false)
	if err != nil {
		t.Fatal(err)
	}

	if sh.calls != 1 {
		t.Errorf("remote listing ran %d times, want 1", sh.calls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("got %d then %d records, want 2 and 2", len(first), len(second))
	}
	if first[0].Label != second[0].Label {
		t.Errorf("cached listing differs: %q vs %q", first[0].Label, second[0].Label)
	}
}

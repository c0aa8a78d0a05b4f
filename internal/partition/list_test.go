package partition

import (
	"errors"
	"math/big"
	"strings"
	"testing"
)

type fakeShell struct {
	out string
	err error
}

func (f fakeShell) Shell(command string) (string, error) {
	return f.out, f.err
}

func TestParseListingBasic(t *testing.T) {
	records, skipped := ParseListing("mmcblk0p12|boot_a|131072\n")
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.Node != "mmcblk0p12" {
		t.Errorf("Node = %q, want mmcblk0p12", r.Node)
	}
	if r.Label != "boot_a" {
		t.Errorf("Label = %q, want boot_a", r.Label)
	}
	if !r.SizeKnown {
		t.Fatal("SizeKnown = false, want true")
	}
	if want := big.NewInt(67108864); r.SizeBytes().Cmp(want) != 0 {
		t.Errorf("SizeBytes = %s, want %s", r.SizeBytes(), want)
	}
}

func TestParseListingHugeSectorCount(t *testing.T) {
	// Sector counts beyond 32-bit (and 64-bit) range must survive exactly.
	sectors := "36893488147419103232" // 2^65
	records, _ := ParseListing("mmcblk0p1|userdata|" + sectors + "\n")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	want, _ := new(big.Int).SetString(sectors, 10)
	want.Mul(want, big.NewInt(512))
	if records[0].SizeBytes().Cmp(want) != 0 {
		t.Errorf("SizeBytes = %s, want %s", records[0].SizeBytes(), want)
	}
}

func TestParseListingMalformedLines(t *testing.T) {
	out := strings.Join([]string{
		"mmcblk0p1|boot_a|131072",
		"garbage without pipes",
		"only|two",
		"",
		"mmcblk0p2|boot_b|131072",
	}, "\n")

	records, skipped := ParseListing(out)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
}

func TestParseListingUnparsableSize(t *testing.T) {
	records, skipped := ParseListing("mmcblk0p3|cache|notanumber\n")
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0: size failures keep the record", skipped)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].SizeKnown {
		t.Error("SizeKnown = true, want false")
	}
	if records[0].SizeBytes() != nil {
		t.Error("SizeBytes should be nil for unknown sizes")
	}
}

func TestParseListingNegativeSize(t *testing.T) {
	records, _ := ParseListing("mmcblk0p3|cache|-5\n")
	if len(records) != 1 || records[0].SizeKnown {
		t.Error("negative sector counts must be treated as unknown")
	}
}

func TestParseListingEmptyNameFallsBack(t *testing.T) {
	records, _ := ParseListing("mmcblk0p9||2048\n")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Label != "unknown" {
		t.Errorf("Label = %q, want unknown", records[0].Label)
	}
}

func TestParseListingSortedCaseInsensitive(t *testing.T) {
	out := strings.Join([]string{
		"mmcblk0p3|Zebra|1",
		"mmcblk0p1|apple|1",
		"mmcblk0p2|Mango|1",
		"mmcblk0p4|banana|1",
	}, "\n")

	records, _ := ParseListing(out)
	for i := 1; i < len(records); i++ {
		a := strings.ToLower(records[i-1].Label)
		b := strings.ToLower(records[i].Label)
		if a > b {
			t.Fatalf("records not sorted: %q before %q", records[i-1].Label, records[i].Label)
		}
	}
}

func TestListBridgeError(t *testing.T) {
	bridgeErr := errors.New("device offline")
	_, _, err := List(fakeShell{err: bridgeErr})
	if err == nil {
		t.Fatal("expected error when remote command fails")
	}
	if !errors.Is(err, bridgeErr) {
		t.Errorf("error should wrap the bridge error, got %v", err)
	}
}

func TestListParsesBridgeOutput(t *testing.T) {
	records, skipped, err := List(fakeShell{out: "mmcblk0p1|boot_a|131072\nmmcblk0p2|boot_b|131072\n"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
}

func TestListReportsSkippedLines(t *testing.T) {
	out := strings.Join([]string{
		"mmcblk0p1|boot_a|131072",
		"sh: some stray diagnostic",
		"only|two",
	}, "\n")

	records, skipped, err := List(fakeShell{out: out})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
}

// Package partition enumerates MMC block partitions on a device and copies
// their raw contents to local image files.
package partition

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// listScript enumerates mmcblk0 partitions from sysfs and prints one
// node|name|sectors line per partition. Partitions whose size attribute is
// unreadable are omitted on the device side.
const listScript = `for part in /sys/block/mmcblk0/mmcblk0p*; do
    name=$(grep ^PARTNAME= "$part/uevent" 2>/dev/null | cut -d= -f2)
    size=$(cat "$part/size" 2>/dev/null)
    if [ -n "$size" ]; then
        echo "$(basename "$part")|${name:-unknown}|$size"
    fi
done`

// Record describes one partition as reported by the device kernel.
// Sectors is the size in 512-byte sectors; it can exceed 32-bit range on
// large devices, so it is kept arbitrary-precision. SizeKnown is false when
// the sector attribute did not parse; such records are kept, not dropped.
type Record struct {
	Node      string
	Label     string
	Sectors   *big.Int
	SizeKnown bool
}

var sectorSize = big.NewInt(512)

// SizeBytes returns the partition size in bytes, or nil if unknown.
func (r Record) SizeBytes() *big.Int {
	if !r.SizeKnown {
		return nil
	}
	return new(big.Int).Mul(r.Sectors, sectorSize)
}

// Shell runs a remote shell command on the device and returns its output.
type Shell interface {
	Shell(command string) (string, error)
}

// List enumerates the device's MMC partitions. The result is sorted by label,
// case-insensitively. A non-zero exit from the remote command fails the whole
// listing; individual malformed lines do not, but their count is returned so
// callers can report partial data.
func List(br Shell) ([]Record, int, error) {
	out, err := br.Shell(listScript)
	if err != nil {
		return nil, 0, fmt.Errorf("partition listing: %w", err)
	}
	records, skipped := ParseListing(out)
	return records, skipped, nil
}

// ParseListing parses node|name|sectors lines. Lines with fewer than three
// fields are skipped and counted; a sector field that is not a non-negative
// integer yields a record with SizeKnown=false rather than a skip.
func ParseListing(out string) (records []Record, skipped int) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 3 {
			skipped++
			continue
		}
		rec := Record{
			Node:  fields[0],
			Label: fields[1],
		}
		if rec.Label == "" {
			rec.Label = "unknown"
		}
		if sectors, ok := new(big.Int).SetString(fields[2], 10); ok && sectors.Sign() >= 0 {
			rec.Sectors = sectors
			rec.SizeKnown = true
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return strings.ToLower(records[i].Label) < strings.ToLower(records[j].Label)
	})
	return records, skipped
}

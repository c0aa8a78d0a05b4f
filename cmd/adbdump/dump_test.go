package main

import (
	"testing"

	"adbdump/internal/partition"
)

func TestNodeIndexAttributesDuplicateLabelsInOrder(t *testing.T) {
	records := []partition.Record{
		{Node: "mmcblk0p5", Label: "unknown"},
		{Node: "mmcblk0p7", Label: "unknown"},
		{Node: "mmcblk0p12", Label: "boot_a"},
	}
	nodes := newNodeIndex(records)

	if got := nodes.take("unknown"); got != "mmcblk0p5" {
		t.Errorf("first unknown = %q, want mmcblk0p5", got)
	}
	if got := nodes.take("boot_a"); got != "mmcblk0p12" {
		t.Errorf("boot_a = %q, want mmcblk0p12", got)
	}
	if got := nodes.take("unknown"); got != "mmcblk0p7" {
		t.Errorf("second unknown = %q, want mmcblk0p7", got)
	}
	if got := nodes.take("unknown"); got != "" {
		t.Errorf("exhausted label = %q, want empty", got)
	}
	if got := nodes.take("not_listed"); got != "" {
		t.Errorf("unlisted label = %q, want empty", got)
	}
}

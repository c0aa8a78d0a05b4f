package main

import (
	"testing"

	"adbdump/internal/cache"
	"adbdump/internal/config"
)

func TestFetchPropsSharesOneRemoteCall(t *testing.T) {
	cache.Global().Clear()
	t.Cleanup(cache.Global().Clear)

	sh := &countingShell{out: "[ro.product.model]: [Pixel 7]\n[ro.serialno]: [29131FDH2006BC]\n"}
	cfg := &config.Config{}

	first, err := fetchProps(cfg, sh, "", false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := fetchProps(cfg, sh, "", false)
	if err != nil {
		t.Fatal(err)
	}

	if sh.calls != 1 {
		t.Errorf("getprop ran %d times, want 1", sh.calls)
	}
	if first["ro.product.model"] != "Pixel 7" {
		t.Errorf(`first["ro.product.model"] = %q`, first["ro.product.model"])
	}
	if second["ro.serialno"] != "29131FDH2006BC" {
		t.Errorf(`second["ro.serialno"] = %q`, second["ro.serialno"])
	}
}

package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Minute)
	if got := c.Get("k"); got != "v" {
		t.Errorf("Get = %v, want v", got)
	}
}

func TestGetMissing(t *testing.T) {
	c := New()
	if got := c.Get("absent"); got != nil {
		t.Errorf("Get = %v, want nil", got)
	}
}

func TestExpiry(t *testing.T) {
	c := New()
	c.Set("k", "v", -time.Second)
	if got := c.Get("k"); got != nil {
		t.Errorf("expired entry returned %v", got)
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := New()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	if c.Get("a") != nil {
		t.Error("deleted entry still present")
	}

	c.Clear()
	if c.Get("b") != nil {
		t.Error("cleared entry still present")
	}
}
